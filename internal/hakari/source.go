// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// sourceDescriptor renders a PackageSource into a short, stable string used
// as rename-rule hash input and in verify-mode explanations. Not a wire
// format; internal/tomlout renders the actual Cargo.toml dependency entry.
func sourceDescriptor(s pkggraph.PackageSource) string {
	switch s.Kind {
	case pkggraph.SourceGit:
		ref := s.Ref.Value
		return "git+" + s.Repository + "#" + ref
	case pkggraph.SourcePath:
		return "path+" + s.Path
	case pkggraph.SourceWorkspace:
		return "workspace+" + s.Path
	default:
		if s.Registry != "" {
			return "registry+" + s.Registry
		}
		return "registry+crates.io"
	}
}
