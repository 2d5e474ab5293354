// Copyright 2025 Upbound Inc.
// All rights reserved

// Package tomlout renders a hakari.OutputMap as the literal TOML dependency
// blocks spec.md §6 contracts, hand-rolled rather than built on
// BurntSushi/toml's Marshal because the inline-table key ordering it
// requires (package, then version/path/git, then default-features, then
// features) isn't something struct- or map-driven encoding guarantees.
package tomlout

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// defaultRegistryURL is what cargo-metadata reports for the implicit
// crates.io registry once the "registry+" source prefix is stripped; an
// entry sourced from it never needs an explicit `registry = "..."` key.
const defaultRegistryURL = "https://github.com/rust-lang/crates.io-index"

// Options configures how path and registry dependencies are rendered.
type Options struct {
	// HakariPath is the workspace-relative directory the workspace-hack
	// crate's Cargo.toml lives in, used to compute relative paths for path
	// dependencies. Required if the output map contains any.
	HakariPath string
	// Registries maps a configured registry name to its URL, the reverse of
	// which is used to recover the `registry = "name"` key for a non-default
	// registry source.
	Registries map[string]string
}

// Render writes out's entries to w as a sequence of `[dependencies]` /
// `[build-dependencies]` (and per-platform `[target.'TRIPLE'....]`) TOML
// tables, in the output map's canonical order.
func Render(w io.Writer, out *hakari.OutputMap, opts Options) error {
	var curPlatform string
	var curKind cargo.BuildKind
	opened := false

	for _, e := range out.Entries() {
		if !opened || e.Platform != curPlatform || e.Kind != curKind {
			header, err := sectionHeader(e.Platform, e.Kind)
			if err != nil {
				return err
			}
			if opened {
				if _, err := fmt.Fprintln(w); err != nil {
					return fmtWriteError(err)
				}
			}
			if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
				return fmtWriteError(err)
			}
			curPlatform, curKind, opened = e.Platform, e.Kind, true
		}

		line, err := buildLine(e, opts)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return fmtWriteError(err)
		}
	}
	return nil
}

func sectionHeader(platform string, kind cargo.BuildKind) (string, error) {
	name := "dependencies"
	if kind == cargo.HostBuild {
		name = "build-dependencies"
	}
	if platform == "" {
		return fmt.Sprintf("[%s]", name), nil
	}
	if strings.ContainsAny(platform, "'\n") {
		return "", badPlatform(platform)
	}
	return fmt.Sprintf("[target.'%s'.%s]", platform, name), nil
}

func buildLine(e *hakari.OutputEntry, opts Options) (string, error) {
	key := e.Name
	var fields []string
	if e.Rename != "" {
		key = e.Rename
		fields = append(fields, fmt.Sprintf("package = %s", strconv.Quote(e.Name)))
	}

	switch e.Source.Kind {
	case pkggraph.SourceExternal:
		reg := e.Source.Registry
		fields = append(fields, fmt.Sprintf("version = %s", strconv.Quote(e.Version)))
		if reg != "" && reg != defaultRegistryURL {
			name, ok := registryNameFor(opts.Registries, reg)
			if !ok {
				return "", unrecognizedRegistry(e.Name, reg)
			}
			fields = append(fields, fmt.Sprintf("registry = %s", strconv.Quote(name)))
		}
	case pkggraph.SourceGit:
		fields = append(fields, fmt.Sprintf("git = %s", strconv.Quote(e.Source.Repository)))
		switch e.Source.Ref.Kind {
		case pkggraph.GitRefBranch:
			fields = append(fields, fmt.Sprintf("branch = %s", strconv.Quote(e.Source.Ref.Value)))
		case pkggraph.GitRefTag:
			fields = append(fields, fmt.Sprintf("tag = %s", strconv.Quote(e.Source.Ref.Value)))
		case pkggraph.GitRefRev:
			fields = append(fields, fmt.Sprintf("rev = %s", strconv.Quote(e.Source.Ref.Value)))
		}
	case pkggraph.SourcePath, pkggraph.SourceWorkspace:
		if opts.HakariPath == "" {
			return "", pathWithoutHakari(e.Name)
		}
		fields = append(fields, fmt.Sprintf("path = %s", strconv.Quote(relativePath(opts.HakariPath, e.Source.Path))))
	default:
		return "", unrecognizedExternal(e.Name, "unknown source kind")
	}

	if e.SuppressDefault {
		fields = append(fields, "default-features = false")
	}
	if len(e.Features) > 0 {
		quoted := make([]string, len(e.Features))
		for i, f := range e.Features {
			quoted[i] = strconv.Quote(f)
		}
		fields = append(fields, fmt.Sprintf("features = [%s]", strings.Join(quoted, ", ")))
	}

	return fmt.Sprintf("%s = { %s }", key, strings.Join(fields, ", ")), nil
}

func registryNameFor(registries map[string]string, url string) (string, bool) {
	for name, u := range registries {
		if u == url {
			return name, true
		}
	}
	return "", false
}

// relativePath renders to's path relative to the hakari crate's directory,
// using forward slashes since the result lands in a TOML file regardless of
// host OS.
func relativePath(hakariPath, to string) string {
	rel, err := filepath.Rel(hakariPath, to)
	if err != nil {
		return filepath.ToSlash(to)
	}
	return filepath.ToSlash(rel)
}
