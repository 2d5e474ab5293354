// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import (
	"github.com/Masterminds/semver/v3"
)

// BuildTarget is a single Cargo build target (lib, bin, example, test,
// bench) belonging to a package. Only the fields the simulator and Hakari
// engine need are modeled.
type BuildTarget struct {
	// Kind is the target kind, e.g. "lib", "bin", "proc-macro".
	Kind string
	Name string
}

// PackageMetadata describes a single package node in the graph.
type PackageMetadata struct {
	Id          PackageId
	Name        string
	VersionStr  string
	Version     *semver.Version
	Authors     []string
	Description string
	License     string
	Source      PackageSource
	ManifestPath string

	BuildTargets []BuildTarget

	HasBuildScript bool
	IsProcMacro    bool

	// Publish mirrors cargo-metadata's `publish` field: nil means
	// publishable to any registry, an empty non-nil slice means never
	// published, and a populated slice restricts publishing to those
	// registries by name.
	Publish *[]string

	// Features maps a declared feature name to its list of activation
	// tokens, exactly as written in [features] in Cargo.toml.
	Features map[string][]string

	// OptionalDeps is the set of dependency names (not necessarily the same
	// as the crate name, since deps can be renamed) declared optional = true
	// somewhere in the manifest.
	OptionalDeps map[string]struct{}
}

// HasFeature reports whether the package declares the named feature
// explicitly (not counting implicit optional-dependency features).
func (m *PackageMetadata) HasFeature(name string) bool {
	_, ok := m.Features[name]
	return ok
}

// IsOptionalDependency reports whether name is an optional dependency of
// this package.
func (m *PackageMetadata) IsOptionalDependency(name string) bool {
	_, ok := m.OptionalDeps[name]
	return ok
}

// IsThirdParty reports whether the package's source is neither a workspace
// member nor a local path dependency.
func (m *PackageMetadata) IsThirdParty() bool {
	return m.Source.Kind == SourceExternal || m.Source.Kind == SourceGit
}

// PublishNever reports whether the package is marked as never published
// (`publish = false` in Cargo.toml).
func (m *PackageMetadata) PublishNever() bool {
	return m.Publish != nil && len(*m.Publish) == 0
}
