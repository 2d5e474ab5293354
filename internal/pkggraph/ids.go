// Copyright 2025 Upbound Inc.
// All rights reserved

// Package pkggraph implements the package graph (C2): a directed graph of
// Cargo packages with labeled edges carrying per-kind dependency
// requirements, built from a resolved cargo-metadata document.
package pkggraph

// PackageId is an opaque, stable identifier for a package, exactly as
// reported by the metadata source.
type PackageId string

// DependencyKind distinguishes the three edge kinds Cargo tracks for every
// dependency declaration.
type DependencyKind int

const (
	// Normal is an ordinary [dependencies] entry.
	Normal DependencyKind = iota
	// Build is a [build-dependencies] entry.
	Build
	// Development is a [dev-dependencies] entry.
	Development
)

// String renders the dependency kind the way Cargo.toml section names do.
func (k DependencyKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Build:
		return "build"
	case Development:
		return "dev"
	default:
		return "unknown"
	}
}

// PackageSourceKind tags the variants of PackageSource.
type PackageSourceKind int

const (
	// SourceWorkspace is a workspace member addressed by a workspace-
	// relative path.
	SourceWorkspace PackageSourceKind = iota
	// SourcePath is a local path dependency outside the workspace.
	SourcePath
	// SourceExternal is an external registry (by name/URL, no version
	// resolution is performed against it).
	SourceExternal
	// SourceGit is a git dependency, addressed by repository URL and a
	// ref (branch, tag, or rev).
	SourceGit
)

// PackageSource is a tagged union over where a package's manifest comes
// from.
type PackageSource struct {
	Kind PackageSourceKind

	// Path is set for SourceWorkspace (workspace-relative) and SourcePath
	// (filesystem path) sources.
	Path string

	// Registry is set for SourceExternal: the registry name or URL as
	// passed through verbatim (no alternate-registry version resolution is
	// performed, per the Non-goals).
	Registry string

	// Repository and Ref are set for SourceGit.
	Repository string
	Ref        GitRef
}

// GitRefKind tags the GitRef variants.
type GitRefKind int

const (
	// GitRefNone means no ref was pinned (default branch).
	GitRefNone GitRefKind = iota
	GitRefBranch
	GitRefTag
	GitRefRev
)

// GitRef pins a git dependency to a branch, tag, or revision.
type GitRef struct {
	Kind  GitRefKind
	Value string
}
