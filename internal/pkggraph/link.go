// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

// PackageLink is a directed edge from one package to another, carrying the
// per-kind dependency requirements Cargo distinguishes.
type PackageLink struct {
	From PackageId
	To   PackageId

	// DepName is the dependency name as written in the manifest (the key in
	// [dependencies]).
	DepName string
	// ResolvedName is the crate name actually linked against, honoring any
	// `package = "..."` rename.
	ResolvedName string

	// VersionReq is the raw version requirement string as written. Guppy
	// (and this port) never re-resolves it against a registry: the input
	// resolver output is authoritative, per the Non-goals.
	VersionReq string

	Normal DependencyReq
	Build  DependencyReq
	Dev    DependencyReq
}

// ReqFor returns the DependencyReq for the given kind.
func (l *PackageLink) ReqFor(kind DependencyKind) DependencyReq {
	switch kind {
	case Build:
		return l.Build
	case Development:
		return l.Dev
	default:
		return l.Normal
	}
}

// IsOptional reports whether the dependency is ever declared optional (on
// any platform, for any kind).
func (l *PackageLink) IsOptional() bool {
	return len(l.Normal.Status.Optional) > 0 ||
		len(l.Build.Status.Optional) > 0 ||
		len(l.Dev.Status.Optional) > 0
}
