// Copyright 2025 Upbound Inc.
// All rights reserved

// Package cargo simulates the package and feature sets Cargo itself would
// build for a given set of root packages, resolver version, and target
// platform, without re-resolving versions: it operates entirely on an
// already-built pkggraph.Graph and featuregraph.Graph.
package cargo

import (
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/platform"
)

// ResolverVersion selects which Cargo feature-resolver semantics to
// simulate.
type ResolverVersion int

const (
	// V2 is the modern resolver: target and host platforms are unified
	// separately, so a proc-macro or build-script dependency's own feature
	// set never leaks into the target build.
	V2 ResolverVersion = iota
	// V1 is the legacy resolver: every dependency kind is unified against a
	// single platform, so build-dependencies (host-only in reality) still
	// influence the target feature set. This is a known Cargo quirk, kept
	// here deliberately rather than "fixed".
	V1
	// V1Install mimics `cargo install`'s historical variant of V1: like V1,
	// but dev-dependencies of the root packages are never considered at
	// all, since an installed binary never runs its own tests.
	V1Install
)

// CargoOptions configures a single simulated build.
type CargoOptions struct {
	Version ResolverVersion

	// TargetPlatform is the platform normal/dev dependencies build for.
	TargetPlatform platform.Platform
	// HostPlatform is the platform build-dependencies and proc-macros
	// build for. Ignored under V1/V1Install, where everything is unified
	// against TargetPlatform.
	HostPlatform platform.Platform

	// IncludeDev controls whether dev-dependencies of the root packages are
	// considered at all (e.g. `cargo build` excludes them, `cargo test`
	// includes them). Always false under V1Install.
	IncludeDev bool

	// Filter selects which of each root package's own features are
	// activated; transitive activation follows from there.
	Filter featuregraph.FeatureFilter
}

// BuildKind tags which half of a V2 simulation a resolved package instance
// belongs to.
type BuildKind int

const (
	// TargetBuild is the platform normal/dev dependencies are built for.
	TargetBuild BuildKind = iota
	// HostBuild is the platform build-dependencies and proc-macros are
	// built for.
	HostBuild
)

// String renders the build kind the way emitted Cargo.toml sections name
// it: "dependencies" vs "build-dependencies" follow from this, not the
// other way around, so this just reports the internal label.
func (k BuildKind) String() string {
	if k == HostBuild {
		return "host"
	}
	return "target"
}
