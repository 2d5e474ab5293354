// Copyright 2025 Upbound Inc.
// All rights reserved

// Package hakari implements the Hakari workspace-hack unification engine
// (C5): it runs the build simulator (internal/cargo) across every
// workspace member, standard-feature level, dev-dependency toggle, and
// configured platform, accumulates which third-party packages get built
// more than one way, and emits a single unioned dependency set a
// workspace-hack crate can depend on to force Cargo to build each
// third-party package exactly once.
package hakari

import (
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// UnifyTargetHost controls whether a third-party package appearing in both
// the target and host builds is unified into a single output entry.
type UnifyTargetHost int

const (
	// UnifyNone never merges target and host entries for the same package.
	UnifyNone UnifyTargetHost = iota
	// UnifyIfBoth merges them only if the package is reached on both sides.
	UnifyIfBoth
	// ReplicateTargetOnHost always emits the host entry as a superset of
	// the target entry, even if the package wasn't independently reached
	// on the host.
	ReplicateTargetOnHost
	// UnifyAuto behaves like UnifyIfBoth. It does not inspect the
	// configured platforms or the build dependencies to pick another mode.
	UnifyAuto
)

// DepFormatVersion selects how emitted dependency entries are shaped.
type DepFormatVersion int

const (
	// DepFormatV1 emits path-only `workspace-hack = { path = ... }` style
	// entries (no version requirement).
	DepFormatV1 DepFormatVersion = iota
	// DepFormatV2 additionally includes a version requirement.
	DepFormatV2
)

// BuilderOptions configures a single Hakari run. Mirrors the option table
// in spec.md §4.5 exactly; zero value is a reasonable generate-mode
// default (no hakari package, V2 resolver, UnifyNone, "any" platform
// only).
type BuilderOptions struct {
	// HakariPackage is the workspace-hack package itself, if one already
	// exists. Excluded from traversal in generate mode; included as
	// features-only in verify mode.
	HakariPackage *pkggraph.PackageId

	UnifyTargetHost UnifyTargetHost
	UnifyAll        bool

	// Platforms lists concrete triples to unify across. When it is empty,
	// only the platform-agnostic "any" bucket is simulated; otherwise "any"
	// is simulated as well only when UnifyAll is set.
	Platforms []string

	TraversalExcludes map[pkggraph.PackageId]struct{}
	FinalExcludes     map[pkggraph.PackageId]struct{}

	// Registries maps a registry name to its URL, for emitting deps that
	// come from a non-default registry.
	Registries map[string]string

	OutputSingleFeature bool
	DepFormatVersion    DepFormatVersion

	// VerifyMode switches HakariPackage's traversal role: included as
	// features-only (Default) rather than excluded.
	VerifyMode bool
}

// Option mutates a BuilderOptions.
type Option func(*BuilderOptions)

// WithHakariPackage sets the workspace-hack package id.
func WithHakariPackage(id pkggraph.PackageId) Option {
	return func(o *BuilderOptions) { o.HakariPackage = &id }
}

// WithUnifyTargetHost sets the target/host unification mode.
func WithUnifyTargetHost(u UnifyTargetHost) Option {
	return func(o *BuilderOptions) { o.UnifyTargetHost = u }
}

// WithUnifyAll toggles unification across the "any" platform in addition
// to the configured platform set.
func WithUnifyAll(v bool) Option {
	return func(o *BuilderOptions) { o.UnifyAll = v }
}

// WithPlatforms sets the explicit triple list to unify across.
func WithPlatforms(triples ...string) Option {
	return func(o *BuilderOptions) { o.Platforms = triples }
}

// WithTraversalExcludes keeps the given workspace members from being used
// as simulation roots. It does not prune them, or anything else, from the
// traversal: a package reached as a dependency of another member is still
// traversed and recorded, listed here or not.
func WithTraversalExcludes(ids ...pkggraph.PackageId) Option {
	return func(o *BuilderOptions) {
		o.TraversalExcludes = toSet(ids)
	}
}

// WithFinalExcludes removes the given packages from the output after
// computation.
func WithFinalExcludes(ids ...pkggraph.PackageId) Option {
	return func(o *BuilderOptions) {
		o.FinalExcludes = toSet(ids)
	}
}

// WithRegistries sets the name -> URL map for non-default registries.
func WithRegistries(m map[string]string) Option {
	return func(o *BuilderOptions) { o.Registries = m }
}

// WithOutputSingleFeature toggles whether single-feature-set deps are
// still emitted.
func WithOutputSingleFeature(v bool) Option {
	return func(o *BuilderOptions) { o.OutputSingleFeature = v }
}

// WithDepFormatVersion sets the emitted dependency entry shape.
func WithDepFormatVersion(v DepFormatVersion) Option {
	return func(o *BuilderOptions) { o.DepFormatVersion = v }
}

// WithVerifyMode switches the builder into verify mode.
func WithVerifyMode(v bool) Option {
	return func(o *BuilderOptions) { o.VerifyMode = v }
}

func toSet(ids []pkggraph.PackageId) map[pkggraph.PackageId]struct{} {
	out := make(map[pkggraph.PackageId]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func newOptions(opts ...Option) *BuilderOptions {
	o := &BuilderOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
