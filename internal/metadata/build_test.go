// Copyright 2025 Upbound Inc.
// All rights reserved

package metadata

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

func strp(s string) *string { return &s }

func appSerdeDocument() *Document {
	return &Document{
		WorkspaceRoot:    "/ws",
		WorkspaceMembers: []string{"app 0.1.0 (path+file:///ws/app)"},
		Packages: []RawPackage{
			{
				Id:           "app 0.1.0 (path+file:///ws/app)",
				Name:         "app",
				Version:      "0.1.0",
				ManifestPath: "/ws/app/Cargo.toml",
				Dependencies: []RawDependency{
					{Name: "serde", Req: "^1", UsesDefaultFeatures: true, Features: []string{"derive"}},
					{
						Name: "libc", Req: "^0.2", UsesDefaultFeatures: true,
						Target: strp("cfg(unix)"),
					},
				},
			},
			{
				Id:           "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)",
				Name:         "serde",
				Version:      "1.0.0",
				Source:       strp("registry+https://github.com/rust-lang/crates.io-index"),
				ManifestPath: "/home/.cargo/registry/src/serde-1.0.0/Cargo.toml",
			},
			{
				Id:           "libc 0.2.0 (registry+https://github.com/rust-lang/crates.io-index)",
				Name:         "libc",
				Version:      "0.2.0",
				Source:       strp("registry+https://github.com/rust-lang/crates.io-index"),
				ManifestPath: "/home/.cargo/registry/src/libc-0.2.0/Cargo.toml",
			},
		},
		Resolve: &RawResolve{
			Nodes: []RawResolveNode{
				{
					Id: "app 0.1.0 (path+file:///ws/app)",
					Deps: []RawResolveDep{
						{Name: "serde", Pkg: "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)"},
						{Name: "libc", Pkg: "libc 0.2.0 (registry+https://github.com/rust-lang/crates.io-index)"},
					},
				},
				{Id: "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)"},
				{Id: "libc 0.2.0 (registry+https://github.com/rust-lang/crates.io-index)"},
			},
		},
	}
}

func TestBuildClassifiesWorkspaceAndRegistrySources(t *testing.T) {
	in, err := Build(appSerdeDocument())
	assert.NilError(t, err)
	assert.Equal(t, len(in.Packages), 3)
	assert.Equal(t, len(in.Members), 1, "reason: only app is a workspace member")

	var app, serde pkggraph.PackageMetadata
	for _, p := range in.Packages {
		switch p.Name {
		case "app":
			app = p
		case "serde":
			serde = p
		}
	}

	assert.Equal(t, app.Source.Kind, pkggraph.SourceWorkspace)
	assert.Equal(t, app.Source.Path, "app")
	assert.Equal(t, serde.Source.Kind, pkggraph.SourceExternal)
	assert.Equal(t, serde.Source.Registry, "https://github.com/rust-lang/crates.io-index")
}

func TestBuildUnconditionalDependencyIsAlwaysRequired(t *testing.T) {
	in, err := Build(appSerdeDocument())
	assert.NilError(t, err)

	link := findLink(t, in, "serde")
	assert.Assert(t, link.Normal.Applies(), "reason: serde is an unconditional normal dependency")
	assert.Equal(t, len(link.Normal.Status.Required), 0, "reason: AlwaysRequired is the empty-but-non-nil sentinel")
	_, hasDerive := link.Normal.Features["derive"]
	assert.Assert(t, hasDerive, "reason: app requests serde's derive feature")
}

func TestBuildTargetGatedDependencyIsConditional(t *testing.T) {
	in, err := Build(appSerdeDocument())
	assert.NilError(t, err)

	link := findLink(t, in, "libc")
	assert.Assert(t, link.Normal.Applies())
	assert.Equal(t, len(link.Normal.Status.Required), 1, "reason: libc is gated on cfg(unix)")
}

func TestBuildMergesSplitManifestEntriesForSameDependency(t *testing.T) {
	doc := appSerdeDocument()
	// A split manifest: one plain entry and one cfg-gated entry for the
	// same dependency, as Cargo.toml produces when a crate appears in both
	// [dependencies] and a [target.'cfg(...)'.dependencies] table.
	doc.Packages[0].Dependencies = append(doc.Packages[0].Dependencies, RawDependency{
		Name: "libc", Req: "^0.2", UsesDefaultFeatures: true,
	})

	in, err := Build(doc)
	assert.NilError(t, err)

	link := findLink(t, in, "libc")
	assert.Assert(t, !link.Normal.Status.IsTrivial())
	assert.Equal(t, len(link.Normal.Status.Required), 0, "reason: the unconditional entry collapses the union to always-required")
}

func findLink(t *testing.T, in pkggraph.BuildInput, depName string) pkggraph.PackageLink {
	t.Helper()
	for _, l := range in.Links {
		if l.DepName == depName {
			return l
		}
	}
	t.Fatalf("no link found for dependency %q", depName)
	return pkggraph.PackageLink{}
}

func TestBuildRequiresResolveGraph(t *testing.T) {
	_, err := Build(&Document{})
	assert.ErrorContains(t, err, "resolve graph")
}
