// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// buildTwoMembersSharedDep builds a workspace with two members, app1 and
// app2, both depending on the external crate serde: app1 wants serde's
// plain default build, app2 additionally requests the "derive" feature.
// This is the textbook case Hakari exists to collapse: serde would
// otherwise be built twice with two different feature sets.
func buildTwoMembersSharedDep() (*pkggraph.Graph, *featuregraph.Graph) {
	serde := pkggraph.PackageMetadata{
		Id: "serde", Name: "serde", VersionStr: "1.0.200",
		Source:   pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: "crates.io"},
		Features: map[string][]string{"derive": {}, "default": {}},
	}
	app1 := pkggraph.PackageMetadata{Id: "app1", Name: "app1", VersionStr: "0.1.0"}
	app2 := pkggraph.PackageMetadata{Id: "app2", Name: "app2", VersionStr: "0.1.0"}

	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{app1, app2, serde},
		Links: []pkggraph.PackageLink{
			{
				From: "app1", To: "serde", DepName: "serde", ResolvedName: "serde",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()},
			},
			{
				From: "app2", To: "serde", DepName: "serde", ResolvedName: "serde",
				Normal: pkggraph.DependencyReq{
					Status:   pkggraph.AlwaysRequired(),
					Features: map[string]pkggraph.PlatformStatus{"derive": pkggraph.AlwaysRequired()},
				},
			},
		},
		Members: []pkggraph.WorkspaceMember{
			{Path: "app1", Id: "app1"},
			{Path: "app2", Id: "app2"},
		},
	}

	pg, err := pkggraph.Build(in)
	if err != nil {
		panic(err)
	}
	fg, err := featuregraph.Build(pg)
	if err != nil {
		panic(err)
	}
	return pg, fg
}

// buildRenameCollision builds a workspace where two distinct packages both
// happen to be named "foo" (crates.io versions 1.0.0 and 2.0.0, each used
// by one member), exercising the rename rule.
func buildRenameCollision() (*pkggraph.Graph, *featuregraph.Graph) {
	fooA := pkggraph.PackageMetadata{
		Id: "foo@1.0.0", Name: "foo", VersionStr: "1.0.0",
		Source: pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: "crates.io"},
	}
	fooB := pkggraph.PackageMetadata{
		Id: "foo@2.0.0", Name: "foo", VersionStr: "2.0.0",
		Source: pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: "crates.io"},
	}
	app1 := pkggraph.PackageMetadata{Id: "app1", Name: "app1", VersionStr: "0.1.0"}
	app2 := pkggraph.PackageMetadata{Id: "app2", Name: "app2", VersionStr: "0.1.0"}

	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{app1, app2, fooA, fooB},
		Links: []pkggraph.PackageLink{
			{From: "app1", To: "foo@1.0.0", DepName: "foo", ResolvedName: "foo",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()}},
			{From: "app2", To: "foo@2.0.0", DepName: "foo", ResolvedName: "foo",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()}},
		},
		Members: []pkggraph.WorkspaceMember{
			{Path: "app1", Id: "app1"},
			{Path: "app2", Id: "app2"},
		},
	}

	pg, err := pkggraph.Build(in)
	if err != nil {
		panic(err)
	}
	fg, err := featuregraph.Build(pg)
	if err != nil {
		panic(err)
	}
	return pg, fg
}
