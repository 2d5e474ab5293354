// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// buildAppServde builds a two-package fixture: "app" depends optionally on
// "serde" (which declares a "derive" feature), and exercises local,
// strong ("dep/x"), and weak ("dep?/x") activation tokens.
func buildAppServde() *Graph {
	app := pkggraph.PackageMetadata{
		Id: "app", Name: "app", VersionStr: "0.1.0",
		Features: map[string][]string{
			"default":  {"http"},
			"http":     {"serde"},
			"json":     {"serde/derive"},
			"weakjson": {"serde?/derive"},
		},
		OptionalDeps: map[string]struct{}{"serde": {}},
	}
	serde := pkggraph.PackageMetadata{
		Id: "serde", Name: "serde", VersionStr: "1.0.0",
		Features: map[string][]string{"derive": nil},
	}

	link := pkggraph.PackageLink{
		From: "app", To: "serde",
		DepName: "serde", ResolvedName: "serde",
		Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()},
	}

	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{app, serde},
		Links:    []pkggraph.PackageLink{link},
		Members:  []pkggraph.WorkspaceMember{{Path: ".", Id: "app"}},
	}
	pg, err := pkggraph.Build(in)
	if err != nil {
		panic(err)
	}
	return mustBuild(pg)
}

func mustBuild(pg *pkggraph.Graph) *Graph {
	g, err := Build(pg)
	if err != nil {
		panic(err)
	}
	return g
}
