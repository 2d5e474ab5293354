// Copyright 2025 Upbound Inc.
// All rights reserved

package cargo

import (
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// buildAppCodegen builds: app --(normal)--> lib, app --(build)--> codegen.
// codegen is a build-dependency of app that must only show up in the host
// build under V2, but leaks into the single build under V1.
func buildAppCodegen() (*pkggraph.Graph, *featuregraph.Graph) {
	mk := func(name string) pkggraph.PackageMetadata {
		return pkggraph.PackageMetadata{Id: pkggraph.PackageId(name), Name: name, VersionStr: "1.0.0"}
	}
	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{mk("app"), mk("lib"), mk("codegen")},
		Links: []pkggraph.PackageLink{
			{
				From: "app", To: "lib", DepName: "lib", ResolvedName: "lib",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()},
			},
			{
				From: "app", To: "codegen", DepName: "codegen", ResolvedName: "codegen",
				Build: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()},
			},
		},
		Members: []pkggraph.WorkspaceMember{{Path: ".", Id: "app"}},
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
