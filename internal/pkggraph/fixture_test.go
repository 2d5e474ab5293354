// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

// buildDiamond builds a -> {b, c} -> d, a common small fixture for topo and
// set-op tests.
func buildDiamond() *Graph {
	mk := func(name string) PackageMetadata {
		return PackageMetadata{Id: PackageId(name), Name: name, VersionStr: "1.0.0"}
	}
	link := func(from, to string) PackageLink {
		return PackageLink{
			From: PackageId(from), To: PackageId(to),
			DepName: to, ResolvedName: to,
			Normal: DependencyReq{Status: AlwaysRequired()},
		}
	}
	in := BuildInput{
		Packages: []PackageMetadata{mk("a"), mk("b"), mk("c"), mk("d")},
		Links:    []PackageLink{link("a", "b"), link("a", "c"), link("b", "d"), link("c", "d")},
		Members: []WorkspaceMember{
			{Path: ".", Id: "a"},
		},
	}
	g, err := Build(in)
	if err != nil {
		panic(err)
	}
	return g
}

// buildCycle builds a workspace with a dev-dependency cycle: a -> b -> a.
func buildCycle() *Graph {
	mk := func(name string) PackageMetadata {
		return PackageMetadata{Id: PackageId(name), Name: name, VersionStr: "1.0.0"}
	}
	in := BuildInput{
		Packages: []PackageMetadata{mk("a"), mk("b")},
		Links: []PackageLink{
			{From: "a", To: "b", DepName: "b", ResolvedName: "b", Normal: DependencyReq{Status: AlwaysRequired()}},
			{From: "b", To: "a", DepName: "a", ResolvedName: "a", Dev: DependencyReq{Status: AlwaysRequired()}},
		},
		Members: []WorkspaceMember{{Path: ".", Id: "a"}, {Path: "b", Id: "b"}},
	}
	g, err := Build(in)
	if err != nil {
		panic(err)
	}
	return g
}
