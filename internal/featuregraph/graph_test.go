// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import (
	"testing"

	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"gotest.tools/v3/assert"
)

func TestFeatureToBaseEdges(t *testing.T) {
	g := buildAppServde()
	assert.Equal(t, len(g.Warnings()), 0, "fixture should not produce warnings")

	httpIdx, ok := g.nodeFor("app", NamedLabel("http"))
	assert.Assert(t, ok)
	baseIdx, ok := g.nodeFor("app", BaseLabel())
	assert.Assert(t, ok)

	found := false
	for _, e := range g.outgoing[httpIdx] {
		if g.edgeTo[e] == baseIdx && g.edges[e].Kind == FeatureToBase {
			found = true
		}
	}
	assert.Assert(t, found, "every declared feature must carry a FeatureToBase edge")
}

func TestLocalActivationEdge(t *testing.T) {
	g := buildAppServde()

	q := QueryForward(g, FeatureId{Package: "app", Label: NamedLabel("http")})
	set, err := q.Resolve()
	assert.NilError(t, err)

	assert.Assert(t, set.Contains(FeatureId{Package: "app", Label: OptionalDepLabel("serde")}),
		"http activates the local \"serde\" token, which resolves to the OptionalDependency(serde) node")
}

func TestStrongActivationEnablesOptionalDep(t *testing.T) {
	g := buildAppServde()

	q := QueryForward(g, FeatureId{Package: "app", Label: NamedLabel("json")})
	set, err := q.Resolve()
	assert.NilError(t, err)

	assert.Assert(t, set.Contains(FeatureId{Package: "app", Label: OptionalDepLabel("serde")}),
		"strong activation \"serde/derive\" must also enable the optional dependency itself")
	assert.Assert(t, set.Contains(FeatureId{Package: "serde", Label: NamedLabel("derive")}),
		"strong activation must reach the named feature on the target package")
}

func TestWeakActivationDoesNotEnableOptionalDep(t *testing.T) {
	g := buildAppServde()

	q := QueryForward(g, FeatureId{Package: "app", Label: NamedLabel("weakjson")})
	set, err := q.Resolve()
	assert.NilError(t, err)

	assert.Assert(t, set.Contains(FeatureId{Package: "serde", Label: NamedLabel("derive")}),
		"weak activation still reaches the target feature once the dependency is otherwise enabled")
	assert.Assert(t, !set.Contains(FeatureId{Package: "app", Label: OptionalDepLabel("serde")}),
		"weak activation \"serde?/derive\" must not itself enable the optional dependency")
}

func TestUnknownLocalFeatureWarns(t *testing.T) {
	app := pkggraph.PackageMetadata{
		Id: "app", Name: "app", VersionStr: "0.1.0",
		Features: map[string][]string{"broken": {"nonexistent"}},
	}
	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{app},
		Members:  []pkggraph.WorkspaceMember{{Path: ".", Id: "app"}},
	}
	pg, err := pkggraph.Build(in)
	assert.NilError(t, err)
	g := mustBuild(pg)

	assert.Equal(t, len(g.Warnings()), 1)
	assert.Equal(t, g.Warnings()[0].Feature, "broken")
}

func TestFeatureSetForFilters(t *testing.T) {
	g := buildAppServde()
	pkgs := pkggraph.NewPackageSet(g.PackageGraph())
	assert.NilError(t, pkgs.AddID("app"))

	none, err := FeatureSetFor(g, pkgs, NoFeatures())
	assert.NilError(t, err)
	assert.Equal(t, none.Len(), 1, "NoFeatures activates only Base")

	all, err := FeatureSetFor(g, pkgs, AllFeatures())
	assert.NilError(t, err)
	assert.Assert(t, all.Len() > none.Len(), "AllFeatures must activate strictly more than NoFeatures")

	def, err := FeatureSetFor(g, pkgs, DefaultFeatures())
	assert.NilError(t, err)
	assert.Assert(t, def.Contains(FeatureId{Package: "app", Label: NamedLabel("http")}),
		"default feature activates http, which app's \"default\" depends on")
}
