// Copyright 2025 Upbound Inc.
// All rights reserved

package explain

import (
	"strings"
	"testing"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"gotest.tools/v3/assert"
)

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
			{From: "app1", To: "serde", DepName: "serde", ResolvedName: "serde",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()}},
			{From: "app2", To: "serde", DepName: "serde", ResolvedName: "serde",
				Normal: pkggraph.DependencyReq{
					Status:   pkggraph.AlwaysRequired(),
					Features: map[string]pkggraph.PlatformStatus{"derive": pkggraph.AlwaysRequired()},
				}},
		},
		Members: []pkggraph.WorkspaceMember{{Path: "app1", Id: "app1"}, {Path: "app2", Id: "app2"}},
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

func TestBuildReportFromComputedMap(t *testing.T) {
	pg, fg := buildTwoMembersSharedDep()
	out, cm, err := hakari.Generate(pg, fg)
	assert.NilError(t, err)

	var serdeEntry *hakari.OutputEntry
	for _, e := range out.Entries() {
		if e.Package == "serde" {
			serdeEntry = e
		}
	}
	assert.Assert(t, serdeEntry != nil)

	report := Build(cm, serdeEntry)
	assert.Assert(t, len(report.Rows) > 0)
}

func TestRenderMentionsPackageAndFeatures(t *testing.T) {
	r := &Report{
		Package:  "serde",
		Platform: "",
		Kind:     cargo.TargetBuild.String(),
		Rows: []Row{
			{Features: []string{"derive"}, Callers: []string{"app2 (default features)"}},
		},
	}

	rendered := Render(r)
	assert.Assert(t, strings.Contains(rendered, "serde"))
	assert.Assert(t, strings.Contains(rendered, "derive"))
	assert.Assert(t, strings.Contains(rendered, "app2"))
}

func TestRenderUsesAnyPlatformLabel(t *testing.T) {
	r := &Report{Package: "serde", Platform: "", Kind: "target"}
	assert.Assert(t, strings.Contains(Render(r), "any platform"))
}
