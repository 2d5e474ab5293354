// Copyright 2025 Upbound Inc.
// All rights reserved

package summaries

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"github.com/upbound/cargo-hakari/internal/platform"
)

// buildAppServeLog wires app -> serde (direct, external, "derive" feature)
// -> log (transitive, external), plus a second workspace member, hack,
// that app does not depend on at all.
func buildAppServeLog(t *testing.T) (*pkggraph.Graph, *featuregraph.Graph) {
	t.Helper()
	ext := func(name, version string) pkggraph.PackageMetadata {
		return pkggraph.PackageMetadata{
			Id: pkggraph.PackageId(name), Name: name, VersionStr: version,
			Source:   pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: "https://github.com/rust-lang/crates.io-index"},
			Features: map[string][]string{"derive": {}, "default": {}},
		}
	}
	in := pkggraph.BuildInput{
		Packages: []pkggraph.PackageMetadata{
			{Id: "app", Name: "app", VersionStr: "0.1.0"},
			{Id: "hack", Name: "workspace-hack", VersionStr: "0.1.0"},
			ext("serde", "1.0.200"),
			ext("log", "0.4.20"),
		},
		Links: []pkggraph.PackageLink{
			{
				From: "app", To: "serde", DepName: "serde", ResolvedName: "serde",
				Normal: pkggraph.DependencyReq{
					Status:   pkggraph.AlwaysRequired(),
					Features: map[string]pkggraph.PlatformStatus{"derive": pkggraph.AlwaysRequired()},
				},
			},
			{
				From: "serde", To: "log", DepName: "log", ResolvedName: "log",
				Normal: pkggraph.DependencyReq{Status: pkggraph.AlwaysRequired()},
			},
		},
		Members: []pkggraph.WorkspaceMember{
			{Path: "app", Id: "app"},
			{Path: "workspace-hack", Id: "hack"},
		},
	}
	pg, err := pkggraph.Build(in)
	assert.NilError(t, err)
	fg, err := featuregraph.Build(pg)
	assert.NilError(t, err)
	return pg, fg
}

func resolveApp(t *testing.T, pg *pkggraph.Graph, fg *featuregraph.Graph) *cargo.CargoSet {
	t.Helper()
	rootSet := pkggraph.NewPackageSet(pg)
	assert.NilError(t, rootSet.AddID("app"))

	set, err := cargo.Resolve(pg, fg, rootSet, cargo.CargoOptions{
		Version:        cargo.V2,
		TargetPlatform: platform.New("x86_64-unknown-linux-gnu"),
		HostPlatform:   platform.New("x86_64-unknown-linux-gnu"),
		Filter:         featuregraph.DefaultFeatures(),
	})
	assert.NilError(t, err)
	return set
}

func TestBuildAssignsStatusByRootMembershipAndDirectness(t *testing.T) {
	pg, fg := buildAppServeLog(t)
	cs := resolveApp(t, pg, fg)

	summary, err := Build(pg, cs, []pkggraph.PackageId{"app"})
	assert.NilError(t, err)

	app := findEntry(t, summary.TargetPackages, "app")
	assert.Equal(t, app.Status, StatusInitial)

	serde := findEntry(t, summary.TargetPackages, "serde")
	assert.Equal(t, serde.Status, StatusDirect)
	assert.DeepEqual(t, serde.Features, []string{"derive"})

	log := findEntry(t, summary.TargetPackages, "log")
	assert.Equal(t, log.Status, StatusTransitive)
}

func TestBuildOmitsWorkspaceMembersNotReached(t *testing.T) {
	pg, fg := buildAppServeLog(t)
	cs := resolveApp(t, pg, fg)

	summary, err := Build(pg, cs, []pkggraph.PackageId{"app"})
	assert.NilError(t, err)

	for id := range summary.TargetPackages {
		assert.Assert(t, id.Name != "workspace-hack", "hack was never a dependency of app and must not appear")
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	pg, fg := buildAppServeLog(t)
	cs := resolveApp(t, pg, fg)

	summary, err := Build(pg, cs, []pkggraph.PackageId{"app"})
	assert.NilError(t, err)

	doc, err := Marshal(summary)
	assert.NilError(t, err)
	assert.Assert(t, len(doc) > 0)

	parsed, err := Parse(doc)
	assert.NilError(t, err)
	assert.Equal(t, len(parsed.TargetPackages), len(summary.TargetPackages))

	serde := findEntry(t, parsed.TargetPackages, "serde")
	assert.Equal(t, serde.Status, StatusDirect)
	assert.DeepEqual(t, serde.Features, []string{"derive"})
}

func TestParseRejectsUnparseableVersion(t *testing.T) {
	_, err := Parse(`
[[target-package]]
name = "serde"
version = "not-a-version"
crates-io = true
status = "direct"
features = []
`)
	assert.ErrorContains(t, err, "unparseable version")
}

func findEntry(t *testing.T, m map[SummaryId]PackageInfo, name string) PackageInfo {
	t.Helper()
	for id, info := range m {
		if id.Name == name {
			return info
		}
	}
	t.Fatalf("no summary entry for package %q", name)
	return PackageInfo{}
}
