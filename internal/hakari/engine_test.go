// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"testing"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"gotest.tools/v3/assert"
)

func TestGenerateUnionsFeatureSetsAcrossMembers(t *testing.T) {
	pg, fg := buildTwoMembersSharedDep()

	out, cm, err := Generate(pg, fg)
	assert.NilError(t, err)

	var serdeEntry *OutputEntry
	for _, e := range out.Entries() {
		if e.Package == "serde" && e.Kind == cargo.TargetBuild {
			serdeEntry = e
		}
	}
	assert.Assert(t, serdeEntry != nil, "reason: serde is a shared third-party dependency and must appear in the output map")
	assert.DeepEqual(t, serdeEntry.Features, []string{"derive"})
	assert.Assert(t, cm.DistinctFeatureSets("", "target", "serde") >= 2,
		"reason: app1 and app2 built serde with different feature sets before unification")
}

func TestGenerateIsDeterministic(t *testing.T) {
	pg, fg := buildTwoMembersSharedDep()

	out1, _, err := Generate(pg, fg)
	assert.NilError(t, err)
	out2, _, err := Generate(pg, fg)
	assert.NilError(t, err)

	assert.Equal(t, len(out1.Entries()), len(out2.Entries()))
}

func TestFinalExcludesDropsPackage(t *testing.T) {
	pg, fg := buildTwoMembersSharedDep()

	out, _, err := Generate(pg, fg, WithFinalExcludes(pkggraph.PackageId("serde")))
	assert.NilError(t, err)

	for _, e := range out.Entries() {
		assert.Assert(t, e.Package != pkggraph.PackageId("serde"), "reason: final_excludes must remove the package from the output regardless of what was computed")
	}
}

func TestHoistCommonToAnyAcrossPlatforms(t *testing.T) {
	pg, fg := buildTwoMembersSharedDep()

	out, _, err := Generate(pg, fg, WithPlatforms("x86_64-unknown-linux-gnu", "x86_64-apple-darwin"))
	assert.NilError(t, err)

	foundAny := false
	for _, e := range out.Entries() {
		if e.Package == "serde" && e.Platform == "" {
			foundAny = true
		}
		assert.Assert(t, !(e.Package == "serde" && e.Platform != ""), "reason: identical entries across every configured platform must be hoisted into the any bucket")
	}
	assert.Assert(t, foundAny, "reason: serde is built identically on both configured platforms")
}
