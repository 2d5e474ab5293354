// Copyright 2025 Upbound Inc.
// All rights reserved

package summaries

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"gotest.tools/v3/assert"
)

func mustID(t *testing.T, name, version string) SummaryId {
	t.Helper()
	v, err := semver.NewVersion(version)
	assert.NilError(t, err)
	return SummaryId{Name: name, Version: v, Source: SummarySource{CratesIo: true}}
}

func TestDiffDetectsAddedRemovedAndChanged(t *testing.T) {
	serde := mustID(t, "serde", "1.0.200")
	log := mustID(t, "log", "0.4.20")
	rand := mustID(t, "rand", "0.8.5")

	old := &Summary{TargetPackages: map[SummaryId]PackageInfo{
		serde: {Status: StatusDirect, Features: []string{"derive"}},
		log:   {Status: StatusTransitive},
	}}
	updated := &Summary{TargetPackages: map[SummaryId]PackageInfo{
		serde: {Status: StatusDirect, Features: []string{"derive", "std"}},
		rand:  {Status: StatusTransitive},
	}}

	d := Diff(old, updated)
	assert.Assert(t, !d.Unchanged())
	assert.Equal(t, len(d.Target), 3)

	byKind := map[PackageDiffKind]int{}
	for _, pd := range d.Target {
		byKind[pd.Kind]++
	}
	assert.Equal(t, byKind[DiffAdded], 1, "rand is new")
	assert.Equal(t, byKind[DiffRemoved], 1, "log dropped out")
	assert.Equal(t, byKind[DiffStatusChanged], 1, "serde gained a feature")
}

func TestDiffUnchangedWhenIdentical(t *testing.T) {
	serde := mustID(t, "serde", "1.0.200")
	s := &Summary{TargetPackages: map[SummaryId]PackageInfo{
		serde: {Status: StatusDirect, Features: []string{"derive"}},
	}}

	d := Diff(s, s)
	assert.Assert(t, d.Unchanged())
}

func TestRenderFormatsEachDiffKind(t *testing.T) {
	serde := mustID(t, "serde", "1.0.200")
	old := &Summary{TargetPackages: map[SummaryId]PackageInfo{
		serde: {Status: StatusDirect},
	}}
	updated := &Summary{TargetPackages: map[SummaryId]PackageInfo{
		serde: {Status: StatusWorkspace},
	}}

	var buf bytes.Buffer
	Render(&buf, Diff(old, updated))
	assert.Assert(t, strings.Contains(buf.String(), "~ [target] serde"), "expected a status-changed line, got: %s", buf.String())
}
