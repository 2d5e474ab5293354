// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestCheckPublishReadinessDetectsHakariDependency(t *testing.T) {
	pg, _ := buildTwoMembersSharedDep()

	readiness, err := CheckPublishReadiness(pg, "app2", "serde")
	assert.NilError(t, err)

	assert.Assert(t, readiness.Publishable)
	assert.Assert(t, readiness.DependsOnHakariPackage, "reason: app2 directly depends on the package we asked about")
}

func TestCheckPublishReadinessUnknownPackage(t *testing.T) {
	pg, _ := buildTwoMembersSharedDep()

	_, err := CheckPublishReadiness(pg, "nonexistent", "serde")
	assert.Assert(t, err != nil)
}
