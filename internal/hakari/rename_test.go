// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRenameAssignedOnNameCollision(t *testing.T) {
	pg, fg := buildRenameCollision()

	out, _, err := Generate(pg, fg, WithOutputSingleFeature(true))
	assert.NilError(t, err)

	seen := map[string]bool{}
	for _, e := range out.Entries() {
		assert.Assert(t, e.Rename != "", "reason: both foo packages share a name and must be renamed")
		assert.Assert(t, !seen[e.Rename], "reason: the two colliding packages must get distinct rename suffixes")
		seen[e.Rename] = true
	}
	assert.Equal(t, len(seen), 2)
}

func TestRenameSuffixIsDeterministic(t *testing.T) {
	a := renameSuffix("1.0.0", "registry+crates.io")
	b := renameSuffix("1.0.0", "registry+crates.io")
	c := renameSuffix("2.0.0", "registry+crates.io")

	assert.Equal(t, a, b)
	assert.Assert(t, a != c)
}
