// Copyright 2025 Upbound Inc.
// All rights reserved

package version

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestUserAgentContainsProductAndVersion(t *testing.T) {
	ua := UserAgent()
	assert.Assert(t, strings.HasPrefix(ua, "cargo-hakari/"), "reason: User-Agent must lead with the product name")
	assert.Assert(t, strings.Contains(ua, Version()), "reason: User-Agent must carry the current build version")
}

func TestGitCommitDefaultsWhenUnstamped(t *testing.T) {
	assert.Equal(t, GitCommit(), "unknown-commit")
}
