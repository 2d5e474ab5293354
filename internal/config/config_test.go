// Copyright 2025 Upbound Inc.
// All rights reserved

package config

import (
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"

	"github.com/upbound/cargo-hakari/internal/hakari"
)

const fixtureToml = `
hakari-package = "workspace-hack"
resolver = "2"
platforms = ["x86_64-unknown-linux-gnu", "x86_64-pc-windows-msvc"]
unify-target-host = "replicate-target-on-host"
unify-all = true
output-single-feature = true
dep-format-version = "2"

[registries]
my-registry = "https://my-registry.example/index"

[traversal-excludes]
workspace-members = ["excluded-crate"]
third-party = [
	{ name = "mutually-exclusive", version = "^1" },
]
`

func TestLoadDecodesConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, afero.WriteFile(fs, DefaultPath, []byte(fixtureToml), 0o644))

	cfg, err := Load(fs, DefaultPath)
	assert.NilError(t, err)
	assert.Equal(t, cfg.HakariPackage, "workspace-hack")
	assert.Equal(t, len(cfg.Platforms), 2)
	assert.Equal(t, cfg.UnifyTargetHost, "replicate-target-on-host")
	assert.Assert(t, cfg.UnifyAll)
	assert.Equal(t, cfg.Registries["my-registry"], "https://my-registry.example/index")
	assert.Equal(t, len(cfg.TraversalExcludes.WorkspaceMembers), 1)
	assert.Equal(t, cfg.TraversalExcludes.ThirdParty[0].Name, "mutually-exclusive")
}

func TestLoadFallsBackToLegacyPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, afero.WriteFile(fs, LegacyPath, []byte(`hakari-package = "legacy-hack"`), 0o644))

	cfg, err := Load(fs, DefaultPath)
	assert.NilError(t, err)
	assert.Equal(t, cfg.HakariPackage, "legacy-hack")
}

func TestLoadMissingFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/no/such/path.toml")
	assert.ErrorContains(t, err, "reading hakari config")
}

func TestUnifyTargetHostFromMapsKnownValues(t *testing.T) {
	assert.Equal(t, unifyTargetHostFrom("none"), hakari.UnifyNone)
	assert.Equal(t, unifyTargetHostFrom("unify-on-both"), hakari.UnifyIfBoth)
	assert.Equal(t, unifyTargetHostFrom("replicate-target-on-host"), hakari.ReplicateTargetOnHost)
	assert.Equal(t, unifyTargetHostFrom(""), hakari.UnifyAuto)
}

func TestDepFormatVersionFromMapsKnownValues(t *testing.T) {
	assert.Equal(t, depFormatVersionFrom("1"), hakari.DepFormatV1)
	assert.Equal(t, depFormatVersionFrom("2"), hakari.DepFormatV2)
	assert.Equal(t, depFormatVersionFrom(""), hakari.DepFormatV2)
}
