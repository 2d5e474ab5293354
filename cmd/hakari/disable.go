// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/manifest"
)

const errNoHakariPackageConfiguredDisable = "no hakari-package configured in .config/hakari.toml; nothing to disable"

type disableCmd struct{}

// Run clears the managed section, the way `cargo hakari disable` does:
// Cargo then sees no unified dependencies and builds each workspace member
// independently again.
func (c *disableCmd) Run(hctx *hakariContext) error {
	if !hctx.hasHakariPkg {
		return errors.New(errNoHakariPackageConfiguredDisable)
	}
	return manifest.WriteSection(hctx.fs, hctx.manifestPath, "")
}
