// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"bytes"
	"os"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/config"
	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/manifest"
	"github.com/upbound/cargo-hakari/internal/tomlout"
)

const errNoHakariPackageConfigured = "no hakari-package configured in .config/hakari.toml; generate has nothing to write into"

type generateCmd struct {
	DryRun bool `help:"Print the generated section instead of writing it." name:"dry-run"`
}

// Run regenerates the workspace-hack crate's managed Cargo.toml section
// from a fresh Generate pass and splices it into the manifest in place.
func (c *generateCmd) Run(hctx *hakariContext) error {
	if !hctx.hasHakariPkg {
		return errors.New(errNoHakariPackageConfigured)
	}

	opts, err := config.ToOptions(hctx.cfg, hctx.pkgGraph)
	if err != nil {
		return err
	}

	out, _, err := hakari.Generate(hctx.pkgGraph, hctx.featGraph, opts...)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tomlout.Render(&buf, out, tomlout.Options{
		HakariPath: hctx.manifestPath,
		Registries: hctx.cfg.Registries,
	}); err != nil {
		return err
	}

	if c.DryRun {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	return manifest.WriteSection(hctx.fs, hctx.manifestPath, buf.String())
}
