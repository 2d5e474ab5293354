// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/config"
	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/hakari/explain"
)

const errNoHakariPackageConfiguredVerify = "no hakari-package configured in .config/hakari.toml; nothing to verify"

type verifyCmd struct{}

// Run checks whether the workspace-hack crate's current dependency set
// already covers every unification Generate would otherwise add. A
// non-empty diff is reported as a diffError (exit code 1), per spec.md §6.
func (c *verifyCmd) Run(hctx *hakariContext) error {
	if !hctx.hasHakariPkg {
		return errors.New(errNoHakariPackageConfiguredVerify)
	}

	opts, err := config.ToOptions(hctx.cfg, hctx.pkgGraph)
	if err != nil {
		return err
	}

	result, err := hakari.Verify(hctx.pkgGraph, hctx.featGraph, hctx.hakariPkg, opts...)
	if err != nil {
		return err
	}
	if result.OK {
		fmt.Println("hakari: workspace-hack is up to date")
		return nil
	}

	_, cm, err := hakari.Generate(hctx.pkgGraph, hctx.featGraph, opts...)
	if err != nil {
		return err
	}
	for _, entry := range result.Failures {
		fmt.Print(explain.Render(explain.Build(cm, entry)))
	}

	return &diffError{msg: fmt.Sprintf("hakari: workspace-hack is missing %d unified dependenc(ies); run 'hakari generate'", len(result.Failures))}
}
