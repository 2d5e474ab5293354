// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/hakari"
)

const errNoHakariPackageConfiguredPublish = "no hakari-package configured in .config/hakari.toml; nothing to check publish readiness against"

type publishCmd struct {
	Package string `help:"Name of the workspace member to check." required:"" short:"p"`
}

// Run checks whether a workspace member is ready to hand off to the real
// `cargo publish`: it must be publishable and must not still depend on the
// hakari package. It never contacts a registry or runs cargo itself.
func (c *publishCmd) Run(hctx *hakariContext) error {
	if !hctx.hasHakariPkg {
		return errors.New(errNoHakariPackageConfiguredPublish)
	}

	id, ok := hctx.pkgGraph.Workspace().MemberByName(c.Package)
	if !ok {
		return errors.Errorf("%q is not a workspace member", c.Package)
	}

	readiness, err := hakari.CheckPublishReadiness(hctx.pkgGraph, id, hctx.hakariPkg)
	if err != nil {
		return err
	}

	if !readiness.Publishable {
		return &diffError{msg: fmt.Sprintf("%s is marked publish = false", c.Package)}
	}
	if readiness.DependsOnHakariPackage {
		return &diffError{msg: fmt.Sprintf("%s still depends on the hakari package; remove it before publishing", c.Package)}
	}

	fmt.Printf("%s is ready to publish\n", c.Package)
	return nil
}
