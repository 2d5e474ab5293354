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

const errNoSuchOutputEntryFmt = "%q was not unified by the current hakari run (either it's not a workspace dependency, or it only has one feature set)"

type explainCmd struct {
	Dep string `arg:"" help:"Name of the third-party crate to explain."`
}

// Run renders every OutputMap entry for the named crate (one per platform/
// build-kind bucket it was unified in).
func (c *explainCmd) Run(hctx *hakariContext) error {
	opts, err := config.ToOptions(hctx.cfg, hctx.pkgGraph)
	if err != nil {
		return err
	}

	out, cm, err := hakari.Generate(hctx.pkgGraph, hctx.featGraph, opts...)
	if err != nil {
		return err
	}

	found := false
	for _, entry := range out.Entries() {
		if entry.Name != c.Dep {
			continue
		}
		found = true
		fmt.Print(explain.Render(explain.Build(cm, entry)))
	}
	if !found {
		return errors.Errorf(errNoSuchOutputEntryFmt, c.Dep)
	}
	return nil
}
