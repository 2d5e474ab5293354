// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const errNoHakariPackageConfiguredManage = "no hakari-package configured in .config/hakari.toml; nothing to manage dependencies against"

type manageDepsCmd struct{}

// Run reports every workspace member that does not yet depend on the
// configured hakari package, the set `cargo hakari manage-deps` would add a
// dependency to. It never edits a member's Cargo.toml outside the managed
// section itself, so it only reports; the edit is left to the caller.
func (c *manageDepsCmd) Run(hctx *hakariContext) error {
	if !hctx.hasHakariPkg {
		return errors.New(errNoHakariPackageConfiguredManage)
	}

	missing := 0
	for _, path := range hctx.pkgGraph.Workspace().MemberPaths() {
		id, ok := hctx.pkgGraph.Workspace().MemberByPath(path)
		if !ok || id == hctx.hakariPkg {
			continue
		}

		links, err := hctx.pkgGraph.DirectLinksFrom(id)
		if err != nil {
			return err
		}
		dependsOnHakari := false
		for _, l := range links {
			if l.To == hctx.hakariPkg {
				dependsOnHakari = true
				break
			}
		}
		if !dependsOnHakari {
			missing++
			fmt.Printf("%s (%s) does not depend on the hakari package\n", id, path)
		}
	}

	if missing == 0 {
		fmt.Println("hakari: every workspace member already depends on the hakari package")
	}
	return nil
}
