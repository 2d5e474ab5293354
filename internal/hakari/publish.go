// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

const errUnknownPublishPackageFmt = "package %q not found in the workspace"

// PublishReadiness reports what a `hakari publish <crate>` run would need
// to do before handing off to `cargo publish`. Unlike the original
// cargo-hakari, this never shells out to cargo or touches the network: it
// only reports the manifest edit that would be required, leaving the
// actual publish (and any registry credentials it needs) to the caller.
type PublishReadiness struct {
	Package pkggraph.PackageId

	// Publishable is false if the package itself is marked `publish =
	// false`.
	Publishable bool

	// DependsOnHakariPackage is true if the package currently depends on
	// the workspace-hack crate, which must be removed from its manifest
	// before publishing (a workspace-hack dependency can never be
	// satisfied outside the workspace that defines it).
	DependsOnHakariPackage bool
}

// CheckPublishReadiness inspects a single workspace member against the
// configured hakari package, grounded on the RAII add/remove-dependency
// dance tools/cargo-hakari/src/publish.rs performs around the network
// `cargo publish` call, minus the network call itself.
func CheckPublishReadiness(pg *pkggraph.Graph, member, hakariPackage pkggraph.PackageId) (*PublishReadiness, error) {
	pkg, ok := pg.PackageByID(member)
	if !ok {
		return nil, errors.Errorf(errUnknownPublishPackageFmt, member)
	}

	links, err := pg.DirectLinksFrom(member)
	if err != nil {
		return nil, err
	}
	depends := false
	for _, l := range links {
		if l.To == hakariPackage {
			depends = true
			break
		}
	}

	return &PublishReadiness{
		Package:                member,
		Publishable:            !pkg.PublishNever(),
		DependsOnHakariPackage: depends,
	}, nil
}
