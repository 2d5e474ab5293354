// Copyright 2025 Upbound Inc.
// All rights reserved

package cargo

import (
	"testing"

	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"github.com/upbound/cargo-hakari/internal/platform"
	"gotest.tools/v3/assert"
)

func roots(pg *pkggraph.Graph, ids ...pkggraph.PackageId) *pkggraph.PackageSet {
	s := pkggraph.NewPackageSet(pg)
	for _, id := range ids {
		if err := s.AddID(id); err != nil {
			panic(err)
		}
	}
	return s
}

func TestV2SplitsHostFromTarget(t *testing.T) {
	pg, fg := buildAppCodegen()
	opts := CargoOptions{
		Version:        V2,
		TargetPlatform: platform.New("x86_64-unknown-linux-gnu"),
		HostPlatform:   platform.New("x86_64-unknown-linux-gnu"),
		Filter:         featuregraph.DefaultFeatures(),
	}

	set, err := Resolve(pg, fg, roots(pg, "app"), opts)
	assert.NilError(t, err)

	assert.Assert(t, set.TargetPackages().Contains("lib"), "normal dependency must land in the target build")
	assert.Assert(t, !set.TargetPackages().Contains("codegen"), "build-dependency must not land in the target build under V2")
	assert.Assert(t, set.HostPackages().Contains("codegen"), "build-dependency must land in the host build under V2")
	assert.Assert(t, !set.HostPackages().Contains("lib"), "normal dependency must not land in the host build under V2")
}

func TestV1UnifiesBuildDepsIntoTarget(t *testing.T) {
	pg, fg := buildAppCodegen()
	opts := CargoOptions{
		Version:        V1,
		TargetPlatform: platform.New("x86_64-unknown-linux-gnu"),
		HostPlatform:   platform.New("x86_64-unknown-linux-gnu"),
		Filter:         featuregraph.DefaultFeatures(),
	}

	set, err := Resolve(pg, fg, roots(pg, "app"), opts)
	assert.NilError(t, err)

	assert.Assert(t, set.TargetPackages().Contains("lib"))
	assert.Assert(t, set.TargetPackages().Contains("codegen"),
		"V1's global unification quirk must still pull build-dependencies into the single build")
	assert.Equal(t, set.HostPackages().Len(), 0, "V1 has no host/target split at all")
}

func TestUnreachedPackageReturnsCargoSetError(t *testing.T) {
	pg, fg := buildAppCodegen()
	opts := CargoOptions{
		Version:        V2,
		TargetPlatform: platform.New("x86_64-unknown-linux-gnu"),
		HostPlatform:   platform.New("x86_64-unknown-linux-gnu"),
		Filter:         featuregraph.NoFeatures(),
	}
	set, err := Resolve(pg, fg, roots(pg, "lib"), opts)
	assert.NilError(t, err)

	_, err = set.BuildKindsFor("codegen")
	assert.Assert(t, err != nil)
	var cse *CargoSetError
	assert.Assert(t, errorsAs(err, &cse))
}

func errorsAs(err error, target **CargoSetError) bool {
	cse, ok := err.(*CargoSetError)
	if !ok {
		return false
	}
	*target = cse
	return true
}
