// Copyright 2025 Upbound Inc.
// All rights reserved

package cargo

import (
	"sort"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

const errReverseQueryOnOmittedPackageFmt = "package %q was never reached by this build simulation"

// CargoSetError is returned when a query against a CargoSet references a
// package the simulation never reached, e.g. asking why an unrelated crate
// was included.
type CargoSetError struct {
	PackageId pkggraph.PackageId
}

func (e *CargoSetError) Error() string {
	return errors.Errorf(errReverseQueryOnOmittedPackageFmt, e.PackageId).Error()
}

// CargoSet is the result of simulating a single build: which packages land
// in the target build, which land in the host build (proc-macros and
// build-script dependencies), and which features are active in each half.
type CargoSet struct {
	pkgGraph *pkggraph.Graph
	featGraph *featuregraph.Graph

	targetPackages *pkggraph.PackageSet
	hostPackages   *pkggraph.PackageSet

	targetFeatures *featuregraph.FeatureSet
	hostFeatures   *featuregraph.FeatureSet

	// buildKind records, per package id, which half(ves) of the build it
	// was reached in. A package reached by both (e.g. a normal dependency
	// that's also a build-dependency of something else) appears in both
	// targetPackages and hostPackages.
	buildKind map[pkggraph.PackageId]map[BuildKind]bool
}

// TargetPackages returns the packages built for the target platform.
func (s *CargoSet) TargetPackages() *pkggraph.PackageSet { return s.targetPackages }

// HostPackages returns the packages built for the host platform (always
// empty under V1/V1Install, where there is no split).
func (s *CargoSet) HostPackages() *pkggraph.PackageSet { return s.hostPackages }

// TargetFeatures returns the activated feature set for the target build.
func (s *CargoSet) TargetFeatures() *featuregraph.FeatureSet { return s.targetFeatures }

// HostFeatures returns the activated feature set for the host build.
func (s *CargoSet) HostFeatures() *featuregraph.FeatureSet { return s.hostFeatures }

// BuildKindsFor reports which build(s) a package was reached in. Returns a
// CargoSetError if the simulation never reached the package at all.
func (s *CargoSet) BuildKindsFor(id pkggraph.PackageId) ([]BuildKind, error) {
	kinds, ok := s.buildKind[id]
	if !ok {
		return nil, &CargoSetError{PackageId: id}
	}
	out := make([]BuildKind, 0, 2)
	if kinds[TargetBuild] {
		out = append(out, TargetBuild)
	}
	if kinds[HostBuild] {
		out = append(out, HostBuild)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *CargoSet) mark(id pkggraph.PackageId, kind BuildKind) {
	if s.buildKind == nil {
		s.buildKind = make(map[pkggraph.PackageId]map[BuildKind]bool)
	}
	if s.buildKind[id] == nil {
		s.buildKind[id] = make(map[BuildKind]bool)
	}
	s.buildKind[id][kind] = true
}
