// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import (
	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const (
	errUnknownPackageIdFmt  = "unknown package id: %s"
	errMismatchedGraphs     = "set operation across package sets from different graphs"
	errUnresolvedEdgeFmt    = "dependency edge references unknown package: %s -> %s"
	errWorkspaceMemberIdFmt = "workspace member path %q references unknown package id: %s"
)

// UnknownPackageId reports that a PackageId wasn't found in the graph.
func UnknownPackageId(id PackageId) error {
	return errors.Errorf(errUnknownPackageIdFmt, id)
}

// errMismatchedGraphsPanic is raised via panic, not returned: set operations
// across mismatched graphs are a caller precondition violation, not a
// recoverable error, per spec.md §4.2's failure semantics.
func errMismatchedGraphsPanic() {
	panic(errors.New(errMismatchedGraphs))
}
