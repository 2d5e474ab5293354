// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// VerifyResult is the outcome of a verify-mode run: OK reports whether the
// workspace-hack package's declared dependencies already cover every
// unification the engine would otherwise need to add. A non-empty Failures
// list names what's missing.
type VerifyResult struct {
	OK       bool
	Failures []*OutputEntry
}

// Verify runs Generate in verify mode and reports whether the resulting
// OutputMap is empty — the success criterion spec.md §4.5 defines: an
// empty OutputMap means the hakari package, as currently checked in,
// already unions everything the workspace needs, so nothing would change
// if `generate` ran again.
func Verify(pg *pkggraph.Graph, fg *featuregraph.Graph, hakariPackage pkggraph.PackageId, opts ...Option) (*VerifyResult, error) {
	opts = append(opts, WithHakariPackage(hakariPackage), WithVerifyMode(true))
	out, _, err := Generate(pg, fg, opts...)
	if err != nil {
		return nil, err
	}
	entries := out.Entries()
	return &VerifyResult{OK: len(entries) == 0, Failures: entries}, nil
}
