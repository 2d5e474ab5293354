// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"sort"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// OutputEntry is a single emitted dependency: one third-party package, in
// one platform bucket, for one build half, unioned across every member,
// feature level, and dev-toggle that reached it.
type OutputEntry struct {
	Package  pkggraph.PackageId
	Name     string
	Rename   string // non-empty only when Name collides across packages.
	Version  string
	Source   pkggraph.PackageSource
	Kind     cargo.BuildKind
	Platform string // "" means the platform-agnostic "any" bucket.

	Features []string // sorted, excludes "default".
	// SuppressDefault is true when the package declares a "default"
	// feature that no witness activated (it is not in the union), so the emitted
	// entry must set `default-features = false` to avoid pulling it in.
	SuppressDefault bool
}

// OutputMap is the final, unioned dependency set a workspace-hack crate's
// Cargo.toml should declare. Entries are exposed in spec.md §6's total
// order: platform (configured order, "any" last), build half, package id.
type OutputMap struct {
	platformOrder []string
	entries       map[outputKey]*OutputEntry
}

type outputKey struct {
	Platform platformKey
	Kind     cargo.BuildKind
	Package  pkggraph.PackageId
}

func newOutputMap(platformOrder []string) *OutputMap {
	return &OutputMap{platformOrder: platformOrder, entries: make(map[outputKey]*OutputEntry)}
}

// Entries returns every entry in the map's canonical total order.
func (m *OutputMap) Entries() []*OutputEntry {
	out := make([]*OutputEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	order := make(map[string]int, len(m.platformOrder)+1)
	for i, p := range m.platformOrder {
		order[p] = i
	}
	order[""] = len(m.platformOrder) // "any" sorts last.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order[a.Platform] != order[b.Platform] {
			return order[a.Platform] < order[b.Platform]
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Package < b.Package
	})
	return out
}

// Len returns the number of entries, the quantity verify mode treats as the
// pass/fail signal (empty OutputMap == nothing to unify == verification
// succeeds).
func (m *OutputMap) Len() int { return len(m.entries) }

func (m *OutputMap) equal(o *OutputMap) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for k, e := range m.entries {
		oe, ok := o.entries[k]
		if !ok || !sameFeatures(e.Features, oe.Features) || e.SuppressDefault != oe.SuppressDefault {
			return false
		}
	}
	return true
}

func sameFeatures(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
