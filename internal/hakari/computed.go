// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"sort"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// platformKey identifies one bucket of the cross-product simulation: either
// a concrete configured platform triple, or "" for the platform-agnostic
// "any" bucket (simulated when no platforms are configured, or when
// UnifyAll is set).
type platformKey string

const anyPlatform platformKey = ""

// computedKey identifies one cell of the ComputedMap: a platform bucket, a
// build half, and a third-party package.
type computedKey struct {
	Platform platformKey
	Kind     cargo.BuildKind
	Package  pkggraph.PackageId
}

// witness records one (workspace member, feature level, dev toggle) build
// that activated a particular feature set for a third-party package, kept
// so verify-mode's explanation can point at a concrete cause.
type witness struct {
	Member          pkggraph.PackageId
	StandardFeature string
	IncludeDev      bool
}

// computedEntry accumulates every feature set a package was built with
// inside one computedKey bucket: the union of every activated feature
// (what OutputMap needs), plus the witnesses behind each distinct set seen
// (what verify-mode's explanation needs).
type computedEntry struct {
	union         map[string]struct{}
	witnessesBySet map[string][]witness
}

// ComputedMap is the raw accumulation step of the Hakari main loop: for
// every (platform, build half, third-party package), every distinct
// feature set it was built with across the whole member × feature-level ×
// dev-toggle × platform cross product, plus why.
type ComputedMap struct {
	fg      *featuregraph.Graph
	entries map[computedKey]*computedEntry
}

func newComputedMap(fg *featuregraph.Graph) *ComputedMap {
	return &ComputedMap{fg: fg, entries: make(map[computedKey]*computedEntry)}
}

func (c *ComputedMap) record(key computedKey, features []string, w witness) {
	e, ok := c.entries[key]
	if !ok {
		e = &computedEntry{union: make(map[string]struct{}), witnessesBySet: make(map[string][]witness)}
		c.entries[key] = e
	}
	for _, f := range features {
		e.union[f] = struct{}{}
	}
	csv := featureCSV(features)
	e.witnessesBySet[csv] = append(e.witnessesBySet[csv], w)
}

// unionFeatures returns the sorted union of every feature activated for key
// across the whole cross product.
func (c *ComputedMap) unionFeatures(key computedKey) []string {
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(e.union))
	for f := range e.union {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DistinctFeatureSets returns how many distinct feature sets a package was
// built with in this bucket. 2+ is the condition Hakari exists to collapse:
// the same third-party package built more than one way.
func (c *ComputedMap) DistinctFeatureSets(platform, kind string, pkg pkggraph.PackageId) int {
	for key, e := range c.entries {
		if string(key.Platform) == platform && key.Kind.String() == kind && key.Package == pkg {
			return len(e.witnessesBySet)
		}
	}
	return 0
}

// Witnesses returns the witnesses behind a (platform, kind, package,
// feature-set) cell, for verify-mode's explanation output.
func (c *ComputedMap) Witnesses(platform string, kind cargo.BuildKind, pkg pkggraph.PackageId, features []string) []witness {
	e, ok := c.entries[computedKey{Platform: platformKey(platform), Kind: kind, Package: pkg}]
	if !ok {
		return nil
	}
	return e.witnessesBySet[featureCSV(features)]
}

func featureCSV(features []string) string {
	sorted := append([]string(nil), features...)
	sort.Strings(sorted)
	out := ""
	for i, f := range sorted {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}

// featuresOfPackage returns the sorted Named feature labels of pkg that are
// active in set, excluding the Base node itself.
func featuresOfPackage(fg *featuregraph.Graph, set *featuregraph.FeatureSet, pkg pkggraph.PackageId) []string {
	var out []string
	for _, id := range set.Ids() {
		if id.Package != pkg {
			continue
		}
		if id.Label.Kind == featuregraph.Named {
			out = append(out, id.Label.Name)
		}
	}
	sort.Strings(out)
	return out
}
