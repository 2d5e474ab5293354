// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// FeatureEdgeKind tags the three edge forms the feature graph can hold.
type FeatureEdgeKind int

const (
	// FeatureToBase is the edge every feature carries to its own package's
	// Base node.
	FeatureToBase FeatureEdgeKind = iota
	// FeatureDependency is a same-package "feature A activates feature B"
	// edge.
	FeatureDependency
	// Conditional is a cross-package edge derived from a PackageLink,
	// carrying that link's per-kind platform status.
	Conditional
)

// FeatureEdge is an edge in the feature graph.
type FeatureEdge struct {
	Kind FeatureEdgeKind

	// PackageEdge is set (non-negative) only for Conditional edges: the
	// underlying PackageLink this edge was derived from.
	PackageEdge pkggraph.EdgeIndex

	// Normal, Build, Dev carry the per-kind platform status, populated only
	// for Conditional edges (copied from the underlying PackageLink).
	Normal pkggraph.DependencyReq
	Build  pkggraph.DependencyReq
	Dev    pkggraph.DependencyReq
}

// rank orders edge kinds by "strength" for the upgrade rule: a
// FeatureDependency edge is strictly stronger than (and never downgraded by)
// a Conditional edge discovered for the same (from, to) pair.
func (k FeatureEdgeKind) rank() int {
	switch k {
	case FeatureDependency:
		return 2
	case FeatureToBase:
		return 1
	default:
		return 0
	}
}
