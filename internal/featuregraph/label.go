// Copyright 2025 Upbound Inc.
// All rights reserved

// Package featuregraph implements the feature graph (C3): an overlay on the
// package graph whose nodes are (package, feature-label) pairs and whose
// edges model "feature A enables feature B / dependency / dependency
// feature", carrying the same per-kind platform conditions as package
// edges.
package featuregraph

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// FeatureKind tags the three forms a FeatureLabel can take.
type FeatureKind int

const (
	// Base is the crate with no features activated.
	Base FeatureKind = iota
	// Named is a declared feature.
	Named
	// OptionalDependency is the implicit feature corresponding to an
	// optional dependency.
	OptionalDependency
)

// FeatureLabel tags a node in the feature graph. Every package has exactly
// one Base node; Named and OptionalDependency carry the feature/dependency
// name.
type FeatureLabel struct {
	Kind FeatureKind
	Name string
}

// BaseLabel is the singleton Base label.
func BaseLabel() FeatureLabel { return FeatureLabel{Kind: Base} }

// NamedLabel builds a Named feature label.
func NamedLabel(name string) FeatureLabel { return FeatureLabel{Kind: Named, Name: name} }

// OptionalDepLabel builds an OptionalDependency feature label.
func OptionalDepLabel(name string) FeatureLabel {
	return FeatureLabel{Kind: OptionalDependency, Name: name}
}

// String renders the label the way guppy's feature-id display does:
// "<base>", "<name>", or "<name>?" respectively left empty/plain/suffixed.
func (l FeatureLabel) String() string {
	switch l.Kind {
	case Named:
		return l.Name
	case OptionalDependency:
		return l.Name + "?"
	default:
		return ""
	}
}

// FeatureId identifies a node in the feature graph: a package plus a label.
type FeatureId struct {
	Package pkggraph.PackageId
	Label   FeatureLabel
}
