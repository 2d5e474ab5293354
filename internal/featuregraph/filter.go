// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// FilterKind tags the FeatureFilter variants.
type FilterKind int

const (
	// FilterNone activates no feature beyond a package's Base node.
	FilterNone FilterKind = iota
	// FilterDefault activates the "default" feature, if declared.
	FilterDefault
	// FilterAll activates every feature and optional-dependency the
	// package declares.
	FilterAll
	// FilterNamed activates a fixed list of feature names, on every
	// package that declares them.
	FilterNamed
	// FilterIds activates an explicit list of feature ids.
	FilterIds
)

// FeatureFilter selects which features of each package in a PackageSet are
// considered activated when materializing a FeatureSet.
type FeatureFilter struct {
	Kind  FilterKind
	Names []string
	Ids   []FeatureId
}

// NoFeatures activates nothing beyond Base.
func NoFeatures() FeatureFilter { return FeatureFilter{Kind: FilterNone} }

// DefaultFeatures activates each package's "default" feature.
func DefaultFeatures() FeatureFilter { return FeatureFilter{Kind: FilterDefault} }

// AllFeatures activates every feature and optional dependency.
func AllFeatures() FeatureFilter { return FeatureFilter{Kind: FilterAll} }

// NamedFeatures activates the given feature names wherever declared.
func NamedFeatures(names ...string) FeatureFilter {
	return FeatureFilter{Kind: FilterNamed, Names: names}
}

// ExplicitFeatureIds activates exactly the given feature ids.
func ExplicitFeatureIds(ids ...FeatureId) FeatureFilter {
	return FeatureFilter{Kind: FilterIds, Ids: ids}
}

// FeatureSetFor materializes the FeatureSet a filter implies over pkgs:
// the filter selects initial activation points on each member package,
// then the forward closure over feature-dependency edges is taken so that
// a feature activating another feature (same-package or cross-package)
// is reflected in the result.
func FeatureSetFor(g *Graph, pkgs *pkggraph.PackageSet, filter FeatureFilter) (*FeatureSet, error) {
	var initials []FeatureId

	for _, pkg := range pkgs.Packages() {
		initials = append(initials, FeatureId{Package: pkg.Id, Label: BaseLabel()})

		switch filter.Kind {
		case FilterNone:
			// Base only.
		case FilterDefault:
			if pkg.HasFeature("default") {
				initials = append(initials, FeatureId{Package: pkg.Id, Label: NamedLabel("default")})
			}
		case FilterAll:
			for name := range pkg.Features {
				initials = append(initials, FeatureId{Package: pkg.Id, Label: NamedLabel(name)})
			}
			for name := range pkg.OptionalDeps {
				initials = append(initials, FeatureId{Package: pkg.Id, Label: OptionalDepLabel(name)})
			}
		case FilterNamed:
			for _, name := range filter.Names {
				if pkg.HasFeature(name) {
					initials = append(initials, FeatureId{Package: pkg.Id, Label: NamedLabel(name)})
				}
			}
		}
	}

	if filter.Kind == FilterIds {
		for _, id := range filter.Ids {
			if pkgs.Contains(id.Package) {
				initials = append(initials, id)
			}
		}
	}

	q := QueryForward(g, initials...)
	return q.Resolve()
}
