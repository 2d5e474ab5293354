// Copyright 2025 Upbound Inc.
// All rights reserved

package cargo

import (
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"github.com/upbound/cargo-hakari/internal/platform"
)

type workItem struct {
	id   featuregraph.FeatureId
	kind BuildKind
}

// Resolve simulates building roots with the given options, returning the
// resulting CargoSet.
func Resolve(pg *pkggraph.Graph, fg *featuregraph.Graph, roots *pkggraph.PackageSet, opts CargoOptions) (*CargoSet, error) {
	result := &CargoSet{
		pkgGraph:      pg,
		featGraph:     fg,
		targetPackages: pkggraph.NewPackageSet(pg),
		hostPackages:   pkggraph.NewPackageSet(pg),
		targetFeatures: featuregraph.NewFeatureSet(fg),
		hostFeatures:   featuregraph.NewFeatureSet(fg),
	}

	includeDev := opts.IncludeDev && opts.Version != V1Install

	visited := make(map[workItem]bool)
	var queue []workItem

	push := func(id featuregraph.FeatureId, kind BuildKind) {
		item := workItem{id: id, kind: kind}
		if visited[item] {
			return
		}
		visited[item] = true
		queue = append(queue, item)

		switch kind {
		case TargetBuild:
			result.targetFeatures.Mark(id)
			_ = result.targetPackages.AddID(id.Package)
		case HostBuild:
			result.hostFeatures.Mark(id)
			_ = result.hostPackages.AddID(id.Package)
		}
		result.mark(id.Package, kind)
	}

	for _, pkg := range roots.Packages() {
		push(featuregraph.FeatureId{Package: pkg.Id, Label: featuregraph.BaseLabel()}, TargetBuild)
		for _, id := range seedFilter(pkg, opts.Filter) {
			push(id, TargetBuild)
		}
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		toIds, edges, err := fg.Outgoing(item.id)
		if err != nil {
			return nil, err
		}

		isRoot := roots.Contains(item.id.Package)

		for i, edge := range edges {
			toID := toIds[i]

			switch edge.Kind {
			case featuregraph.FeatureToBase, featuregraph.FeatureDependency:
				push(toID, item.kind)
				continue
			}

			// Conditional: redirect or gate by per-kind platform status,
			// according to the resolver version and which half of the
			// build we're currently expanding.
			switch opts.Version {
			case V1, V1Install:
				tryConditional(push, toID, edge.Normal, TargetBuild, opts.TargetPlatform)
				tryConditional(push, toID, edge.Build, TargetBuild, opts.TargetPlatform)
				if includeDev && isRoot {
					tryConditional(push, toID, edge.Dev, TargetBuild, opts.TargetPlatform)
				}
			default: // V2
				switch item.kind {
				case TargetBuild:
					// A proc-macro runs inside the compiler, so it is built
					// for the host even as a normal or dev dependency.
					depKind, depPlat := TargetBuild, opts.TargetPlatform
					if to, ok := pg.PackageByID(toID.Package); ok && to.IsProcMacro {
						depKind, depPlat = HostBuild, opts.HostPlatform
					}
					tryConditional(push, toID, edge.Normal, depKind, depPlat)
					tryConditional(push, toID, edge.Build, HostBuild, opts.HostPlatform)
					if includeDev && isRoot {
						tryConditional(push, toID, edge.Dev, depKind, depPlat)
					}
				case HostBuild:
					tryConditional(push, toID, edge.Normal, HostBuild, opts.HostPlatform)
					tryConditional(push, toID, edge.Build, HostBuild, opts.HostPlatform)
				}
			}
		}
	}

	return result, nil
}

func tryConditional(
	push func(featuregraph.FeatureId, BuildKind),
	toID featuregraph.FeatureId,
	req pkggraph.DependencyReq,
	destKind BuildKind,
	destPlatform platform.Platform,
) {
	if !req.Applies() {
		return
	}
	// The edge's source node already encodes whether the corresponding
	// optional-dependency feature is active (we only reach here because it
	// was pushed), so activation itself is never in question: only the
	// platform-gating remains to be checked.
	switch req.Status.EnabledOn(destPlatform, true) {
	case platform.False:
		return
	default: // True or Unknown; Unknown is included conservatively.
		push(toID, destKind)
	}
}

func seedFilter(pkg *pkggraph.PackageMetadata, filter featuregraph.FeatureFilter) []featuregraph.FeatureId {
	var out []featuregraph.FeatureId
	switch filter.Kind {
	case featuregraph.FilterDefault:
		if pkg.HasFeature("default") {
			out = append(out, featuregraph.FeatureId{Package: pkg.Id, Label: featuregraph.NamedLabel("default")})
		}
	case featuregraph.FilterAll:
		for name := range pkg.Features {
			out = append(out, featuregraph.FeatureId{Package: pkg.Id, Label: featuregraph.NamedLabel(name)})
		}
		for name := range pkg.OptionalDeps {
			out = append(out, featuregraph.FeatureId{Package: pkg.Id, Label: featuregraph.OptionalDepLabel(name)})
		}
	case featuregraph.FilterNamed:
		for _, name := range filter.Names {
			if pkg.HasFeature(name) {
				out = append(out, featuregraph.FeatureId{Package: pkg.Id, Label: featuregraph.NamedLabel(name)})
			}
		}
	case featuregraph.FilterIds:
		for _, id := range filter.Ids {
			if id.Package == pkg.Id {
				out = append(out, id)
			}
		}
	}
	return out
}
