// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"github.com/upbound/cargo-hakari/internal/platform"
)

const errNonDeterministicFixpoint = "hakari: recomputing the output map from the same computed map produced a different result"

// defaultSimPlatform is the concrete platform used to drive the simulator
// for the platform-agnostic "any" bucket: Hakari still needs a real
// platform.Platform to run internal/cargo against even though the result is
// filed under "any". As a consequence, a package reference that's conditional on target
// triple but happens to hold on this particular triple is treated as
// unconditionally required for the "any" bucket, matching cargo-hakari's own
// behavior of requiring an explicit platform list to get triple-specific
// sections at all.
var defaultSimPlatform = platform.New("x86_64-unknown-linux-gnu")

type platformBucket struct {
	key  platformKey
	plat platform.Platform
}

// Generate runs the full Hakari main loop (spec.md §4.5): cross-product
// simulation over every workspace member × standard feature level ×
// dev-dependency toggle × configured platform, union-of-feature-sets
// accumulation into a ComputedMap, and a final, deterministic recompute
// into the OutputMap a workspace-hack crate's Cargo.toml should declare.
func Generate(pg *pkggraph.Graph, fg *featuregraph.Graph, opts ...Option) (*OutputMap, *ComputedMap, error) {
	o := newOptions(opts...)

	members, err := workspaceMembers(pg, o)
	if err != nil {
		return nil, nil, err
	}

	buckets := platformBuckets(o)

	cm := newComputedMap(fg)
	for _, member := range members {
		if err := simulateMember(pg, fg, member, o, buckets, cm); err != nil {
			return nil, nil, err
		}
	}

	first := computeOutputMap(pg, o, buckets, cm)
	second := computeOutputMap(pg, o, buckets, cm)
	if !first.equal(second) {
		return nil, nil, errors.New(errNonDeterministicFixpoint)
	}

	applyFinalExcludes(second, o)
	assignRenames(second)

	return second, cm, nil
}

func workspaceMembers(pg *pkggraph.Graph, o *BuilderOptions) ([]pkggraph.PackageId, error) {
	ws := pg.Workspace()
	var out []pkggraph.PackageId
	for _, path := range ws.MemberPaths() {
		id, ok := ws.MemberByPath(path)
		if !ok {
			continue
		}
		if _, excluded := o.TraversalExcludes[id]; excluded {
			continue
		}
		if o.HakariPackage != nil && *o.HakariPackage == id && !o.VerifyMode {
			// Generate mode excludes the hack package itself from
			// traversal: it's the output, not an input.
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func platformBuckets(o *BuilderOptions) []platformBucket {
	if len(o.Platforms) == 0 {
		return []platformBucket{{key: anyPlatform, plat: defaultSimPlatform}}
	}
	out := make([]platformBucket, 0, len(o.Platforms)+1)
	for _, triple := range o.Platforms {
		out = append(out, platformBucket{key: platformKey(triple), plat: platform.New(triple)})
	}
	if o.UnifyAll {
		out = append(out, platformBucket{key: anyPlatform, plat: defaultSimPlatform})
	}
	return out
}

var standardLevels = []struct {
	filter featuregraph.FeatureFilter
	label  string
}{
	{featuregraph.NoFeatures(), "none"},
	{featuregraph.DefaultFeatures(), "default"},
	{featuregraph.AllFeatures(), "all"},
}

func simulateMember(
	pg *pkggraph.Graph,
	fg *featuregraph.Graph,
	member pkggraph.PackageId,
	o *BuilderOptions,
	buckets []platformBucket,
	cm *ComputedMap,
) error {
	levels := standardLevels
	if o.HakariPackage != nil && *o.HakariPackage == member && o.VerifyMode {
		// Verify mode treats the hack package itself as features-only: it
		// only ever needs its declared default features, never "all".
		levels = standardLevels[1:2]
	}

	roots := pkggraph.NewPackageSet(pg)
	if err := roots.AddID(member); err != nil {
		return err
	}

	for _, lvl := range levels {
		for _, includeDev := range []bool{false, true} {
			for _, b := range buckets {
				set, err := cargo.Resolve(pg, fg, roots, cargo.CargoOptions{
					Version:        cargo.V2,
					TargetPlatform: b.plat,
					HostPlatform:   b.plat,
					IncludeDev:     includeDev,
					Filter:         lvl.filter,
				})
				if err != nil {
					return err
				}
				w := witness{Member: member, StandardFeature: lvl.label, IncludeDev: includeDev}
				recordBuildHalf(cm, pg, fg, b.key, cargo.TargetBuild, set.TargetPackages(), set.TargetFeatures(), w)
				recordBuildHalf(cm, pg, fg, b.key, cargo.HostBuild, set.HostPackages(), set.HostFeatures(), w)
			}
		}
	}
	return nil
}

func recordBuildHalf(
	cm *ComputedMap,
	pg *pkggraph.Graph,
	fg *featuregraph.Graph,
	pk platformKey,
	kind cargo.BuildKind,
	pkgs *pkggraph.PackageSet,
	features *featuregraph.FeatureSet,
	w witness,
) {
	for _, pkg := range pkgs.Packages() {
		if !pkg.IsThirdParty() {
			continue
		}
		fs := featuresOfPackage(fg, features, pkg.Id)
		cm.record(computedKey{Platform: pk, Kind: kind, Package: pkg.Id}, fs, w)
	}
}

func computeOutputMap(pg *pkggraph.Graph, o *BuilderOptions, buckets []platformBucket, cm *ComputedMap) *OutputMap {
	platformOrder := make([]string, 0, len(o.Platforms))
	platformOrder = append(platformOrder, o.Platforms...)

	out := newOutputMap(platformOrder)

	for key, entry := range cm.entries {
		pkg, ok := pg.PackageByID(key.Package)
		if !ok {
			continue
		}
		if !o.OutputSingleFeature && len(entry.witnessesBySet) < 2 {
			// Built only one way in this bucket: nothing to unify.
			continue
		}
		features := make([]string, 0, len(entry.union))
		hasDefault := false
		for f := range entry.union {
			if f == "default" {
				hasDefault = true
				continue
			}
			features = append(features, f)
		}
		sortStrings(features)

		out.entries[outputKey{Platform: key.Platform, Kind: key.Kind, Package: key.Package}] = &OutputEntry{
			Package:         key.Package,
			Name:            pkg.Name,
			Version:         pkg.VersionStr,
			Source:          pkg.Source,
			Kind:            key.Kind,
			Platform:        string(key.Platform),
			Features:        features,
			SuppressDefault: pkg.HasFeature("default") && !hasDefault,
		}
	}

	applyUnifyTargetHost(out, o, buckets)
	hoistCommonToAny(out, o)

	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// applyUnifyTargetHost merges a package's HostBuild entry into its
// TargetBuild entry (within the same platform bucket) according to the
// configured UnifyTargetHost mode.
func applyUnifyTargetHost(out *OutputMap, o *BuilderOptions, buckets []platformBucket) {
	if o.UnifyTargetHost == UnifyNone {
		return
	}
	for _, b := range buckets {
		// Auto behaves like UnifyIfBoth; it does not switch to
		// ReplicateTargetOnHost or UnifyNone based on the platforms or
		// the build dependencies.
		mode := o.UnifyTargetHost
		if mode == UnifyAuto {
			mode = UnifyIfBoth
		}

		for pkgID := range collectPackagesInBucket(out, b.key) {
			targetKey := outputKey{Platform: b.key, Kind: cargo.TargetBuild, Package: pkgID}
			hostKey := outputKey{Platform: b.key, Kind: cargo.HostBuild, Package: pkgID}
			target, hasTarget := out.entries[targetKey]
			host, hasHost := out.entries[hostKey]

			switch mode {
			case UnifyIfBoth:
				if hasTarget && hasHost {
					merged := unionEntry(target, host)
					out.entries[targetKey] = merged
					delete(out.entries, hostKey)
				}
			case ReplicateTargetOnHost:
				if hasTarget {
					merged := target
					if hasHost {
						merged = unionEntry(target, host)
					}
					replica := *merged
					replica.Kind = cargo.HostBuild
					out.entries[hostKey] = &replica
				}
			}
		}
	}
}

func collectPackagesInBucket(out *OutputMap, pk platformKey) map[pkggraph.PackageId]struct{} {
	set := make(map[pkggraph.PackageId]struct{})
	for k := range out.entries {
		if k.Platform == pk {
			set[k.Package] = struct{}{}
		}
	}
	return set
}

func unionEntry(a, b *OutputEntry) *OutputEntry {
	seen := make(map[string]struct{}, len(a.Features)+len(b.Features))
	for _, f := range a.Features {
		seen[f] = struct{}{}
	}
	for _, f := range b.Features {
		seen[f] = struct{}{}
	}
	features := make([]string, 0, len(seen))
	for f := range seen {
		features = append(features, f)
	}
	sortStrings(features)
	merged := *a
	merged.Features = features
	merged.SuppressDefault = a.SuppressDefault && b.SuppressDefault
	return &merged
}

// hoistCommonToAny promotes an entry present, with identical features,
// across every configured platform into the platform-agnostic "any"
// bucket, matching cargo-hakari's own per-platform-section minimization.
func hoistCommonToAny(out *OutputMap, o *BuilderOptions) {
	if len(o.Platforms) < 2 {
		return
	}
	byPkgKind := make(map[struct {
		pkggraph.PackageId
		cargo.BuildKind
	}][]*OutputEntry)
	for k, e := range out.entries {
		if k.Platform == anyPlatform {
			continue
		}
		ck := struct {
			pkggraph.PackageId
			cargo.BuildKind
		}{k.Package, k.Kind}
		byPkgKind[ck] = append(byPkgKind[ck], e)
	}

	for ck, entries := range byPkgKind {
		if len(entries) != len(o.Platforms) {
			continue
		}
		first := entries[0]
		common := true
		for _, e := range entries[1:] {
			if !sameFeatures(e.Features, first.Features) || e.SuppressDefault != first.SuppressDefault {
				common = false
				break
			}
		}
		if !common {
			continue
		}
		for _, triple := range o.Platforms {
			delete(out.entries, outputKey{Platform: platformKey(triple), Kind: ck.BuildKind, Package: ck.PackageId})
		}
		promoted := *first
		promoted.Platform = ""
		out.entries[outputKey{Platform: anyPlatform, Kind: ck.BuildKind, Package: ck.PackageId}] = &promoted
	}
}

func applyFinalExcludes(out *OutputMap, o *BuilderOptions) {
	if len(o.FinalExcludes) == 0 {
		return
	}
	for k := range out.entries {
		if _, excluded := o.FinalExcludes[k.Package]; excluded {
			delete(out.entries, k)
		}
	}
}
