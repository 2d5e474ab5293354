// Copyright 2025 Upbound Inc.
// All rights reserved

package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

const (
	errUnknownHakariPackageFmt     = "hakari-package %q is not a workspace member"
	errUnknownExcludedMemberFmt    = "%s lists workspace member %q, which is not a workspace member of this graph"
	errUnparseableConstraintFmt    = "%s entry %q has an unparseable version constraint %q"
)

// ToOptions resolves a decoded HakariConfig against pg, turning its crate-
// name-keyed exclude lists and string-keyed enum fields into the
// pkggraph.PackageId-keyed hakari.Option values Generate/Verify need.
func ToOptions(cfg *HakariConfig, pg *pkggraph.Graph) ([]hakari.Option, error) {
	opts := []hakari.Option{
		hakari.WithUnifyTargetHost(unifyTargetHostFrom(cfg.UnifyTargetHost)),
		hakari.WithUnifyAll(cfg.UnifyAll),
		hakari.WithOutputSingleFeature(cfg.OutputSingleFeature),
		hakari.WithDepFormatVersion(depFormatVersionFrom(cfg.DepFormatVersion)),
	}

	if len(cfg.Platforms) > 0 {
		opts = append(opts, hakari.WithPlatforms(cfg.Platforms...))
	}
	if len(cfg.Registries) > 0 {
		opts = append(opts, hakari.WithRegistries(cfg.Registries))
	}

	if cfg.HakariPackage != "" {
		id, ok := pg.Workspace().MemberByName(cfg.HakariPackage)
		if !ok {
			return nil, errors.Errorf(errUnknownHakariPackageFmt, cfg.HakariPackage)
		}
		opts = append(opts, hakari.WithHakariPackage(id))
	}

	traversal, err := resolveExcludeSet(pg, "traversal-excludes", cfg.TraversalExcludes)
	if err != nil {
		return nil, err
	}
	if len(traversal) > 0 {
		opts = append(opts, hakari.WithTraversalExcludes(traversal...))
	}

	final, err := resolveExcludeSet(pg, "final-excludes", cfg.FinalExcludes)
	if err != nil {
		return nil, err
	}
	if len(final) > 0 {
		opts = append(opts, hakari.WithFinalExcludes(final...))
	}

	return opts, nil
}

func resolveExcludeSet(pg *pkggraph.Graph, label string, set ExcludeSet) ([]pkggraph.PackageId, error) {
	var out []pkggraph.PackageId

	for _, name := range set.WorkspaceMembers {
		id, ok := pg.Workspace().MemberByName(name)
		if !ok {
			return nil, errors.Errorf(errUnknownExcludedMemberFmt, label, name)
		}
		out = append(out, id)
	}

	for _, entry := range set.ThirdParty {
		ids, err := matchThirdParty(pg, label, entry)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}

	return out, nil
}

// matchThirdParty finds every package matching entry's name, and (if set)
// its version constraint, git repository, or path — the same disambiguation
// `cargo hakari`'s own third-party exclude entries support.
func matchThirdParty(pg *pkggraph.Graph, label string, entry ExcludeEntry) ([]pkggraph.PackageId, error) {
	var constraint *semver.Constraints
	if entry.Version != "" {
		c, err := semver.NewConstraint(entry.Version)
		if err != nil {
			return nil, errors.Errorf(errUnparseableConstraintFmt, label, entry.Name, entry.Version)
		}
		constraint = c
	}

	var out []pkggraph.PackageId
	for _, pkg := range pg.Packages() {
		if pkg.Name != entry.Name {
			continue
		}
		if constraint != nil && (pkg.Version == nil || !constraint.Check(pkg.Version)) {
			continue
		}
		if entry.Git != "" && (pkg.Source.Kind != pkggraph.SourceGit || pkg.Source.Repository != entry.Git) {
			continue
		}
		if entry.Path != "" && (pkg.Source.Kind != pkggraph.SourcePath || pkg.Source.Path != entry.Path) {
			continue
		}
		out = append(out, pkg.Id)
	}
	return out, nil
}
