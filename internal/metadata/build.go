// Copyright 2025 Upbound Inc.
// All rights reserved

package metadata

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/pkggraph"
	"github.com/upbound/cargo-hakari/internal/platform"
)

// Build converts a decoded cargo-metadata Document into a
// pkggraph.BuildInput, honoring [patch]/[replace] rewrites (observed
// through the resolve graph, which already names the replacement package)
// and classifying each package's source (workspace member, local path,
// registry, or git).
func Build(doc *Document) (pkggraph.BuildInput, error) {
	if doc.Resolve == nil {
		return pkggraph.BuildInput{}, errors.New(errMissingResolve)
	}

	memberIds := make(map[string]bool, len(doc.WorkspaceMembers))
	for _, id := range doc.WorkspaceMembers {
		memberIds[id] = true
	}

	byId := make(map[string]RawPackage, len(doc.Packages))
	for _, p := range doc.Packages {
		byId[p.Id] = p
	}

	in := pkggraph.BuildInput{WorkspaceRoot: doc.WorkspaceRoot}

	for _, p := range doc.Packages {
		pkg, err := convertPackage(p, doc.WorkspaceRoot, memberIds)
		if err != nil {
			return pkggraph.BuildInput{}, err
		}
		in.Packages = append(in.Packages, pkg)
		if memberIds[p.Id] {
			in.Members = append(in.Members, pkggraph.WorkspaceMember{
				Path: memberPath(p.ManifestPath, doc.WorkspaceRoot),
				Id:   pkggraph.PackageId(p.Id),
			})
		}
	}

	for _, node := range doc.Resolve.Nodes {
		from, ok := byId[node.Id]
		if !ok {
			continue
		}
		links, err := convertNodeLinks(from, node)
		if err != nil {
			return pkggraph.BuildInput{}, err
		}
		in.Links = append(in.Links, links...)
	}

	return in, nil
}

func convertPackage(p RawPackage, workspaceRoot string, memberIds map[string]bool) (pkggraph.PackageMetadata, error) {
	ver, err := semver.NewVersion(p.Version)
	if err != nil {
		return pkggraph.PackageMetadata{}, errors.Wrapf(err, errBadVersionFmt, p.Name, p.Version)
	}

	optionalDeps := make(map[string]struct{})
	for _, d := range p.Dependencies {
		if d.Optional {
			optionalDeps[depKey(d)] = struct{}{}
		}
	}

	var targets []pkggraph.BuildTarget
	hasBuildScript, isProcMacro := false, false
	for _, t := range p.Targets {
		for _, kind := range t.Kind {
			targets = append(targets, pkggraph.BuildTarget{Kind: kind, Name: t.Name})
			switch kind {
			case "custom-build":
				hasBuildScript = true
			case "proc-macro":
				isProcMacro = true
			}
		}
	}

	description, license := "", ""
	if p.Description != nil {
		description = *p.Description
	}
	if p.License != nil {
		license = *p.License
	}

	return pkggraph.PackageMetadata{
		Id:             pkggraph.PackageId(p.Id),
		Name:           p.Name,
		VersionStr:     p.Version,
		Version:        ver,
		Authors:        p.Authors,
		Description:    description,
		License:        license,
		ManifestPath:   p.ManifestPath,
		Source:         classifySource(p, workspaceRoot, memberIds),
		BuildTargets:   targets,
		HasBuildScript: hasBuildScript,
		IsProcMacro:    isProcMacro,
		Features:       p.Features,
		OptionalDeps:   optionalDeps,
		Publish:        p.Publish,
	}, nil
}

// depKey returns the name a dependency is referred to by elsewhere in the
// manifest (activation tokens, optional-dependency lookups): the rename if
// present, the crate name otherwise.
func depKey(d RawDependency) string {
	if d.Rename != nil && *d.Rename != "" {
		return *d.Rename
	}
	return d.Name
}

func memberPath(manifestPath, workspaceRoot string) string {
	dir := filepath.Dir(manifestPath)
	rel, err := filepath.Rel(workspaceRoot, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}

func classifySource(p RawPackage, workspaceRoot string, memberIds map[string]bool) pkggraph.PackageSource {
	if memberIds[p.Id] {
		return pkggraph.PackageSource{Kind: pkggraph.SourceWorkspace, Path: memberPath(p.ManifestPath, workspaceRoot)}
	}
	if p.Source == nil {
		return pkggraph.PackageSource{Kind: pkggraph.SourcePath, Path: filepath.Dir(p.ManifestPath)}
	}
	return parseSourceString(*p.Source)
}

func parseSourceString(raw string) pkggraph.PackageSource {
	switch {
	case strings.HasPrefix(raw, "registry+"):
		return pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: strings.TrimPrefix(raw, "registry+")}
	case strings.HasPrefix(raw, "sparse+"):
		return pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: raw}
	case strings.HasPrefix(raw, "git+"):
		return parseGitSource(strings.TrimPrefix(raw, "git+"))
	default:
		return pkggraph.PackageSource{Kind: pkggraph.SourceExternal, Registry: raw}
	}
}

func parseGitSource(raw string) pkggraph.PackageSource {
	u, err := url.Parse(raw)
	if err != nil {
		return pkggraph.PackageSource{Kind: pkggraph.SourceGit, Repository: raw}
	}
	ref := pkggraph.GitRef{Kind: pkggraph.GitRefNone}
	switch {
	case u.Query().Get("branch") != "":
		ref = pkggraph.GitRef{Kind: pkggraph.GitRefBranch, Value: u.Query().Get("branch")}
	case u.Query().Get("tag") != "":
		ref = pkggraph.GitRef{Kind: pkggraph.GitRefTag, Value: u.Query().Get("tag")}
	case u.Query().Get("rev") != "":
		ref = pkggraph.GitRef{Kind: pkggraph.GitRefRev, Value: u.Query().Get("rev")}
	case u.Fragment != "":
		ref = pkggraph.GitRef{Kind: pkggraph.GitRefRev, Value: u.Fragment}
	}
	repo := *u
	repo.RawQuery = ""
	repo.Fragment = ""
	return pkggraph.PackageSource{Kind: pkggraph.SourceGit, Repository: repo.String(), Ref: ref}
}

func convertNodeLinks(from RawPackage, node RawResolveNode) ([]pkggraph.PackageLink, error) {
	manifestByKey := make(map[string][]RawDependency, len(from.Dependencies))
	for _, d := range from.Dependencies {
		k := depKey(d)
		manifestByKey[k] = append(manifestByKey[k], d)
	}

	var out []pkggraph.PackageLink
	for _, dep := range node.Deps {
		entries, ok := manifestByKey[dep.Name]
		if !ok || len(entries) == 0 {
			continue
		}

		link := pkggraph.PackageLink{
			From:         pkggraph.PackageId(from.Id),
			To:           pkggraph.PackageId(dep.Pkg),
			DepName:      dep.Name,
			ResolvedName: entries[0].Name,
			VersionReq:   entries[0].Req,
		}

		var normal, build, dev []RawDependency
		for _, entry := range entries {
			switch kindOf(entry) {
			case pkggraph.Build:
				build = append(build, entry)
			case pkggraph.Development:
				dev = append(dev, entry)
			default:
				normal = append(normal, entry)
			}
		}

		var err error
		if link.Normal, err = buildKindReq(normal); err != nil {
			return nil, err
		}
		if link.Build, err = buildKindReq(build); err != nil {
			return nil, err
		}
		if link.Dev, err = buildKindReq(dev); err != nil {
			return nil, err
		}

		out = append(out, link)
	}
	return out, nil
}

func kindOf(d RawDependency) pkggraph.DependencyKind {
	if d.Kind == nil {
		return pkggraph.Normal
	}
	switch *d.Kind {
	case "dev":
		return pkggraph.Development
	case "build":
		return pkggraph.Build
	default:
		return pkggraph.Normal
	}
}

// buildKindReq aggregates every manifest dependency entry sharing one
// (name, kind) pair — plain and `[target.'cfg(...)'.dependencies]` entries
// for the same dependency both show up here — into a single DependencyReq
// whose Required/Optional sets are the union (an "or") of each entry's own
// cfg condition, the way Cargo itself unions per-target manifest sections.
func buildKindReq(entries []RawDependency) (pkggraph.DependencyReq, error) {
	if len(entries) == 0 {
		return pkggraph.DependencyReq{}, nil
	}

	req := pkggraph.DependencyReq{Features: map[string]pkggraph.PlatformStatus{}}
	unconditional := false
	var requiredExprs, optionalExprs []platform.Expr

	for _, d := range entries {
		expr, err := targetExpr(d.Target)
		if err != nil {
			return pkggraph.DependencyReq{}, err
		}

		if d.Optional {
			optionalExprs = append(optionalExprs, expr)
		} else if expr == nil {
			unconditional = true
		} else {
			requiredExprs = append(requiredExprs, expr)
		}

		featureStatus := pkggraph.AlwaysRequired()
		if expr != nil {
			featureStatus = pkggraph.PlatformStatus{Required: []platform.Expr{expr}}
		}
		for _, f := range d.Features {
			req.Features[f] = featureStatus
		}
		if d.UsesDefaultFeatures {
			req.DefaultFeatures = featureStatus
		}
	}
	if len(req.Features) == 0 {
		req.Features = nil
	}

	switch {
	case unconditional:
		req.Status = pkggraph.AlwaysRequired()
	case len(requiredExprs) > 0:
		req.Status = pkggraph.PlatformStatus{Required: requiredExprs, Optional: optionalExprs}
	case len(optionalExprs) > 0:
		req.Status = pkggraph.PlatformStatus{Optional: optionalExprs}
	default:
		req.Status = pkggraph.Never()
	}
	return req, nil
}

// targetExpr parses a manifest dependency entry's `target` cfg string, nil
// meaning the entry carries no platform restriction at all.
func targetExpr(target *string) (platform.Expr, error) {
	if target == nil || *target == "" {
		return nil, nil
	}
	return platform.Parse(*target)
}
