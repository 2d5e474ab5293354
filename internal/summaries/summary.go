// Copyright 2025 Upbound Inc.
// All rights reserved

// Package summaries serializes a simulated build's target/host package
// split to a comparable TOML document and diffs two such documents, the way
// guppy-summaries records and compares build results across commits.
package summaries

import (
	"bytes"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/upbound/cargo-hakari/internal/cargo"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// PackageStatus records why a package is present in a summary: it was one
// of the simulation's root packages, another workspace member pulled in
// transitively, a direct third-party dependency of a root, or reached only
// transitively.
type PackageStatus int

const (
	StatusInitial PackageStatus = iota
	StatusWorkspace
	StatusDirect
	StatusTransitive
)

func (s PackageStatus) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusWorkspace:
		return "workspace"
	case StatusDirect:
		return "direct"
	default:
		return "transitive"
	}
}

func statusFromString(s string) PackageStatus {
	switch s {
	case "initial":
		return StatusInitial
	case "workspace":
		return StatusWorkspace
	case "direct":
		return StatusDirect
	default:
		return StatusTransitive
	}
}

// SummarySource distinguishes a workspace-local package (by workspace-
// relative path) from a crates.io package from any other external source
// (by its source descriptor, e.g. `git+https://...`).
type SummarySource struct {
	WorkspacePath string
	CratesIo      bool
	External      string
}

// SummaryId identifies one package entry in a summary.
type SummaryId struct {
	Name    string
	Version *semver.Version
	Source  SummarySource
}

// PackageInfo is the recorded state of one package in a summary.
type PackageInfo struct {
	Status   PackageStatus
	Features []string // sorted
}

// Summary is the target/host package split of one simulated build.
type Summary struct {
	TargetPackages map[SummaryId]PackageInfo
	HostPackages   map[SummaryId]PackageInfo
}

// Build constructs a Summary from a completed CargoSet: roots are the
// packages the simulation was run against (recorded with StatusInitial);
// every other workspace member reached is StatusWorkspace; every third-
// party package with a direct edge from a root is StatusDirect; everything
// else is StatusTransitive.
func Build(pg *pkggraph.Graph, cs *cargo.CargoSet, roots []pkggraph.PackageId) (*Summary, error) {
	rootSet := make(map[pkggraph.PackageId]struct{}, len(roots))
	for _, r := range roots {
		rootSet[r] = struct{}{}
	}

	direct := make(map[pkggraph.PackageId]struct{})
	for _, r := range roots {
		links, err := pg.DirectLinksFrom(r)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			direct[l.To] = struct{}{}
		}
	}

	statusFor := func(id pkggraph.PackageId) PackageStatus {
		_, isRoot := rootSet[id]
		_, isDirect := direct[id]
		switch {
		case isRoot:
			return StatusInitial
		case pg.Workspace().IsMember(id):
			return StatusWorkspace
		case isDirect:
			return StatusDirect
		default:
			return StatusTransitive
		}
	}

	target := buildSide(cs.TargetPackages(), cs.TargetFeatures(), statusFor)
	host := buildSide(cs.HostPackages(), cs.HostFeatures(), statusFor)

	return &Summary{TargetPackages: target, HostPackages: host}, nil
}

// buildSide records one half (target or host) of a CargoSet: every package
// in set, alongside the named features active on it in fs (the implicit
// base and optional-dependency labels are not user-facing features and are
// excluded, matching what guppy-summaries records).
func buildSide(set *pkggraph.PackageSet, fs *featuregraph.FeatureSet, statusFor func(pkggraph.PackageId) PackageStatus) map[SummaryId]PackageInfo {
	activeNamed := make(map[pkggraph.PackageId][]string)
	for _, id := range fs.Ids() {
		if id.Label.Kind != featuregraph.Named {
			continue
		}
		activeNamed[id.Package] = append(activeNamed[id.Package], id.Label.Name)
	}

	out := make(map[SummaryId]PackageInfo, set.Len())
	for _, pkg := range set.Packages() {
		features := activeNamed[pkg.Id]
		sort.Strings(features)
		out[summaryIdFor(pkg)] = PackageInfo{Status: statusFor(pkg.Id), Features: features}
	}
	return out
}

func summaryIdFor(pkg *pkggraph.PackageMetadata) SummaryId {
	src := SummarySource{}
	switch pkg.Source.Kind {
	case pkggraph.SourceWorkspace, pkggraph.SourcePath:
		src.WorkspacePath = pkg.Source.Path
	case pkggraph.SourceExternal:
		if pkg.Source.Registry == "" || pkg.Source.Registry == "https://github.com/rust-lang/crates.io-index" {
			src.CratesIo = true
		} else {
			src.External = "registry+" + pkg.Source.Registry
		}
	case pkggraph.SourceGit:
		src.External = "git+" + pkg.Source.Repository
	}
	return SummaryId{Name: pkg.Name, Version: pkg.Version, Source: src}
}

// rawEntry is the literal TOML shape of one [[target-package]]/
// [[host-package]] array entry.
type rawEntry struct {
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	WorkspacePath string   `toml:"workspace-path,omitempty"`
	CratesIo      bool     `toml:"crates-io,omitempty"`
	Source        string   `toml:"source,omitempty"`
	Status        string   `toml:"status"`
	Features      []string `toml:"features"`
}

type rawSummary struct {
	TargetPackages []rawEntry `toml:"target-package"`
	HostPackages   []rawEntry `toml:"host-package"`
}

// Marshal renders s as the TOML document format guppy-summaries uses.
func Marshal(s *Summary) (string, error) {
	raw := rawSummary{
		TargetPackages: rawEntries(s.TargetPackages),
		HostPackages:   rawEntries(s.HostPackages),
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return "", errors.Wrap(err, errEncodeSummary)
	}
	return buf.String(), nil
}

func rawEntries(m map[SummaryId]PackageInfo) []rawEntry {
	out := make([]rawEntry, 0, len(m))
	for id, info := range m {
		out = append(out, rawEntry{
			Name:          id.Name,
			Version:       id.Version.String(),
			WorkspacePath: id.Source.WorkspacePath,
			CratesIo:      id.Source.CratesIo,
			Source:        id.Source.External,
			Status:        info.Status.String(),
			Features:      info.Features,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	return out
}

// Parse decodes a summary document previously produced by Marshal.
func Parse(data string) (*Summary, error) {
	var raw rawSummary
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, errors.Wrap(err, errDecodeSummary)
	}

	target, err := parseEntries(raw.TargetPackages)
	if err != nil {
		return nil, err
	}
	host, err := parseEntries(raw.HostPackages)
	if err != nil {
		return nil, err
	}
	return &Summary{TargetPackages: target, HostPackages: host}, nil
}

func parseEntries(entries []rawEntry) (map[SummaryId]PackageInfo, error) {
	out := make(map[SummaryId]PackageInfo, len(entries))
	for _, e := range entries {
		v, err := semver.NewVersion(e.Version)
		if err != nil {
			return nil, errors.Errorf(errBadSummaryVersionFmt, e.Name, e.Version)
		}
		id := SummaryId{
			Name:    e.Name,
			Version: v,
			Source: SummarySource{
				WorkspacePath: e.WorkspacePath,
				CratesIo:      e.CratesIo,
				External:      e.Source,
			},
		}
		out[id] = PackageInfo{Status: statusFromString(e.Status), Features: e.Features}
	}
	return out, nil
}
