// Copyright 2025 Upbound Inc.
// All rights reserved

package summaries

import (
	"bytes"
	"fmt"
	"sort"
)

// PackageDiffKind classifies how a single package entry changed between two
// summaries.
type PackageDiffKind int

const (
	// DiffAdded: present in the new summary only.
	DiffAdded PackageDiffKind = iota
	// DiffRemoved: present in the old summary only.
	DiffRemoved
	// DiffStatusChanged: present in both, but PackageInfo differs (status
	// and/or feature list).
	DiffStatusChanged
)

func (k PackageDiffKind) String() string {
	switch k {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	default:
		return "changed"
	}
}

// PackageDiff is one changed package entry on one side (target or host) of
// a SummaryDiff.
type PackageDiff struct {
	Id   SummaryId
	Kind PackageDiffKind
	Old  *PackageInfo // nil for DiffAdded
	New  *PackageInfo // nil for DiffRemoved
}

// SummaryDiff is the full set of package-level differences between two
// Summary documents, split by target/host the same way Summary itself is.
type SummaryDiff struct {
	Target []PackageDiff
	Host   []PackageDiff
}

// Unchanged reports whether old and new describe the same build.
func (d *SummaryDiff) Unchanged() bool {
	return len(d.Target) == 0 && len(d.Host) == 0
}

// Diff compares old against updated (updated is conventionally "this"
// summary, old the one being compared against, mirroring guppy-summaries'
// Summary::diff).
func Diff(old, updated *Summary) *SummaryDiff {
	return &SummaryDiff{
		Target: diffSide(old.TargetPackages, updated.TargetPackages),
		Host:   diffSide(old.HostPackages, updated.HostPackages),
	}
}

func diffSide(old, updated map[SummaryId]PackageInfo) []PackageDiff {
	var out []PackageDiff

	for id, newInfo := range updated {
		oldInfo, existed := old[id]
		switch {
		case !existed:
			ni := newInfo
			out = append(out, PackageDiff{Id: id, Kind: DiffAdded, New: &ni})
		case !infoEqual(oldInfo, newInfo):
			oi, ni := oldInfo, newInfo
			out = append(out, PackageDiff{Id: id, Kind: DiffStatusChanged, Old: &oi, New: &ni})
		}
	}
	for id, oldInfo := range old {
		if _, stillPresent := updated[id]; !stillPresent {
			oi := oldInfo
			out = append(out, PackageDiff{Id: id, Kind: DiffRemoved, Old: &oi})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Id.Name != out[j].Id.Name {
			return out[i].Id.Name < out[j].Id.Name
		}
		return out[i].Id.Version.LessThan(out[j].Id.Version)
	})
	return out
}

func infoEqual(a, b PackageInfo) bool {
	if a.Status != b.Status || len(a.Features) != len(b.Features) {
		return false
	}
	for i := range a.Features {
		if a.Features[i] != b.Features[i] {
			return false
		}
	}
	return true
}

// Render writes a human-readable report of d, one line per changed package
// per side, the way `cargo hakari verify`'s summary-diff report does.
func Render(w *bytes.Buffer, d *SummaryDiff) {
	renderSide(w, "target", d.Target)
	renderSide(w, "host", d.Host)
}

func renderSide(w *bytes.Buffer, side string, diffs []PackageDiff) {
	for _, pd := range diffs {
		switch pd.Kind {
		case DiffAdded:
			fmt.Fprintf(w, "+ [%s] %s %s (%s)\n", side, pd.Id.Name, pd.Id.Version, pd.New.Status)
		case DiffRemoved:
			fmt.Fprintf(w, "- [%s] %s %s (%s)\n", side, pd.Id.Name, pd.Id.Version, pd.Old.Status)
		default:
			fmt.Fprintf(w, "~ [%s] %s %s: %s -> %s\n", side, pd.Id.Name, pd.Id.Version, pd.Old.Status, pd.New.Status)
		}
	}
}
