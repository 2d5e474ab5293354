// Copyright 2025 Upbound Inc.
// All rights reserved

// Package explain renders a human-readable explanation of a single Hakari
// OutputMap entry: which workspace members, at which standard-feature
// level and dev-dependency toggle, are responsible for the package needing
// to be built with the features Hakari is unifying. It backs `hakari
// explain <dep>` and verify-mode's failure output.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/upbound/cargo-hakari/internal/hakari"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// Report is one dependency's explanation: a single row for the entry's
// unified feature set, with the builds whose feature set was exactly that
// set. The other distinct feature sets the package was built with are not
// listed.
type Report struct {
	Package  pkggraph.PackageId
	Platform string
	Kind     string
	Rows     []Row
}

// Row names a feature set and the workspace members whose builds activated
// exactly that set (none, when no single build did).
type Row struct {
	Features []string
	Callers  []string
}

// Build constructs a Report for a single output entry by cross-referencing
// the ComputedMap that produced it.
func Build(cm *hakari.ComputedMap, entry *hakari.OutputEntry) *Report {
	r := &Report{Package: entry.Package, Platform: entry.Platform, Kind: entry.Kind.String()}

	seen := make(map[string][]string)
	var order []string
	for _, features := range candidateFeatureSets(entry) {
		key := strings.Join(features, ",")
		if _, ok := seen[key]; ok {
			continue
		}
		var callers []string
		for _, w := range cm.Witnesses(entry.Platform, entry.Kind, entry.Package, features) {
			callers = append(callers, fmt.Sprintf("%s (%s features%s)", w.Member, w.StandardFeature, devSuffix(w.IncludeDev)))
		}
		sort.Strings(callers)
		seen[key] = callers
		order = append(order, key)
	}
	sort.Strings(order)
	for _, key := range order {
		var features []string
		if key != "" {
			features = strings.Split(key, ",")
		}
		r.Rows = append(r.Rows, Row{Features: features, Callers: seen[key]})
	}
	return r
}

func candidateFeatureSets(entry *hakari.OutputEntry) [][]string {
	// The union is always itself a candidate set (even if no single build
	// activated exactly this combination, it's what Hakari will pin).
	return [][]string{entry.Features}
}

func devSuffix(dev bool) string {
	if dev {
		return ", including dev-dependencies"
	}
	return ""
}

// Render formats a Report the way `hakari explain` prints to stdout.
func Render(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s build)\n", r.Package, platformLabel(r.Platform), r.Kind)
	for _, row := range r.Rows {
		features := "(none)"
		if len(row.Features) > 0 {
			features = strings.Join(row.Features, ", ")
		}
		fmt.Fprintf(&b, "  features = [%s]\n", features)
		for _, c := range row.Callers {
			fmt.Fprintf(&b, "    required by %s\n", c)
		}
	}
	return b.String()
}

func platformLabel(p string) string {
	if p == "" {
		return "any platform"
	}
	return p
}
