// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import "sort"

// PackageSet is an owned, value-type resolution of a query: a bitset over
// the graph's node indices, cheap to union/intersect/diff.
type PackageSet struct {
	graph   *Graph
	members []bool
}

// NewPackageSet returns an empty PackageSet over the given graph.
func NewPackageSet(g *Graph) *PackageSet {
	return &PackageSet{graph: g, members: make([]bool, len(g.nodes))}
}

// Contains reports whether id is a member of the set.
func (s *PackageSet) Contains(id PackageId) bool {
	idx, ok := s.graph.nodeIdxOf(id)
	if !ok {
		return false
	}
	return s.members[idx]
}

// Len returns the number of packages in the set.
func (s *PackageSet) Len() int {
	n := 0
	for _, b := range s.members {
		if b {
			n++
		}
	}
	return n
}

// add inserts a package by node index (package-internal helper; exported
// variants go through ids to keep the bitset an implementation detail).
func (s *PackageSet) add(n NodeIndex) { s.members[n] = true }

// AddID inserts a package by id.
func (s *PackageSet) AddID(id PackageId) error {
	idx, ok := s.graph.nodeIdxOf(id)
	if !ok {
		return UnknownPackageId(id)
	}
	s.add(idx)
	return nil
}

// Packages returns the set's members, sorted by id for determinism.
func (s *PackageSet) Packages() []*PackageMetadata {
	var out []*PackageMetadata
	for i, b := range s.members {
		if b {
			out = append(out, &s.graph.nodes[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (s *PackageSet) sameGraph(o *PackageSet) bool { return s.graph == o.graph }

// Union returns the union of two sets. Panics if the sets belong to
// different graphs (a precondition violation, per spec.md §4.2).
func (s *PackageSet) Union(o *PackageSet) *PackageSet {
	if !s.sameGraph(o) {
		errMismatchedGraphsPanic()
	}
	out := make([]bool, len(s.members))
	for i := range out {
		out[i] = s.members[i] || o.members[i]
	}
	return &PackageSet{graph: s.graph, members: out}
}

// Intersection returns the intersection of two sets.
func (s *PackageSet) Intersection(o *PackageSet) *PackageSet {
	if !s.sameGraph(o) {
		errMismatchedGraphsPanic()
	}
	out := make([]bool, len(s.members))
	for i := range out {
		out[i] = s.members[i] && o.members[i]
	}
	return &PackageSet{graph: s.graph, members: out}
}

// Difference returns members of s not in o.
func (s *PackageSet) Difference(o *PackageSet) *PackageSet {
	if !s.sameGraph(o) {
		errMismatchedGraphsPanic()
	}
	out := make([]bool, len(s.members))
	for i := range out {
		out[i] = s.members[i] && !o.members[i]
	}
	return &PackageSet{graph: s.graph, members: out}
}

// SymmetricDifference returns members in exactly one of s, o.
func (s *PackageSet) SymmetricDifference(o *PackageSet) *PackageSet {
	if !s.sameGraph(o) {
		errMismatchedGraphsPanic()
	}
	out := make([]bool, len(s.members))
	for i := range out {
		out[i] = s.members[i] != o.members[i]
	}
	return &PackageSet{graph: s.graph, members: out}
}

// Topo returns the set's members in topological order for the given
// direction: Forward lists each package after at least one of its
// dependencies; Reverse lists each package after at least one of its
// dependents. Order within an SCC is unspecified but stable for a given
// graph.
func (s *PackageSet) Topo(dir Direction) []*PackageMetadata {
	g := s.graph
	// g.sccNodes is already in dependency-first (Forward) order.
	var order []NodeIndex
	if dir == Forward {
		for _, comp := range g.sccNodes {
			order = append(order, comp...)
		}
	} else {
		for i := len(g.sccNodes) - 1; i >= 0; i-- {
			order = append(order, g.sccNodes[i]...)
		}
	}

	out := make([]*PackageMetadata, 0, s.Len())
	for _, n := range order {
		if s.members[n] {
			out = append(out, &g.nodes[n])
		}
	}
	return out
}
