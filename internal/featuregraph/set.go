// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import "github.com/upbound/cargo-hakari/internal/pkggraph"

// FeatureSet is a bitset over a Graph's feature-node arena, mirroring
// pkggraph.PackageSet's shape and set-algebra.
type FeatureSet struct {
	graph   *Graph
	members []bool
}

// NewFeatureSet returns an empty set over g.
func NewFeatureSet(g *Graph) *FeatureSet {
	return &FeatureSet{graph: g, members: make([]bool, len(g.nodes))}
}

// Mark inserts id into the set. It serves callers (the build simulator)
// that discover membership incrementally via their own traversal instead
// of a single forward query.
func (s *FeatureSet) Mark(id FeatureId) {
	if idx, ok := s.graph.nodeIndex[id]; ok {
		s.members[idx] = true
	}
}

// Contains reports whether id is in the set.
func (s *FeatureSet) Contains(id FeatureId) bool {
	idx, ok := s.graph.nodeIndex[id]
	return ok && s.members[idx]
}

// Len returns the number of feature ids in the set.
func (s *FeatureSet) Len() int {
	n := 0
	for _, v := range s.members {
		if v {
			n++
		}
	}
	return n
}

// Ids returns every feature id in the set, in arena order.
func (s *FeatureSet) Ids() []FeatureId {
	var out []FeatureId
	for i, v := range s.members {
		if v {
			out = append(out, s.graph.nodes[i])
		}
	}
	return out
}

// PackageIds returns the distinct set of packages touched by any feature id
// in the set.
func (s *FeatureSet) PackageIds() []pkggraph.PackageId {
	seen := make(map[pkggraph.PackageId]bool)
	var out []pkggraph.PackageId
	for i, v := range s.members {
		if !v {
			continue
		}
		pkg := s.graph.nodes[i].Package
		if !seen[pkg] {
			seen[pkg] = true
			out = append(out, pkg)
		}
	}
	return out
}

func (s *FeatureSet) sameGraph(o *FeatureSet) {
	if s.graph != o.graph {
		panic("featuregraph: set operation across different graphs")
	}
}

// Union returns the set of feature ids in either s or o.
func (s *FeatureSet) Union(o *FeatureSet) *FeatureSet {
	s.sameGraph(o)
	out := NewFeatureSet(s.graph)
	for i := range out.members {
		out.members[i] = s.members[i] || o.members[i]
	}
	return out
}

// Intersection returns the set of feature ids in both s and o.
func (s *FeatureSet) Intersection(o *FeatureSet) *FeatureSet {
	s.sameGraph(o)
	out := NewFeatureSet(s.graph)
	for i := range out.members {
		out.members[i] = s.members[i] && o.members[i]
	}
	return out
}

// Difference returns the set of feature ids in s but not o.
func (s *FeatureSet) Difference(o *FeatureSet) *FeatureSet {
	s.sameGraph(o)
	out := NewFeatureSet(s.graph)
	for i := range out.members {
		out.members[i] = s.members[i] && !o.members[i]
	}
	return out
}
