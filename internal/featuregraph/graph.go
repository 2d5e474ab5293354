// Copyright 2025 Upbound Inc.
// All rights reserved

package featuregraph

import (
	"sort"
	"strings"

	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// NodeIndex is a dense, zero-based index into a Graph's feature-node arena.
type NodeIndex int

// EdgeIndex is a dense, zero-based index into a Graph's feature-edge arena.
type EdgeIndex int

// Warning records a non-fatal issue found while building the feature graph:
// a feature expression that refers to a feature or dependency that doesn't
// exist. Matches spec.md's FeatureGraphWarning: collected, not thrown.
type Warning struct {
	Package pkggraph.PackageId
	Feature string
	Message string
}

// Graph is the immutable feature-graph overlay on a package graph.
type Graph struct {
	pkgGraph *pkggraph.Graph

	nodes     []FeatureId
	nodeIndex map[FeatureId]NodeIndex

	edges    []*FeatureEdge
	outgoing [][]EdgeIndex
	incoming [][]EdgeIndex

	// edgeOf maps a (from, to) node pair to its edge index, used to
	// implement the edge-upgrade rule during construction.
	edgeOf map[[2]NodeIndex]EdgeIndex

	edgeFrom []NodeIndex
	edgeTo   []NodeIndex

	warnings []Warning
}

// PackageGraph returns the underlying package graph this feature graph
// overlays.
func (g *Graph) PackageGraph() *pkggraph.Graph { return g.pkgGraph }

// NodeIds returns every feature id in the graph, in arena order.
func (g *Graph) NodeIds() []FeatureId {
	out := make([]FeatureId, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Outgoing returns the ids and edges reached directly from id, for callers
// (the build simulator, the explain command) that need to gate traversal
// on something beyond plain reachability, e.g. a per-kind platform status.
func (g *Graph) Outgoing(id FeatureId) ([]FeatureId, []*FeatureEdge, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, nil, unknownFeatureId(id)
	}
	edgeIdxs := g.outgoing[idx]
	ids := make([]FeatureId, len(edgeIdxs))
	edges := make([]*FeatureEdge, len(edgeIdxs))
	for i, e := range edgeIdxs {
		ids[i] = g.nodes[g.edgeTo[e]]
		edges[i] = g.edges[e]
	}
	return ids, edges, nil
}

// Warnings returns every warning collected while building the graph.
func (g *Graph) Warnings() []Warning { return g.warnings }

func (g *Graph) warn(pkg pkggraph.PackageId, feature, msg string) {
	g.warnings = append(g.warnings, Warning{Package: pkg, Feature: feature, Message: msg})
}

func (g *Graph) nodeFor(pkg pkggraph.PackageId, label FeatureLabel) (NodeIndex, bool) {
	idx, ok := g.nodeIndex[FeatureId{Package: pkg, Label: label}]
	return idx, ok
}

func (g *Graph) ensureNode(pkg pkggraph.PackageId, label FeatureLabel) NodeIndex {
	id := FeatureId{Package: pkg, Label: label}
	if idx, ok := g.nodeIndex[id]; ok {
		return idx
	}
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, id)
	g.nodeIndex[id] = idx
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	return idx
}

// addEdge implements the upgrade rule: FeatureDependency beats
// FeatureToBase beats Conditional for the same (from, to) pair; an existing
// stronger edge is never downgraded.
func (g *Graph) addEdge(from, to NodeIndex, e *FeatureEdge) {
	key := [2]NodeIndex{from, to}
	if existingIdx, ok := g.edgeOf[key]; ok {
		existing := g.edges[existingIdx]
		if e.Kind.rank() <= existing.Kind.rank() {
			return
		}
		g.edges[existingIdx] = e
		return
	}
	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, e)
	g.edgeFrom = append(g.edgeFrom, from)
	g.edgeTo = append(g.edgeTo, to)
	g.outgoing[from] = append(g.outgoing[from], idx)
	g.incoming[to] = append(g.incoming[to], idx)
	if g.edgeOf == nil {
		g.edgeOf = make(map[[2]NodeIndex]EdgeIndex)
	}
	g.edgeOf[key] = idx
}

// Build constructs the feature graph overlaying pg.
func Build(pg *pkggraph.Graph) (*Graph, error) {
	g := &Graph{
		pkgGraph:  pg,
		nodeIndex: make(map[FeatureId]NodeIndex),
		edgeOf:    make(map[[2]NodeIndex]EdgeIndex),
	}

	packages := pg.Packages()

	// Step 0/1: create Base, Named, and OptionalDependency nodes, plus the
	// FeatureToBase edge every feature carries.
	for _, pkg := range packages {
		base := g.ensureNode(pkg.Id, BaseLabel())

		names := make([]string, 0, len(pkg.Features))
		for name := range pkg.Features {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			n := g.ensureNode(pkg.Id, NamedLabel(name))
			g.addEdge(n, base, &FeatureEdge{Kind: FeatureToBase})
		}

		optNames := make([]string, 0, len(pkg.OptionalDeps))
		for name := range pkg.OptionalDeps {
			optNames = append(optNames, name)
		}
		sort.Strings(optNames)
		for _, name := range optNames {
			n := g.ensureNode(pkg.Id, OptionalDepLabel(name))
			g.addEdge(n, base, &FeatureEdge{Kind: FeatureToBase})
		}
	}

	// Step 2: activation-token edges for every declared feature.
	for _, pkg := range packages {
		names := make([]string, 0, len(pkg.Features))
		for name := range pkg.Features {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, feature := range names {
			fromIdx, _ := g.nodeFor(pkg.Id, NamedLabel(feature))
			for _, tok := range pkg.Features[feature] {
				g.addActivationEdge(pkg, fromIdx, feature, tok)
			}
		}
	}

	// Step 3: base-level required/optional edges derived directly from each
	// PackageLink's DependencyReq, independent of any activation string. One
	// edge per (from, to) pair carries all three kinds' requirements, so a
	// downstream reader (the build simulator) can evaluate Normal/Build/Dev
	// independently off the same edge.
	for _, link := range pg.AllLinks() {
		if !link.Normal.Applies() && !link.Build.Applies() && !link.Dev.Applies() {
			continue
		}
		g.addBaseLevelEdges(pg, link)
	}

	return g, nil
}

type activationToken struct {
	dep     string
	feature string
	weak    bool
	local   bool
}

func parseActivationToken(tok string) activationToken {
	if idx := strings.Index(tok, "?/"); idx >= 0 {
		return activationToken{dep: tok[:idx], feature: tok[idx+2:], weak: true}
	}
	if idx := strings.Index(tok, "/"); idx >= 0 {
		return activationToken{dep: tok[:idx], feature: tok[idx+1:], weak: false}
	}
	if idx := strings.Index(tok, ":"); idx >= 0 {
		return activationToken{dep: tok[:idx], feature: tok[idx+1:], weak: true}
	}
	return activationToken{feature: tok, local: true}
}

func (g *Graph) addActivationEdge(pkg *pkggraph.PackageMetadata, fromIdx NodeIndex, feature, tok string) {
	t := parseActivationToken(tok)

	if t.local {
		var target FeatureLabel
		switch {
		case pkg.HasFeature(t.feature):
			target = NamedLabel(t.feature)
		case pkg.IsOptionalDependency(t.feature):
			target = OptionalDepLabel(t.feature)
		default:
			g.warn(pkg.Id, feature, "activates unknown local feature "+t.feature)
			return
		}
		toIdx, ok := g.nodeFor(pkg.Id, target)
		if !ok {
			return
		}
		g.addEdge(fromIdx, toIdx, &FeatureEdge{Kind: FeatureDependency})
		return
	}

	link := g.findLink(pkg.Id, t.dep)
	if link == nil {
		g.warn(pkg.Id, feature, "activates unknown dependency "+t.dep)
		return
	}
	depPkg, ok := g.pkgGraph.PackageByID(link.To)
	if !ok {
		return
	}
	var targetLabel FeatureLabel
	switch {
	case depPkg.HasFeature(t.feature):
		targetLabel = NamedLabel(t.feature)
	case depPkg.IsOptionalDependency(t.feature):
		targetLabel = OptionalDepLabel(t.feature)
	default:
		g.warn(pkg.Id, feature, "activates unknown feature "+t.feature+" on "+t.dep)
		return
	}
	toIdx, ok := g.nodeFor(link.To, targetLabel)
	if !ok {
		return
	}
	edgeIdx, _ := g.pkgEdgeIndex(link)
	g.addEdge(fromIdx, toIdx, &FeatureEdge{
		Kind:        Conditional,
		PackageEdge: edgeIdx,
		Normal:      link.Normal,
		Build:       link.Build,
		Dev:         link.Dev,
	})

	if !t.weak && pkg.IsOptionalDependency(t.dep) {
		if optIdx, ok := g.nodeFor(pkg.Id, OptionalDepLabel(t.dep)); ok {
			g.addEdge(fromIdx, optIdx, &FeatureEdge{Kind: FeatureDependency})
		}
	}
}

func (g *Graph) addBaseLevelEdges(pg *pkggraph.Graph, link *pkggraph.PackageLink) {
	fromPkg, ok := pg.PackageByID(link.From)
	if !ok {
		return
	}
	targetPkg, ok := pg.PackageByID(link.To)
	if !ok {
		return
	}

	// An optional dependency only gates through its OptionalDependency
	// node: the package's Base alone never implies activation. A
	// non-optional dependency gates directly through Base.
	var source NodeIndex
	if fromPkg.IsOptionalDependency(link.DepName) {
		idx, hasOpt := g.nodeFor(link.From, OptionalDepLabel(link.DepName))
		if !hasOpt {
			return
		}
		source = idx
	} else {
		source, _ = g.nodeFor(link.From, BaseLabel())
	}

	targetBase, _ := g.nodeFor(link.To, BaseLabel())
	edgePayload := &FeatureEdge{Kind: Conditional, Normal: link.Normal, Build: link.Build, Dev: link.Dev}
	g.addEdge(source, targetBase, edgePayload)

	features := make(map[string]struct{})
	for f := range link.Normal.Features {
		features[f] = struct{}{}
	}
	for f := range link.Build.Features {
		features[f] = struct{}{}
	}
	for f := range link.Dev.Features {
		features[f] = struct{}{}
	}

	for feature := range features {
		var target FeatureLabel
		if targetPkg.HasFeature(feature) {
			target = NamedLabel(feature)
		} else if targetPkg.IsOptionalDependency(feature) {
			target = OptionalDepLabel(feature)
		} else {
			continue
		}
		toIdx, ok := g.nodeFor(link.To, target)
		if !ok {
			continue
		}
		g.addEdge(source, toIdx, edgePayload)
	}
}

func (g *Graph) findLink(from pkggraph.PackageId, depName string) *pkggraph.PackageLink {
	links, err := g.pkgGraph.DirectLinksFrom(from)
	if err != nil {
		return nil
	}
	for _, l := range links {
		if l.DepName == depName || l.ResolvedName == depName {
			return l
		}
	}
	return nil
}

func (g *Graph) pkgEdgeIndex(link *pkggraph.PackageLink) (pkggraph.EdgeIndex, bool) {
	for i, l := range g.pkgGraph.AllLinks() {
		if l == link {
			return pkggraph.EdgeIndex(i), true
		}
	}
	return 0, false
}
