// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import (
	"sort"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

// NodeIndex is a dense, zero-based index into a Graph's package arena.
type NodeIndex int

// EdgeIndex is a dense, zero-based index into a Graph's link arena.
type EdgeIndex int

// Workspace describes the root of a Cargo workspace and the set of packages
// that are members of it.
type Workspace struct {
	RootPath string
	// membersByPath maps a workspace-relative path to the member's id, in
	// the order the metadata source reported them.
	orderedPaths []string
	membersByPath map[string]PackageId
	membersByName map[string]PackageId
}

// MemberPaths returns the workspace-relative paths of every member, in
// declaration order.
func (w Workspace) MemberPaths() []string {
	out := make([]string, len(w.orderedPaths))
	copy(out, w.orderedPaths)
	return out
}

// MemberByPath looks up a workspace member by its workspace-relative path.
func (w Workspace) MemberByPath(path string) (PackageId, bool) {
	id, ok := w.membersByPath[path]
	return id, ok
}

// MemberByName looks up a workspace member by package name.
func (w Workspace) MemberByName(name string) (PackageId, bool) {
	id, ok := w.membersByName[name]
	return id, ok
}

// IsMember reports whether id belongs to the workspace.
func (w Workspace) IsMember(id PackageId) bool {
	for _, v := range w.membersByPath {
		if v == id {
			return true
		}
	}
	return false
}

// BuildInput is the normalized shape the metadata-ingestion boundary
// produces to build a Graph. It is intentionally minimal: resolving the
// cargo-metadata JSON document into this shape (including honoring
// [patch]/[replace] rewrites so Links already point at the replacement
// package) lives in package metadata, outside this package.
type BuildInput struct {
	Packages []PackageMetadata
	Links    []PackageLink

	WorkspaceRoot string
	// Members maps workspace-relative path -> member package id, in
	// declaration order.
	Members []WorkspaceMember
}

// WorkspaceMember pairs a workspace-relative path with its package id.
type WorkspaceMember struct {
	Path string
	Id   PackageId
}

// Graph is the immutable, arena-backed package graph. Once built, it is
// handed out by reference to queries and the simulator; it is never
// mutated.
type Graph struct {
	nodes     []PackageMetadata
	nodeIndex map[PackageId]NodeIndex

	links []PackageLink
	// outgoing/incoming map a node index to the edge indices leaving/
	// entering it.
	outgoing [][]EdgeIndex
	incoming [][]EdgeIndex

	workspace Workspace

	sccOf     []int  // nodeIndex -> scc id
	sccOrder  []int  // scc id -> its position in topological (forward) order
	sccNodes  [][]NodeIndex
}

// Build constructs a Graph from a BuildInput, validating the invariants
// spec.md §4.2 requires: every edge endpoint is a known package, and every
// workspace member is a known package.
func Build(in BuildInput) (*Graph, error) {
	g := &Graph{
		nodeIndex: make(map[PackageId]NodeIndex, len(in.Packages)),
	}

	for _, pkg := range in.Packages {
		idx := NodeIndex(len(g.nodes))
		g.nodes = append(g.nodes, pkg)
		g.nodeIndex[pkg.Id] = idx
	}

	g.outgoing = make([][]EdgeIndex, len(g.nodes))
	g.incoming = make([][]EdgeIndex, len(g.nodes))

	for _, link := range in.Links {
		fromIdx, ok := g.nodeIndex[link.From]
		if !ok {
			return nil, errors.Errorf(errUnresolvedEdgeFmt, link.From, link.To)
		}
		toIdx, ok := g.nodeIndex[link.To]
		if !ok {
			return nil, errors.Errorf(errUnresolvedEdgeFmt, link.From, link.To)
		}
		eidx := EdgeIndex(len(g.links))
		g.links = append(g.links, link)
		g.outgoing[fromIdx] = append(g.outgoing[fromIdx], eidx)
		g.incoming[toIdx] = append(g.incoming[toIdx], eidx)
	}

	ws := Workspace{
		RootPath:      in.WorkspaceRoot,
		membersByPath: make(map[string]PackageId, len(in.Members)),
		membersByName: make(map[string]PackageId, len(in.Members)),
	}
	for _, m := range in.Members {
		if _, ok := g.nodeIndex[m.Id]; !ok {
			return nil, errors.Errorf(errWorkspaceMemberIdFmt, m.Path, m.Id)
		}
		ws.orderedPaths = append(ws.orderedPaths, m.Path)
		ws.membersByPath[m.Path] = m.Id
		if pkg, ok := g.PackageByID(m.Id); ok {
			ws.membersByName[pkg.Name] = m.Id
		}
	}
	g.workspace = ws

	g.computeSCCs()

	return g, nil
}

// PackageByID looks up a package by id.
func (g *Graph) PackageByID(id PackageId) (*PackageMetadata, bool) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[idx], true
}

// PackageByName looks up a package by name. If several packages share a
// name (different versions/sources), the first one found in arena order is
// returned; callers that care should use Workspace.MemberByName or filter
// Packages() themselves.
func (g *Graph) PackageByName(name string) (*PackageMetadata, bool) {
	for i := range g.nodes {
		if g.nodes[i].Name == name {
			return &g.nodes[i], true
		}
	}
	return nil, false
}

// Workspace returns the graph's workspace view.
func (g *Graph) Workspace() Workspace { return g.workspace }

// Packages returns every package in the graph, sorted by id for
// deterministic iteration.
func (g *Graph) Packages() []*PackageMetadata {
	out := make([]*PackageMetadata, len(g.nodes))
	idx := make([]int, len(g.nodes))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return g.nodes[idx[i]].Id < g.nodes[idx[j]].Id })
	for i, v := range idx {
		out[i] = &g.nodes[v]
	}
	return out
}

// DirectLinksFrom returns the links leaving the package with the given id.
func (g *Graph) DirectLinksFrom(id PackageId) ([]*PackageLink, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, UnknownPackageId(id)
	}
	out := make([]*PackageLink, 0, len(g.outgoing[idx]))
	for _, e := range g.outgoing[idx] {
		out = append(out, &g.links[e])
	}
	return out, nil
}

// DirectLinksTo returns the links entering the package with the given id
// (its direct dependents).
func (g *Graph) DirectLinksTo(id PackageId) ([]*PackageLink, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, UnknownPackageId(id)
	}
	out := make([]*PackageLink, 0, len(g.incoming[idx]))
	for _, e := range g.incoming[idx] {
		out = append(out, &g.links[e])
	}
	return out, nil
}

// AllLinks returns every link in the graph, in arena order.
func (g *Graph) AllLinks() []*PackageLink {
	out := make([]*PackageLink, len(g.links))
	for i := range g.links {
		out[i] = &g.links[i]
	}
	return out
}

func (g *Graph) nodeIdxOf(id PackageId) (NodeIndex, bool) {
	idx, ok := g.nodeIndex[id]
	return idx, ok
}
