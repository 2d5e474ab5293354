// Copyright 2025 Upbound Inc.
// All rights reserved

// Package metadata ingests the JSON document `cargo metadata
// --format-version 1 --all-features` produces (no `--no-deps`) and builds
// the normalized pkggraph.BuildInput the package graph is constructed
// from.
package metadata

// Document is the subset of `cargo metadata`'s JSON schema this module
// consumes.
type Document struct {
	Packages        []RawPackage `json:"packages"`
	WorkspaceMembers []string    `json:"workspace_members"`
	WorkspaceRoot   string       `json:"workspace_root"`
	Resolve         *RawResolve  `json:"resolve"`
}

// RawPackage mirrors one entry of `packages[*]`.
type RawPackage struct {
	Id           string            `json:"id"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Source       *string           `json:"source"`
	ManifestPath string            `json:"manifest_path"`
	Authors      []string          `json:"authors"`
	Description  *string           `json:"description"`
	License      *string           `json:"license"`
	Links        *string           `json:"links"`
	Publish      *[]string         `json:"publish"`
	Targets      []RawTarget       `json:"targets"`
	Features     map[string][]string `json:"features"`
	Dependencies []RawDependency   `json:"dependencies"`
}

// RawTarget mirrors one entry of `packages[*].targets`.
type RawTarget struct {
	Kind []string `json:"kind"`
	Name string   `json:"name"`
}

// RawDependency mirrors one entry of `packages[*].dependencies`: the
// manifest-level view, which carries the cfg target, optionality, and
// requested-features detail the resolve graph itself omits.
type RawDependency struct {
	Name                string   `json:"name"`
	Rename               *string `json:"rename"`
	Source              *string  `json:"source"`
	Req                 string   `json:"req"`
	Kind                *string  `json:"kind"`
	Optional            bool     `json:"optional"`
	UsesDefaultFeatures bool     `json:"uses_default_features"`
	Features            []string `json:"features"`
	Target              *string  `json:"target"`
	Path                *string  `json:"path"`
}

// RawResolve mirrors the `resolve` object: the already fully-resolved
// dependency graph, by package id.
type RawResolve struct {
	Nodes []RawResolveNode `json:"nodes"`
	Root  *string          `json:"root"`
}

// RawResolveNode mirrors one entry of `resolve.nodes[*]`.
type RawResolveNode struct {
	Id              string        `json:"id"`
	Dependencies    []string      `json:"dependencies"`
	Deps            []RawResolveDep `json:"deps"`
	Features        []string      `json:"features"`
}

// RawResolveDep mirrors one entry of `resolve.nodes[*].deps`: the name used
// to look it up in the dependent's manifest dependencies (honoring
// renames), the resolved package id, and the kinds (normal/build/dev, each
// with an optional cfg target) this single resolved edge was required
// under.
type RawResolveDep struct {
	Name     string        `json:"name"`
	Pkg      string        `json:"pkg"`
	DepKinds []RawDepKind  `json:"dep_kinds"`
}

// RawDepKind mirrors one entry of `resolve.nodes[*].deps[*].dep_kinds`.
type RawDepKind struct {
	Kind   *string `json:"kind"`
	Target *string `json:"target"`
}
