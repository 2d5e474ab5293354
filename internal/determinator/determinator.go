// Copyright 2025 Upbound Inc.
// All rights reserved

// Package determinator figures out which workspace packages a set of
// changed files could have affected, the way a CI system uses it to skip
// testing packages a pull request couldn't have touched.
//
// A changed file is attributed to the workspace member whose directory
// most closely contains it; a file outside every member's directory is
// ignored. From there, the affected set is that member plus everything
// that reverse-depends on it, transitively — a dependency's behavior
// change can only ever surface through something that depends on it.
package determinator

import (
	"path"
	"strings"

	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// Determine returns the workspace packages that changedPaths (workspace-
// relative file paths, forward-slash separated) may have affected.
func Determine(pg *pkggraph.Graph, changedPaths []string) (*pkggraph.PackageSet, error) {
	ws := pg.Workspace()

	seeds := pkggraph.NewPackageSet(pg)
	for _, p := range changedPaths {
		id, ok := nearestMember(ws, p)
		if !ok {
			continue
		}
		if err := seeds.AddID(id); err != nil {
			return nil, err
		}
	}

	affected := pkggraph.NewPackageSet(pg)
	visited := make(map[pkggraph.PackageId]bool)
	queue := make([]pkggraph.PackageId, 0, seeds.Len())
	for _, pkg := range seeds.Packages() {
		queue = append(queue, pkg.Id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		if err := affected.AddID(id); err != nil {
			return nil, err
		}

		dependents, err := pg.DirectLinksTo(id)
		if err != nil {
			return nil, err
		}
		for _, l := range dependents {
			if !visited[l.From] {
				queue = append(queue, l.From)
			}
		}
	}

	return affected, nil
}

// nearestMember finds the workspace member whose path is the longest
// prefix of filePath, treating "." as the workspace root (a prefix of
// everything).
func nearestMember(ws pkggraph.Workspace, filePath string) (pkggraph.PackageId, bool) {
	clean := path.Clean(filePath)

	var bestPath string
	var bestID pkggraph.PackageId
	found := false

	for _, memberPath := range ws.MemberPaths() {
		if !underMember(clean, memberPath) {
			continue
		}
		if !found || len(memberPath) > len(bestPath) {
			id, ok := ws.MemberByPath(memberPath)
			if !ok {
				continue
			}
			bestPath, bestID, found = memberPath, id, true
		}
	}

	return bestID, found
}

func underMember(filePath, memberPath string) bool {
	if memberPath == "." {
		return true
	}
	return filePath == memberPath || strings.HasPrefix(filePath, memberPath+"/")
}
