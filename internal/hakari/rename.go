// Copyright 2025 Upbound Inc.
// All rights reserved

package hakari

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// assignRenames sets OutputEntry.Rename on every entry whose package name
// collides with another entry of a different package id (the same crate
// name resolved from two different sources/versions): `name-<hash>`, where
// hash is the xxhash64 of the version string and source descriptor,
// matching spec.md §6's rename rule. Entries that don't collide are left
// unrenamed.
func assignRenames(out *OutputMap) {
	byName := make(map[string]map[string]*OutputEntry)
	for _, e := range out.entries {
		if byName[e.Name] == nil {
			byName[e.Name] = make(map[string]*OutputEntry)
		}
		byName[e.Name][string(e.Package)] = e
	}

	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		ids := make([]string, 0, len(group))
		for id := range group {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			e := group[id]
			suffix := renameSuffix(e.Version, sourceDescriptor(e.Source))
			for _, e2 := range out.entries {
				if e2.Package == e.Package {
					e2.Rename = fmt.Sprintf("%s-%s", e.Name, suffix)
				}
			}
		}
	}
}

func renameSuffix(version, source string) string {
	h := xxhash.New()
	_, _ = h.Write([]byte(version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(source))
	return fmt.Sprintf("%016x", h.Sum64())
}
