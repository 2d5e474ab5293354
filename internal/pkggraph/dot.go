// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import (
	"fmt"
	"io"
)

// Dot renders the graph in Graphviz dot format, one node per package and one
// edge per link (labeled with the dependency name).
func (g *Graph) Dot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph package_graph {"); err != nil {
		return err
	}
	for _, pkg := range g.Packages() {
		if _, err := fmt.Fprintf(w, "    %q [label=%q];\n", pkg.Id, fmt.Sprintf("%s %s", pkg.Name, pkg.VersionStr)); err != nil {
			return err
		}
	}
	for _, link := range g.links {
		if _, err := fmt.Fprintf(w, "    %q -> %q [label=%q];\n", link.From, link.To, link.DepName); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
