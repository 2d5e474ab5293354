// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

// computeSCCs computes the graph's strongly-connected components using an
// iterative Kosaraju's algorithm (never recursive: workspace dependency
// graphs can nest arbitrarily deep through dev-dependency cycles), grounded
// on guppy's own choice of Kosaraju over Tarjan for exactly this reason
// (petgraph_support/scc.rs).
//
// The result is stored in dependency-first order: for an edge u -> v (u
// depends on v), the SCC containing v is ordered before the SCC containing
// u. That's the reverse of Kosaraju's natural discovery order, which is
// dependent-first; we flip it once here so every other query can use it
// directly as the Forward topological order.
func (g *Graph) computeSCCs() {
	n := len(g.nodes)
	g.sccOf = make([]int, n)
	for i := range g.sccOf {
		g.sccOf[i] = -1
	}

	finishOrder := g.iterativeDFSFinishOrder()

	visited := make([]bool, n)
	var natural [][]NodeIndex

	// Process in decreasing finish time, i.e. pop from the end of
	// finishOrder, following incoming (transpose) edges.
	for i := len(finishOrder) - 1; i >= 0; i-- {
		start := finishOrder[i]
		if visited[start] {
			continue
		}
		var component []NodeIndex
		stack := []NodeIndex{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, cur)
			for _, e := range g.incoming[cur] {
				from := g.edgeSource(e)
				if !visited[from] {
					visited[from] = true
					stack = append(stack, from)
				}
			}
		}
		natural = append(natural, component)
	}

	// Flip to dependency-first order.
	g.sccNodes = make([][]NodeIndex, len(natural))
	for i, comp := range natural {
		g.sccNodes[len(natural)-1-i] = comp
	}
	for sccID, comp := range g.sccNodes {
		for _, node := range comp {
			g.sccOf[node] = sccID
		}
	}
}

// iterativeDFSFinishOrder runs the first Kosaraju pass (DFS over outgoing
// edges) and returns nodes in the order they finish, using an explicit
// stack with a secondary "children expanded" marker instead of recursion.
func (g *Graph) iterativeDFSFinishOrder() []NodeIndex {
	n := len(g.nodes)
	visited := make([]bool, n)
	var order []NodeIndex

	type frame struct {
		node     NodeIndex
		edgeIdx  int
	}

	for start := 0; start < n; start++ {
		if visited[NodeIndex(start)] {
			continue
		}
		visited[NodeIndex(start)] = true
		stack := []frame{{node: NodeIndex(start)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.outgoing[top.node]
			advanced := false
			for top.edgeIdx < len(edges) {
				e := edges[top.edgeIdx]
				top.edgeIdx++
				to := g.edgeTarget(e)
				if !visited[to] {
					visited[to] = true
					stack = append(stack, frame{node: to})
					advanced = true
					break
				}
			}
			if advanced {
				continue
			}
			// No more children: finish this node.
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

func (g *Graph) edgeSource(e EdgeIndex) NodeIndex {
	idx, _ := g.nodeIdxOf(g.links[e].From)
	return idx
}

func (g *Graph) edgeTarget(e EdgeIndex) NodeIndex {
	idx, _ := g.nodeIdxOf(g.links[e].To)
	return idx
}

// sccIndexOf returns the strongly-connected-component index containing the given
// node index.
func (g *Graph) sccIndexOf(n NodeIndex) int { return g.sccOf[n] }

// forwardRank returns n's position in the dependency-first topological
// order (lower rank = earlier / more "leaf-like" dependency).
func (g *Graph) forwardRank(n NodeIndex) int { return g.sccOf[n] }
