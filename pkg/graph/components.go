package graph

import (
	"cmp"
	"slices"
)

// Partition maps every node of a graph to exactly one weakly connected
// component. Component handles are dense integers starting at 0, assigned
// in the order their first member appears in the graph.
type Partition struct {
	of      map[string]int
	members [][]string
}

// Components computes the weakly connected components of g using an
// iterative depth-first flood fill over [Graph.Neighbors].
func Components(g *Graph) *Partition {
	p := &Partition{of: make(map[string]int, g.NodeCount())}

	var stack []string
	for _, n := range g.nodes {
		if _, seen := p.of[n.ID]; seen {
			continue
		}
		c := len(p.members)
		p.members = append(p.members, nil)
		p.of[n.ID] = c
		stack = append(stack[:0], n.ID)

		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			p.members[c] = append(p.members[c], id)
			for _, nb := range g.Neighbors(id) {
				if _, seen := p.of[nb]; seen {
					continue
				}
				p.of[nb] = c
				stack = append(stack, nb)
			}
		}
	}
	return p
}

// Len returns the number of components.
func (p *Partition) Len() int { return len(p.members) }

// Of returns the component of id.
func (p *Partition) Of(id string) (int, bool) {
	c, ok := p.of[id]
	return c, ok
}

// Members returns the node IDs in component c. The slice must not be modified.
func (p *Partition) Members(c int) []string {
	if c < 0 || c >= len(p.members) {
		return nil
	}
	return p.members[c]
}

// Groups returns a copy of every component's member list.
func (p *Partition) Groups() [][]string {
	out := make([][]string, len(p.members))
	for i, m := range p.members {
		out[i] = slices.Clone(m)
	}
	return out
}

// Same reports whether a and b are in the same component.
func (p *Partition) Same(a, b string) bool {
	ca, okA := p.of[a]
	cb, okB := p.of[b]
	return okA && okB && ca == cb
}

// Sizes returns component sizes, largest first.
func (p *Partition) Sizes() []int {
	sizes := make([]int, len(p.members))
	for i, m := range p.members {
		sizes[i] = len(m)
	}
	slices.SortFunc(sizes, func(a, b int) int { return cmp.Compare(b, a) })
	return sizes
}

// Singletons returns how many components hold exactly one node.
func (p *Partition) Singletons() int {
	n := 0
	for _, m := range p.members {
		if len(m) == 1 {
			n++
		}
	}
	return n
}
