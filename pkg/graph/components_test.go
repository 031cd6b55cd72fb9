package graph

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComponentsScenario(t *testing.T) {
	g := New()
	for _, id := range []string{"A", "B", "C", "D"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "A", To: "B"})
	_ = g.AddEdge(Edge{From: "B", To: "C"})
	_ = g.AddEdge(Edge{From: "C", To: "A"})

	p := Components(g)
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if !p.Same("A", "B") || !p.Same("B", "C") {
		t.Error("A, B, C should share a component")
	}
	if p.Same("A", "D") {
		t.Error("D should be isolated")
	}
	if got := p.Sizes(); got[0] != 3 || got[1] != 1 {
		t.Errorf("Sizes = %v, want [3 1]", got)
	}
	if p.Singletons() != 1 {
		t.Errorf("Singletons = %d, want 1", p.Singletons())
	}
}

func TestComponentsEmpty(t *testing.T) {
	p := Components(New())
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
	if _, ok := p.Of("x"); ok {
		t.Error("Of on empty partition should miss")
	}
}

func TestComponentsDirectionIgnored(t *testing.T) {
	// a -> b <- c: no directed path from a to c, still one component.
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "c", To: "b"})

	if p := Components(g); p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

// randomGraph builds a graph of n nodes from a flat list of endpoint pairs.
func randomGraph(n int, ends []int) *Graph {
	g := New()
	for i := 0; i < n; i++ {
		_ = g.AddNode(Node{ID: fmt.Sprintf("n%d", i)})
	}
	for i := 0; i+1 < len(ends); i += 2 {
		_ = g.AddEdge(Edge{From: fmt.Sprintf("n%d", ends[i]%n), To: fmt.Sprintf("n%d", ends[i+1]%n)})
	}
	return g
}

// reachable runs a plain undirected BFS from start.
func reachable(g *Graph, start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		next := append(append([]string{}, g.Children(id)...), g.Parents(id)...)
		for _, nb := range next {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return seen
}

func TestComponentsMatchBFS(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("partition agrees with BFS reachability", prop.ForAll(
		func(n int, ends []int) bool {
			g := randomGraph(n, ends)
			p := Components(g)

			total := 0
			for c := 0; c < p.Len(); c++ {
				total += len(p.Members(c))
			}
			if total != g.NodeCount() {
				return false
			}

			for _, a := range g.Nodes() {
				r := reachable(g, a.ID)
				for _, b := range g.Nodes() {
					if p.Same(a.ID, b.ID) != r[b.ID] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 30),
		gen.SliceOfN(30, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
