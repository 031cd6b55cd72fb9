package graph_test

import (
	"fmt"

	"github.com/matzehuels/wikigraph/pkg/graph"
)

func ExampleComponents() {
	g := graph.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge(graph.Edge{From: "A", To: "B"})
	_ = g.AddEdge(graph.Edge{From: "B", To: "C"})
	_ = g.AddEdge(graph.Edge{From: "C", To: "A"})

	p := graph.Components(g)
	fmt.Println("components:", p.Len())
	fmt.Println("sizes:", p.Sizes())
	fmt.Println("A~C:", p.Same("A", "C"))
	// Output:
	// components: 2
	// sizes: [3 1]
	// A~C: true
}
