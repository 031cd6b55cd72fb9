package graph

import (
	"path/filepath"
	"testing"
)

func TestExampleFiles(t *testing.T) {
	dir := filepath.Join("..", "..", "examples")

	g, err := ReadFile(filepath.Join(dir, "graphs", "triangle.json"), LinkMapOptions{})
	if err != nil {
		t.Fatalf("triangle: %v", err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 || Components(g).Len() != 2 {
		t.Errorf("triangle: %d nodes, %d edges, %d components", g.NodeCount(), g.EdgeCount(), Components(g).Len())
	}

	tests := []struct {
		name       string
		children   bool
		resolved   int
		components int
	}{
		{"links only", false, 7, 3},
		{"with children", true, 8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, stats, err := ReadLinkMapFile(filepath.Join(dir, "linkmap", "pages.json"), LinkMapOptions{IncludeChildren: tt.children})
			if err != nil {
				t.Fatal(err)
			}
			if stats.Pages != 6 || stats.Resolved != tt.resolved || stats.Unresolved != 1 {
				t.Errorf("stats = %+v", stats)
			}
			if n := Components(g).Len(); n != tt.components {
				t.Errorf("components = %d, want %d", n, tt.components)
			}
			if n, ok := g.Node(DefaultBaseURL + "/scp-173"); !ok || n.Label != "scp-173" {
				t.Errorf("scp-173 node = %+v, %v", n, ok)
			}
		})
	}
}
