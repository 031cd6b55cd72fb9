package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	tests := []struct {
		name string
		node Node
		want error
	}{
		{"empty id", Node{}, ErrInvalidNodeID},
		{"duplicate", Node{ID: "a"}, ErrDuplicateNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddNode(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("AddNode = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"valid", Edge{From: "a", To: "b"}, nil},
		{"duplicate is ignored", Edge{From: "a", To: "b"}, nil},
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge = %v, want %v", err, tt.want)
			}
		})
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNeighborsIsUnion(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	_ = g.AddEdge(Edge{From: "a", To: "d"})

	got := g.Neighbors("a")
	want := []string{"b", "d", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Neighbors(a) = %v, want %v", got, want)
	}
	if g.Degree("a") != 3 {
		t.Errorf("Degree(a) = %d, want 3", g.Degree("a"))
	}
	if len(g.Neighbors("missing")) != 0 {
		t.Error("Neighbors of unknown node should be empty")
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Label: "Alpha"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	back, err := ReadFile(path, LinkMapOptions{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.NodeCount() != 2 || back.EdgeCount() != 1 {
		t.Errorf("got %d nodes %d edges, want 2 and 1", back.NodeCount(), back.EdgeCount())
	}
	if n, _ := back.Node("a"); n.DisplayLabel() != "Alpha" {
		t.Errorf("label = %q, want Alpha", n.DisplayLabel())
	}
}

func TestReadGraphRejectsDanglingEdge(t *testing.T) {
	in := `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"ghost"}]}`
	_, err := ReadGraph(bytes.NewBufferString(in))
	if !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("ReadGraph = %v, want ErrUnknownTargetNode", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"), LinkMapOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile = %v, want not-exist", err)
	}
}
