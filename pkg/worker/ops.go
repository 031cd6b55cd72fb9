package worker

import (
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
)

// Op is one engine operation. The set of implementations is closed.
type Op interface {
	opName() string
}

// SetGraph replaces the loaded graph. Nodes listed in Positions start
// there.
type SetGraph struct {
	Graph     *graph.Graph
	Positions map[string]layout.Vec
}

// Step runs one relaxation pass.
type Step struct {
	Repulsion  float64 `json:"repulsion"`
	Attraction float64 `json:"attraction"`
}

// MoveNode pins a node at a position.
type MoveNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Snapshot reads the current positions.
type Snapshot struct{}

// Components reads the connected components.
type Components struct{}

func (SetGraph) opName() string   { return "setGraph" }
func (Step) opName() string       { return "step" }
func (MoveNode) opName() string   { return "moveNode" }
func (Snapshot) opName() string   { return "snapshot" }
func (Components) opName() string { return "components" }

// Stats describes a loaded graph.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Components int `json:"components"`
}

// Frame is the result of a step.
type Frame struct {
	Iteration int             `json:"iteration"`
	Energy    float64         `json:"energy"`
	Positions layout.Snapshot `json:"positions"`
}
