package layout

import "math"

// Vec is a 2-D position.
type Vec struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

func (v Vec) finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Position is one node's coordinates in a snapshot.
type Position struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Snapshot is the full set of node positions after a step, in engine node
// order. A snapshot is a copy: later steps never modify it.
type Snapshot []Position

// Positions indexes the snapshot by node ID.
func (s Snapshot) Positions() map[string]Vec {
	m := make(map[string]Vec, len(s))
	for _, p := range s {
		m[p.ID] = Vec{X: p.X, Y: p.Y}
	}
	return m
}

// Bounds returns the min and max corners of the snapshot. An empty
// snapshot returns two zero vectors.
func (s Snapshot) Bounds() (lo, hi Vec) {
	if len(s) == 0 {
		return Vec{}, Vec{}
	}
	lo = Vec{math.Inf(1), math.Inf(1)}
	hi = Vec{math.Inf(-1), math.Inf(-1)}
	for _, p := range s {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// Finite reports whether every coordinate is a finite number.
func (s Snapshot) Finite() bool {
	for _, p := range s {
		if !(Vec{p.X, p.Y}).finite() {
			return false
		}
	}
	return true
}
