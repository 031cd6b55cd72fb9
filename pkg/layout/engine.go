package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/quadtree"
)

var (
	// ErrUnknownNode is returned by [Engine.MoveNode] for an ID that is not
	// part of the loaded graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidPosition is returned when a coordinate is NaN or infinite.
	ErrInvalidPosition = errors.New("position must be finite")
)

// seedStream is the fixed second PCG word; only Options.Seed varies.
const seedStream = 0x9e3779b97f4a7c15

// body is the mutable per-node state.
type body struct {
	id     string
	x, y   float64 // committed position
	x2, y2 float64 // next position, written during a phase
	mass   float64
	radius float64
	nbrs   []int
}

// Engine holds the layout state of one graph.
type Engine struct {
	opts   Options
	rng    *rand.Rand
	bodies []body
	index  map[string]int
	parts  *graph.Partition
	comps  [][]int

	iterations int
	energy     float64
	points     []quadtree.Point
	prev       []Vec
}

// New creates an engine with no graph loaded. Steps on an empty engine are
// no-ops.
func New(opts Options) (*Engine, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:  opts,
		rng:   rand.New(rand.NewPCG(opts.Seed, seedStream)),
		index: make(map[string]int),
		parts: graph.Components(graph.New()),
	}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Initialize replaces all node state with g. Nodes present in positions
// start there; the rest are scattered uniformly over a square centered on
// the origin. The random source is reseeded first, so repeated calls with
// the same inputs are reproducible.
func (e *Engine) Initialize(g *graph.Graph, positions map[string]Vec) {
	e.rng = rand.New(rand.NewPCG(e.opts.Seed, seedStream))
	e.iterations = 0
	e.energy = 0

	nodes := g.Nodes()
	e.bodies = make([]body, len(nodes))
	e.index = make(map[string]int, len(nodes))
	for i, n := range nodes {
		e.index[n.ID] = i
	}

	side := e.opts.Spread * math.Sqrt(float64(len(nodes)))
	for i, n := range nodes {
		nb := g.Neighbors(n.ID)
		b := &e.bodies[i]
		b.id = n.ID
		b.nbrs = make([]int, 0, len(nb))
		for _, id := range nb {
			if j, ok := e.index[id]; ok && j != i {
				b.nbrs = append(b.nbrs, j)
			}
		}
		b.mass = 1 + math.Sqrt(float64(len(b.nbrs))) + e.rng.Float64()*e.opts.MassJitter
		b.radius = e.opts.RadiusFloor + e.opts.RadiusScale*math.Sqrt(b.mass)

		if p, ok := positions[n.ID]; ok && p.finite() {
			b.x, b.y = p.X, p.Y
		} else {
			b.x = (e.rng.Float64() - 0.5) * side
			b.y = (e.rng.Float64() - 0.5) * side
		}
		b.x2, b.y2 = b.x, b.y
	}
	if e.opts.RadialSeed {
		e.seedRadial(g, positions)
	}

	e.parts = graph.Components(g)
	e.comps = make([][]int, e.parts.Len())
	for c := range e.comps {
		members := e.parts.Members(c)
		idx := make([]int, len(members))
		for k, id := range members {
			idx[k] = e.index[id]
		}
		e.comps[c] = idx
	}
}

// seedRadial places the outbound neighbors of each node evenly on a ring
// around it, starting at a random angle. Nodes are visited in insertion
// order, so a node that is the target of several parents ends up on the
// ring of the last one.
func (e *Engine) seedRadial(g *graph.Graph, positions map[string]Vec) {
	for i := range e.bodies {
		parent := &e.bodies[i]
		offset := e.rng.Float64() * 2 * math.Pi

		var ring []int
		for _, id := range g.Children(parent.id) {
			j, ok := e.index[id]
			if !ok || j == i || slices.Contains(ring, j) {
				continue
			}
			ring = append(ring, j)
		}
		if len(ring) == 0 {
			continue
		}
		r := RadialBase + math.Pow(float64(len(ring)), RadialExponent)
		for k, j := range ring {
			if p, ok := positions[e.bodies[j].id]; ok && p.finite() {
				continue
			}
			a := offset + 2*math.Pi*float64(k)/float64(len(ring))
			b := &e.bodies[j]
			b.x = parent.x + r*math.Cos(a)
			b.y = parent.y + r*math.Sin(a)
			b.x2, b.y2 = b.x, b.y
		}
	}
}

// Step runs one relaxation pass and returns the committed positions.
func (e *Engine) Step(repulsion, attraction float64) Snapshot {
	if len(e.bodies) == 0 {
		return Snapshot{}
	}

	e.prev = e.prev[:0]
	for i := range e.bodies {
		e.prev = append(e.prev, Vec{e.bodies[i].x, e.bodies[i].y})
	}

	e.repel(repulsion)
	e.commit()
	e.attract(attraction)
	e.commit()
	e.center()
	e.commit()

	var moved float64
	for i := range e.bodies {
		moved += math.Hypot(e.bodies[i].x-e.prev[i].X, e.bodies[i].y-e.prev[i].Y)
	}
	e.energy = moved / float64(len(e.bodies))
	e.iterations++
	return e.Snapshot()
}

// MoveNode pins a node at (x, y) in both position buffers. Mass and
// component membership are unchanged.
func (e *Engine) MoveNode(id string, x, y float64) error {
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("move %q: %w", id, ErrUnknownNode)
	}
	if !(Vec{x, y}).finite() {
		return fmt.Errorf("move %q: %w", id, ErrInvalidPosition)
	}
	b := &e.bodies[i]
	b.x, b.y, b.x2, b.y2 = x, y, x, y
	return nil
}

// Snapshot returns a copy of the committed positions.
func (e *Engine) Snapshot() Snapshot {
	s := make(Snapshot, len(e.bodies))
	for i := range e.bodies {
		b := &e.bodies[i]
		s[i] = Position{ID: b.id, X: b.x, Y: b.y}
	}
	return s
}

// Components returns the partition computed by the last Initialize.
func (e *Engine) Components() *graph.Partition { return e.parts }

// Len returns the number of nodes.
func (e *Engine) Len() int { return len(e.bodies) }

// Iterations returns the number of steps since the last Initialize.
func (e *Engine) Iterations() int { return e.iterations }

// Energy returns the mean per-node displacement of the last step.
func (e *Engine) Energy() float64 { return e.energy }

// Mass returns a node's mass.
func (e *Engine) Mass(id string) (float64, bool) {
	i, ok := e.index[id]
	if !ok {
		return 0, false
	}
	return e.bodies[i].mass, true
}

// Radius returns a node's repulsion radius.
func (e *Engine) Radius(id string) (float64, bool) {
	i, ok := e.index[id]
	if !ok {
		return 0, false
	}
	return e.bodies[i].radius, true
}
