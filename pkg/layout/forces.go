package layout

import (
	"math"

	"github.com/matzehuels/wikigraph/pkg/quadtree"
)

// =============================================================================
// Phases
// =============================================================================

// repel pushes each node away from the others inside its repulsion radius.
func (e *Engine) repel(strength float64) {
	if strength == 0 {
		return
	}
	e.points = e.points[:0]
	for i := range e.bodies {
		e.points = append(e.points, quadtree.Point{Index: i, X: e.bodies[i].x, Y: e.bodies[i].y})
	}
	root := quadtree.Build(e.points, quadtree.BoundsOf(e.points), e.opts.MaxPoints, e.opts.MaxDepth)

	for i := range e.bodies {
		b := &e.bodies[i]
		root.Search(quadtree.Around(b.x, b.y, b.radius), func(p quadtree.Point) bool {
			if p.Index == i {
				return true
			}
			o := &e.bodies[p.Index]
			dx, dy := b.x-o.x, b.y-o.y
			d := math.Hypot(dx, dy)
			if d == 0 || d > b.radius {
				return true
			}
			f := math.Min(e.opts.MaxForce, e.opts.ForceScale*o.mass/d) * strength
			ux, uy := dx/d, dy/d
			t := (e.rng.Float64() - 0.5) * e.opts.Tangential * f
			e.displace(b, (ux*f-uy*t)/b.mass, (uy*f+ux*t)/b.mass)
			return true
		})
	}
}

// attract pulls each node toward neighbors outside its repulsion radius.
// The step never carries a node inside that radius.
func (e *Engine) attract(strength float64) {
	if strength == 0 {
		return
	}
	for i := range e.bodies {
		b := &e.bodies[i]
		share := strength / float64(len(b.nbrs)+1)
		for _, j := range b.nbrs {
			o := &e.bodies[j]
			dx, dy := o.x-b.x, o.y-b.y
			d := math.Hypot(dx, dy)
			if d <= b.radius {
				continue
			}
			f := math.Min(math.Sqrt(d)*share, d-b.radius)
			e.displace(b, dx/d*f, dy/d*f)
		}
	}
}

// center pulls members of multi-node components toward their centroid.
func (e *Engine) center() {
	for _, members := range e.comps {
		if len(members) < 2 {
			continue
		}
		var cx, cy float64
		for _, i := range members {
			cx += e.bodies[i].x
			cy += e.bodies[i].y
		}
		cx /= float64(len(members))
		cy /= float64(len(members))

		for _, i := range members {
			b := &e.bodies[i]
			dx, dy := cx-b.x, cy-b.y
			d := math.Hypot(dx, dy)
			if d <= e.opts.CenteringEpsilon {
				continue
			}
			f := math.Min(e.opts.CenteringStrength*math.Sqrt(d), d)
			e.displace(b, dx/d*f, dy/d*f)
		}
	}
}

// displace adds (dx, dy) to the next-position buffer. Non-finite
// displacements are dropped.
func (e *Engine) displace(b *body, dx, dy float64) {
	if !(Vec{dx, dy}).finite() {
		return
	}
	b.x2 += dx
	b.y2 += dy
}

// commit publishes the next-position buffer.
func (e *Engine) commit() {
	for i := range e.bodies {
		b := &e.bodies[i]
		b.x, b.y = b.x2, b.y2
	}
}
