package quadtree

import "math"

// Point is an indexed 2-D point. Index is opaque to the tree and usually
// refers back into the caller's own slice.
type Point struct {
	Index int
	X, Y  float64
}

// Box is an axis-aligned rectangle with X1 <= X2 and Y1 <= Y2.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Around returns the square of half-width r centered on (x, y).
func Around(x, y, r float64) Box {
	return Box{X1: x - r, Y1: y - r, X2: x + r, Y2: y + r}
}

// Intersects reports whether b and o overlap on both axes. Touching edges
// count as overlap.
func (b Box) Intersects(o Box) bool {
	return overlaps(b.X1, b.X2, o.X1, o.X2) && overlaps(b.Y1, b.Y2, o.Y1, o.Y2)
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

func overlaps(aLo, aHi, bLo, bHi float64) bool {
	return !(aHi < bLo || bHi < aLo)
}

// quarter splits b at its midpoint into the four child boxes in quadrant
// order: low-x/low-y, high-x/low-y, low-x/high-y, high-x/high-y.
func (b Box) quarter() (mx, my float64, q [4]Box) {
	mx = (b.X1 + b.X2) / 2
	my = (b.Y1 + b.Y2) / 2
	q[0] = Box{b.X1, b.Y1, mx, my}
	q[1] = Box{mx, b.Y1, b.X2, my}
	q[2] = Box{b.X1, my, mx, b.Y2}
	q[3] = Box{mx, my, b.X2, b.Y2}
	return mx, my, q
}

// BoundsOf returns a box enclosing every point, padded by one unit on each
// side so that no extent is degenerate. An empty slice yields the unit box
// around the origin.
func BoundsOf(points []Point) Box {
	if len(points) == 0 {
		return Box{-1, -1, 1, 1}
	}
	b := Box{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		b.X1 = math.Min(b.X1, p.X)
		b.Y1 = math.Min(b.Y1, p.Y)
		b.X2 = math.Max(b.X2, p.X)
		b.Y2 = math.Max(b.Y2, p.Y)
	}
	b.X1--
	b.Y1--
	b.X2++
	b.Y2++
	return b
}

// Node is one box of a built tree. A node is a leaf when it has no
// children; leaves own their points, internal nodes own none.
type Node struct {
	Box      Box
	Points   []Point
	Children []*Node
}

// Build constructs a tree over points rooted at box. The root box is grown
// to enclose any point that falls outside it, so every point stays
// reachable by a query over its position.
//
// The input slice is not retained; each leaf owns a fresh slice.
func Build(points []Point, box Box, maxPoints, maxDepth int) *Node {
	if maxPoints < 1 {
		maxPoints = 1
	}
	for _, p := range points {
		box = box.extend(p.X, p.Y)
	}
	return build(points, box, maxPoints, maxDepth)
}

// extend returns the smallest box containing b and (x, y).
func (b Box) extend(x, y float64) Box {
	return Box{math.Min(b.X1, x), math.Min(b.Y1, y), math.Max(b.X2, x), math.Max(b.Y2, y)}
}

func build(points []Point, box Box, maxPoints, depth int) *Node {
	n := &Node{Box: box}
	if depth <= 0 || len(points) <= maxPoints {
		n.Points = append([]Point(nil), points...)
		return n
	}

	mx, my, boxes := box.quarter()
	var buckets [4][]Point
	for _, p := range points {
		i := 0
		if p.X > mx {
			i++
		}
		if p.Y > my {
			i += 2
		}
		buckets[i] = append(buckets[i], p)
	}

	n.Children = make([]*Node, 4)
	for i := range boxes {
		n.Children[i] = build(buckets[i], boxes[i], maxPoints, depth-1)
	}
	return n
}

// IsLeaf reports whether n holds points directly.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Search calls fn for every point in every leaf whose box intersects q.
// Returning false from fn stops the walk early.
func (n *Node) Search(q Box, fn func(Point) bool) {
	n.search(q, fn)
}

func (n *Node) search(q Box, fn func(Point) bool) bool {
	if !n.Box.Intersects(q) {
		return true
	}
	if n.IsLeaf() {
		for _, p := range n.Points {
			if !fn(p) {
				return false
			}
		}
		return true
	}
	for _, c := range n.Children {
		if !c.search(q, fn) {
			return false
		}
	}
	return true
}

// Query returns the points of every leaf intersecting q.
func (n *Node) Query(q Box) []Point {
	var out []Point
	n.Search(q, func(p Point) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Len returns the number of points stored under n.
func (n *Node) Len() int {
	if n.IsLeaf() {
		return len(n.Points)
	}
	total := 0
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// Depth returns the height of the subtree rooted at n; a leaf has depth 0.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		d = max(d, c.Depth()+1)
	}
	return d
}
