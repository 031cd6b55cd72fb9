// Package quadtree provides a bounded-depth point quadtree for coarse
// axis-aligned range queries.
//
// # Overview
//
// A tree is built once from a point set and never mutated. Each internal
// node quarters its box at the midpoint; a point goes to quadrant
//
//	(x > midX ? 1 : 0) + (y > midY ? 2 : 0)
//
// so points lying exactly on a split line fall into the lower quadrant on
// that axis. Subdivision stops when a box holds at most maxPoints points or
// the depth budget is spent.
//
// # Queries
//
// [Node.Query] and [Node.Search] visit every leaf whose box intersects the
// query box and report all of that leaf's points. The result is a superset
// of the exact range result: callers filter by true distance.
//
//	root := quadtree.Build(points, quadtree.BoundsOf(points), 16, 12)
//	for _, p := range root.Query(quadtree.Around(x, y, r)) {
//	    // check math.Hypot(p.X-x, p.Y-y) <= r
//	}
package quadtree
