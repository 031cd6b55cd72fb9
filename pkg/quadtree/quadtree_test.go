package quadtree

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBuildQuadrantAssignment(t *testing.T) {
	box := Box{0, 0, 10, 10}
	tests := []struct {
		name  string
		point Point
		want  int
	}{
		{"low x low y", Point{Index: 0, X: 1, Y: 1}, 0},
		{"high x low y", Point{Index: 0, X: 9, Y: 1}, 1},
		{"low x high y", Point{Index: 0, X: 1, Y: 9}, 2},
		{"high x high y", Point{Index: 0, X: 9, Y: 9}, 3},
		{"tie on x goes low", Point{Index: 0, X: 5, Y: 1}, 0},
		{"tie on y goes low", Point{Index: 0, X: 9, Y: 5}, 1},
		{"tie on both goes low", Point{Index: 0, X: 5, Y: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Two filler points force a split with maxPoints=2.
			pts := []Point{tt.point, {Index: 1, X: 0, Y: 0}, {Index: 2, X: 10, Y: 10}}
			root := Build(pts, box, 2, 1)
			if root.IsLeaf() {
				t.Fatal("expected root to split")
			}
			found := false
			for _, p := range root.Children[tt.want].Points {
				if p.Index == 0 {
					found = true
				}
			}
			if !found {
				t.Errorf("point %+v not in quadrant %d", tt.point, tt.want)
			}
		})
	}
}

func TestBuildStopsAtLimits(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		maxPoints int
		maxDepth  int
		wantLeaf  bool
		wantDepth int
	}{
		{"empty", 0, 4, 8, true, 0},
		{"under capacity", 4, 4, 8, true, 0},
		{"zero depth budget", 100, 4, 0, true, 0},
		{"depth bounded", 100, 1, 3, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := make([]Point, tt.n)
			for i := range pts {
				// All coincident: only the depth limit can stop subdivision.
				pts[i] = Point{Index: i, X: 1, Y: 1}
			}
			root := Build(pts, Box{0, 0, 8, 8}, tt.maxPoints, tt.maxDepth)
			if root.IsLeaf() != tt.wantLeaf {
				t.Errorf("IsLeaf = %v, want %v", root.IsLeaf(), tt.wantLeaf)
			}
			if got := root.Depth(); got != tt.wantDepth {
				t.Errorf("Depth = %d, want %d", got, tt.wantDepth)
			}
			if got := root.Len(); got != tt.n {
				t.Errorf("Len = %d, want %d", got, tt.n)
			}
		})
	}
}

func TestQueryOutsideRoot(t *testing.T) {
	pts := []Point{{0, 1, 1}, {1, 2, 2}, {2, 3, 3}}
	root := Build(pts, Box{0, 0, 4, 4}, 1, 4)
	if got := root.Query(Box{10, 10, 20, 20}); len(got) != 0 {
		t.Errorf("Query outside root returned %d points, want 0", len(got))
	}
}

func TestBuildGrowsRootToCoverPoints(t *testing.T) {
	pts := []Point{{0, 5, 5}, {1, 0.2, 0.2}}
	root := Build(pts, Box{0, 0, 1, 1}, 1, 4)
	if !root.Box.Contains(5, 5) {
		t.Fatalf("root box %+v does not cover (5,5)", root.Box)
	}
	got := root.Query(Box{4, 4, 6, 6})
	if len(got) != 1 || got[0].Index != 0 {
		t.Errorf("Query around outlier = %+v, want point 0", got)
	}
}

func TestSearchStopsEarly(t *testing.T) {
	pts := make([]Point, 50)
	for i := range pts {
		pts[i] = Point{Index: i, X: float64(i), Y: float64(i)}
	}
	root := Build(pts, BoundsOf(pts), 4, 8)

	visited := 0
	root.Search(BoundsOf(pts), func(Point) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("visited = %d, want 3", visited)
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Point{{0, 5, 5}})
	if b.X2-b.X1 <= 0 || b.Y2-b.Y1 <= 0 {
		t.Errorf("BoundsOf single point is degenerate: %+v", b)
	}
	if !b.Contains(5, 5) {
		t.Errorf("BoundsOf does not contain its point: %+v", b)
	}
}

// Every point truly inside the query box must be reported.
func TestQueryIsSupersetOfBruteForce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("query never misses an in-range point", prop.ForAll(
		func(xs, ys []float64, cx, cy, r float64, maxPoints int) bool {
			pts := make([]Point, len(xs))
			for i := range xs {
				pts[i] = Point{Index: i, X: xs[i], Y: ys[i]}
			}
			root := Build(pts, BoundsOf(pts), maxPoints, 10)

			q := Around(cx, cy, r)
			got := make(map[int]bool)
			for _, p := range root.Query(q) {
				got[p.Index] = true
			}
			for _, p := range pts {
				if q.Contains(p.X, p.Y) && !got[p.Index] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(80, gen.Float64Range(-500, 500)),
		gen.SliceOfN(80, gen.Float64Range(-500, 500)),
		gen.Float64Range(-600, 600),
		gen.Float64Range(-600, 600),
		gen.Float64Range(0, 300),
		gen.IntRange(1, 12),
	))

	properties.Property("every point lands in exactly one leaf", prop.ForAll(
		func(xs, ys []float64) bool {
			pts := make([]Point, len(xs))
			for i := range xs {
				pts[i] = Point{Index: i, X: xs[i], Y: ys[i]}
			}
			root := Build(pts, BoundsOf(pts), 3, 12)
			seen := make(map[int]int)
			var walk func(n *Node)
			walk = func(n *Node) {
				for _, p := range n.Points {
					seen[p.Index]++
				}
				for _, c := range n.Children {
					walk(c)
				}
			}
			walk(root)
			for i := range pts {
				if seen[i] != 1 {
					return false
				}
			}
			return len(seen) == len(pts)
		},
		gen.SliceOfN(60, gen.Float64Range(-50, 50)),
		gen.SliceOfN(60, gen.Float64Range(-50, 50)),
	))

	properties.TestingRun(t)
}
