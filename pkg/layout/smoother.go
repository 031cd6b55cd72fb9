package layout

// Smoother eases displayed positions toward the most recent snapshot, so a
// viewer sees continuous motion rather than discrete steps.
//
// Smoother is not safe for concurrent use.
type Smoother struct {
	order   []string
	target  map[string]Vec
	display map[string]Vec
}

// NewSmoother creates an empty smoother.
func NewSmoother() *Smoother {
	return &Smoother{
		target:  make(map[string]Vec),
		display: make(map[string]Vec),
	}
}

// SetTarget replaces the target positions. Nodes seen for the first time
// are displayed at their target immediately; nodes absent from s are
// dropped.
func (m *Smoother) SetTarget(s Snapshot) {
	m.order = m.order[:0]
	next := make(map[string]Vec, len(s))
	for _, p := range s {
		m.order = append(m.order, p.ID)
		next[p.ID] = Vec{p.X, p.Y}
		if _, ok := m.display[p.ID]; !ok {
			m.display[p.ID] = Vec{p.X, p.Y}
		}
	}
	for id := range m.display {
		if _, ok := next[id]; !ok {
			delete(m.display, id)
		}
	}
	m.target = next
}

// Advance moves every displayed position a fraction alpha of the way to its
// target and returns the result. Alpha is clamped to [0, 1].
func (m *Smoother) Advance(alpha float64) Snapshot {
	alpha = min(max(alpha, 0), 1)
	out := make(Snapshot, 0, len(m.order))
	for _, id := range m.order {
		t, d := m.target[id], m.display[id]
		d.X += (t.X - d.X) * alpha
		d.Y += (t.Y - d.Y) * alpha
		m.display[id] = d
		out = append(out, Position{ID: id, X: d.X, Y: d.Y})
	}
	return out
}

// Current returns the displayed positions without advancing.
func (m *Smoother) Current() Snapshot {
	return m.Advance(0)
}

// Pin sets both the target and displayed position of id, as when the user
// drags a node. Unknown IDs are ignored.
func (m *Smoother) Pin(id string, x, y float64) {
	if _, ok := m.target[id]; !ok {
		return
	}
	m.target[id] = Vec{x, y}
	m.display[id] = Vec{x, y}
}
