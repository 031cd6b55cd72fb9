package layout

import "testing"

func TestSmootherAdvance(t *testing.T) {
	m := NewSmoother()
	m.SetTarget(Snapshot{{ID: "a", X: 0, Y: 0}})
	m.SetTarget(Snapshot{{ID: "a", X: 10, Y: -10}, {ID: "b", X: 5, Y: 5}})

	tests := []struct {
		name  string
		alpha float64
		wantA Vec
	}{
		{"half way", 0.5, Vec{5, -5}},
		{"half again", 0.5, Vec{7.5, -7.5}},
		{"clamped", 3, Vec{10, -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Advance(tt.alpha).Positions()
			if got["a"] != tt.wantA {
				t.Errorf("a = %+v, want %+v", got["a"], tt.wantA)
			}
			// b appeared with the second target and starts there.
			if got["b"] != (Vec{5, 5}) {
				t.Errorf("b = %+v, want (5,5)", got["b"])
			}
		})
	}
}

func TestSmootherDropsAndPins(t *testing.T) {
	m := NewSmoother()
	m.SetTarget(Snapshot{{ID: "a"}, {ID: "b"}})
	m.SetTarget(Snapshot{{ID: "b", X: 1}})
	if got := m.Current(); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Current = %+v, want only b", got)
	}

	m.Pin("b", 40, 40)
	if got := m.Current()[0]; got.X != 40 || got.Y != 40 {
		t.Errorf("pinned b = %+v", got)
	}
	m.Pin("zzz", 1, 1)
	if len(m.Current()) != 1 {
		t.Error("Pin on unknown id should be ignored")
	}
}
