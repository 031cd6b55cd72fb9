package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/wikigraph/pkg/layout"
)

func TestWatchModelRecordsSamples(t *testing.T) {
	m := newWatchModel(context.Background(), "test", nil, time.Second)
	t0 := time.Unix(100, 0)

	next, cmd := m.Update(statsMsg{stats: watchStats{Nodes: 4, Components: 2, Steps: 10, Iteration: 10, Energy: 8}, at: t0})
	if cmd == nil {
		t.Fatal("a sample should schedule the next tick")
	}
	next, _ = next.Update(statsMsg{stats: watchStats{
		Nodes: 4, Components: 2, Steps: 30, Iteration: 30, Energy: 2,
		Lo: layout.Vec{X: -50, Y: -10}, Hi: layout.Vec{X: 50, Y: 30},
	}, at: t0.Add(2 * time.Second)})

	wm := next.(WatchModel)
	if wm.rate != 10 {
		t.Errorf("rate = %v, want 10 steps/s", wm.rate)
	}
	if len(wm.energies) != 2 {
		t.Errorf("energy history has %d samples, want 2", len(wm.energies))
	}

	view := wm.View()
	for _, want := range []string{"test", "Nodes", "Components", "10.0", "100 × 40", "energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWatchModelKeepsLastSampleOnError(t *testing.T) {
	m := newWatchModel(context.Background(), "test", nil, time.Second)
	next, _ := m.Update(statsMsg{stats: watchStats{Nodes: 4}, at: time.Now()})
	next, _ = next.Update(statsMsg{err: errors.New("rpc: closed"), at: time.Now()})

	wm := next.(WatchModel)
	if wm.stats.Nodes != 4 {
		t.Errorf("nodes = %d, want last good sample", wm.stats.Nodes)
	}
	if !strings.Contains(wm.View(), "rpc: closed") {
		t.Error("view should show the sampling error")
	}
}

func TestWatchModelFetch(t *testing.T) {
	source := func(context.Context) (watchStats, error) { return watchStats{Nodes: 7}, nil }
	m := newWatchModel(context.Background(), "test", source, time.Second)

	msg := m.Init()()
	sm, ok := msg.(statsMsg)
	if !ok || sm.stats.Nodes != 7 {
		t.Fatalf("Init fetched %#v", msg)
	}
	if _, cmd := m.Update(tickMsg(time.Now())); cmd == nil {
		t.Error("a tick should trigger a fetch")
	}
}

func TestWatchModelQuit(t *testing.T) {
	m := newWatchModel(context.Background(), "test", nil, time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{nil, ""},
		{[]float64{1, 1, 1}, "▁▁▁"},
		{[]float64{0, 7}, "▁█"},
		{[]float64{3, 2, 1, 0}, "█▅▃▁"},
	}
	for _, tt := range tests {
		if got := sparkline(tt.in); got != tt.want {
			t.Errorf("sparkline(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
