package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/observability"
)

// ErrClosed is returned for operations on a closed Host.
var ErrClosed = errors.New("worker: host closed")

// Layouter is the engine API shared by local and remote hosts.
type Layouter interface {
	SetGraph(ctx context.Context, g *graph.Graph, positions map[string]layout.Vec) (Stats, error)
	Step(ctx context.Context, repulsion, attraction float64) (Frame, error)
	MoveNode(ctx context.Context, id string, x, y float64) error
	Snapshot(ctx context.Context) (layout.Snapshot, error)
	Components(ctx context.Context) ([][]string, error)
}

type request struct {
	ctx   context.Context
	op    Op
	reply chan response
}

type response struct {
	val any
	err error
}

// Host owns a layout engine and applies operations to it one at a time.
type Host struct {
	engine *layout.Engine
	logger *log.Logger

	ops       chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHost creates an engine with opts and starts its goroutine. A nil
// logger uses log.Default().
func NewHost(opts layout.Options, logger *log.Logger) (*Host, error) {
	engine, err := layout.New(opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "layout options")
	}
	if logger == nil {
		logger = log.Default()
	}
	h := &Host{
		engine: engine,
		logger: logger,
		ops:    make(chan request),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.run()
	return h, nil
}

// Do applies op and returns its result: Stats for SetGraph, Frame for
// Step, nil for MoveNode, layout.Snapshot for Snapshot and [][]string for
// Components. It waits until the engine is free or ctx is done.
func (h *Host) Do(ctx context.Context, op Op) (any, error) {
	r := request{ctx: ctx, op: op, reply: make(chan response, 1)}
	select {
	case h.ops <- r:
	case <-ctx.Done():
		return nil, apperr.FromContext(ctx.Err(), "%s", op.opName())
	case <-h.quit:
		return nil, ErrClosed
	}
	// Once accepted, an op runs to completion; the engine is never left
	// half-stepped.
	resp := <-r.reply
	return resp.val, resp.err
}

// Close stops the host goroutine.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		close(h.quit)
		<-h.done
	})
	return nil
}

func (h *Host) run() {
	defer close(h.done)
	for {
		select {
		case r := <-h.ops:
			val, err := h.apply(r.ctx, r.op)
			r.reply <- response{val: val, err: err}
		case <-h.quit:
			return
		}
	}
}

func (h *Host) apply(ctx context.Context, op Op) (any, error) {
	switch op := op.(type) {
	case SetGraph:
		if op.Graph == nil {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "setGraph: nil graph")
		}
		if err := op.Graph.Validate(); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "setGraph")
		}
		h.engine.Initialize(op.Graph, op.Positions)
		stats := Stats{
			Nodes:      op.Graph.NodeCount(),
			Edges:      op.Graph.EdgeCount(),
			Components: h.engine.Components().Len(),
		}
		observability.Layout().OnGraphLoaded(ctx, stats.Nodes, stats.Edges, stats.Components)
		h.logger.Debug("graph loaded", "nodes", stats.Nodes, "edges", stats.Edges,
			"components", stats.Components, "resumed", len(op.Positions))
		return stats, nil

	case Step:
		if !finite(op.Repulsion) || !finite(op.Attraction) {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "step: non-finite strength")
		}
		start := time.Now()
		positions := h.engine.Step(op.Repulsion, op.Attraction)
		observability.Layout().OnStep(ctx, h.engine.Len(), time.Since(start), h.engine.Energy())
		return Frame{
			Iteration: h.engine.Iterations(),
			Energy:    h.engine.Energy(),
			Positions: positions,
		}, nil

	case MoveNode:
		return nil, moveError(op.ID, h.engine.MoveNode(op.ID, op.X, op.Y))

	case Snapshot:
		return h.engine.Snapshot(), nil

	case Components:
		return h.engine.Components().Groups(), nil
	}
	return nil, apperr.New(apperr.ErrCodeUnsupported, "unsupported op %T", op)
}

func moveError(id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, layout.ErrUnknownNode):
		return apperr.Wrap(apperr.ErrCodeUnknownNode, err, "unknown node %q", id)
	case errors.Is(err, layout.ErrInvalidPosition):
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid position for %q", id)
	}
	return fmt.Errorf("move %s: %w", id, err)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// =============================================================================
// Layouter
// =============================================================================

// SetGraph loads g.
func (h *Host) SetGraph(ctx context.Context, g *graph.Graph, positions map[string]layout.Vec) (Stats, error) {
	v, err := h.Do(ctx, SetGraph{Graph: g, Positions: positions})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

// Step runs one relaxation pass.
func (h *Host) Step(ctx context.Context, repulsion, attraction float64) (Frame, error) {
	v, err := h.Do(ctx, Step{Repulsion: repulsion, Attraction: attraction})
	if err != nil {
		return Frame{}, err
	}
	return v.(Frame), nil
}

// MoveNode pins id at (x, y).
func (h *Host) MoveNode(ctx context.Context, id string, x, y float64) error {
	_, err := h.Do(ctx, MoveNode{ID: id, X: x, Y: y})
	return err
}

// Snapshot returns the current positions.
func (h *Host) Snapshot(ctx context.Context) (layout.Snapshot, error) {
	v, err := h.Do(ctx, Snapshot{})
	if err != nil {
		return nil, err
	}
	return v.(layout.Snapshot), nil
}

// Components returns the connected components of the loaded graph.
func (h *Host) Components(ctx context.Context) ([][]string, error) {
	v, err := h.Do(ctx, Components{})
	if err != nil {
		return nil, err
	}
	return v.([][]string), nil
}

var _ Layouter = (*Host)(nil)
