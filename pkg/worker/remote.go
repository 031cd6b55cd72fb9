package worker

import (
	"context"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/rpc"
)

// Tag is the rpc discriminator for layout operations.
const Tag = "wikigraph.layout"

// SetGraphArgs is the wire form of SetGraph.
type SetGraphArgs struct {
	Graph     graph.Document        `json:"graph"`
	Positions map[string]layout.Vec `json:"positions,omitempty"`
}

// The rpc methods served by NewMux.
var (
	MethodSetGraph   = rpc.Method[SetGraphArgs, Stats]{Name: SetGraph{}.opName()}
	MethodStep       = rpc.Method[Step, Frame]{Name: Step{}.opName()}
	MethodMoveNode   = rpc.Method[MoveNode, struct{}]{Name: MoveNode{}.opName()}
	MethodSnapshot   = rpc.Method[struct{}, layout.Snapshot]{Name: Snapshot{}.opName()}
	MethodComponents = rpc.Method[struct{}, [][]string]{Name: Components{}.opName()}
)

// NewMux exposes l as rpc methods.
func NewMux(l Layouter) *rpc.Mux {
	mux := rpc.NewMux()
	rpc.Handle(mux, MethodSetGraph.Name, func(ctx context.Context, args SetGraphArgs) (Stats, error) {
		g, err := graph.FromDocument(args.Graph)
		if err != nil {
			return Stats{}, apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "decode graph")
		}
		return l.SetGraph(ctx, g, args.Positions)
	})
	rpc.Handle(mux, MethodStep.Name, func(ctx context.Context, s Step) (Frame, error) {
		return l.Step(ctx, s.Repulsion, s.Attraction)
	})
	rpc.Handle(mux, MethodMoveNode.Name, func(ctx context.Context, m MoveNode) (struct{}, error) {
		return struct{}{}, l.MoveNode(ctx, m.ID, m.X, m.Y)
	})
	rpc.Handle(mux, MethodSnapshot.Name, func(ctx context.Context, _ struct{}) (layout.Snapshot, error) {
		return l.Snapshot(ctx)
	})
	rpc.Handle(mux, MethodComponents.Name, func(ctx context.Context, _ struct{}) ([][]string, error) {
		return l.Components(ctx)
	})
	return mux
}

// Client is a Layouter backed by a remote host.
type Client struct {
	c *rpc.Client
}

// NewClient wraps an rpc client connected with Tag.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

// SetGraph sends g to the remote host.
func (c *Client) SetGraph(ctx context.Context, g *graph.Graph, positions map[string]layout.Vec) (Stats, error) {
	return rpc.Invoke(ctx, c.c, MethodSetGraph, SetGraphArgs{Graph: graph.ToDocument(g), Positions: positions})
}

// Step runs one remote relaxation pass.
func (c *Client) Step(ctx context.Context, repulsion, attraction float64) (Frame, error) {
	return rpc.Invoke(ctx, c.c, MethodStep, Step{Repulsion: repulsion, Attraction: attraction})
}

// MoveNode pins a node on the remote host.
func (c *Client) MoveNode(ctx context.Context, id string, x, y float64) error {
	_, err := rpc.Invoke(ctx, c.c, MethodMoveNode, MoveNode{ID: id, X: x, Y: y})
	return err
}

// Snapshot fetches the remote positions.
func (c *Client) Snapshot(ctx context.Context) (layout.Snapshot, error) {
	return rpc.Invoke(ctx, c.c, MethodSnapshot, struct{}{})
}

// Components fetches the remote components.
func (c *Client) Components(ctx context.Context) ([][]string, error) {
	return rpc.Invoke(ctx, c.c, MethodComponents, struct{}{})
}

var _ Layouter = (*Client)(nil)
