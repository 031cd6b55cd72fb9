// Package worker hosts a layout engine behind a serialized call path.
//
// A [Host] owns one layout.Engine on its own goroutine. Every operation is
// an [Op] value sent to that goroutine, so the engine is never touched by
// two callers at once and needs no locks. The same operations are
// available remotely: [NewMux] exposes any [Layouter] as rpc methods and
// [Client] calls them, itself implementing Layouter.
//
//	host, _ := worker.NewHost(layout.Options{Seed: 1}, logger)
//	defer host.Close()
//
//	_, _ = host.SetGraph(ctx, g, nil)
//	frame, _ := host.Step(ctx, 1, 1)
//
// An [Animator] drives a Layouter the way an interactive view does: one
// step in flight at a time, results eased in through a layout.Smoother,
// drags routed through the same Layouter.
//
// [Checkpointer] saves the current positions to a cache.Cache under the
// graph's content hash and [Resume] reads them back.
package worker
