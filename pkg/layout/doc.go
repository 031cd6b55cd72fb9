// Package layout implements the incremental force-directed layout engine.
//
// # Engine
//
// An [Engine] is an explicit handle owning all per-node state of one
// loaded graph: positions, a secondary position buffer, mass and the
// cached component partition. It is not safe for concurrent use; the
// owner (usually a worker.Host) serializes every call.
//
//	e, _ := layout.New(layout.Options{Seed: 7})
//	e.Initialize(g, nil)
//	for i := 0; i < 100; i++ {
//	    snap := e.Step(1, 1)
//	    _ = snap // hand to a renderer
//	}
//
// # Step
//
// Each [Engine.Step] runs three phases, committing the secondary buffer
// into the primary positions after each one so that no phase observes a
// partial write from itself or a later phase:
//
//  1. Repulsion. A quadtree is rebuilt over current positions and each
//     node is pushed away from every other node inside its repulsion
//     radius. The radius grows with the square root of mass and never
//     falls below Options.RadiusFloor. Pair forces are clamped and
//     coincident pairs are skipped.
//  2. Attraction. Each node moves toward neighbors (inbound and outbound)
//     that lie beyond its repulsion radius, by a step proportional to
//     the square root of the distance divided by neighbor count + 1.
//  3. Centering. Members of multi-node components drift toward their
//     component centroid, which stops disconnected clusters from
//     separating forever under repulsion.
//
// # Determinism
//
// All randomness comes from a PCG generator seeded by Options.Seed and
// reseeded on every [Engine.Initialize]. The same graph, positions, seed
// and call sequence always produce identical snapshots.
//
// # Smoothing
//
// [Smoother] is the consumer-side helper that eases displayed positions
// toward the latest snapshot instead of jumping.
package layout
