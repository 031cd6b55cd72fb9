// Package pkg provides the core libraries for wikigraph force-directed layout.
//
// # Overview
//
// Wikigraph positions the pages of a link graph in the plane so that linked
// pages sit near each other and unrelated pages spread apart. The pkg
// directory is organized into four main areas:
//
//  1. Engine - graph model, spatial index and the layout engine
//  2. Offload - running the engine behind a request/response channel
//  3. Infrastructure - checkpoints, rate limiting, configuration, metrics
//  4. Surfaces - HTTP/websocket server and file watching
//
// # Architecture
//
// The typical data flow through wikigraph:
//
//	Graph file (node/edge JSON or link map)
//	         ↓
//	    [graph] package (nodes, edges, connected components)
//	         ↓
//	    [worker] package (engine host, optionally behind [rpc])
//	         ↓
//	    [layout] package (quadtree repulsion + attraction + centering)
//	         ↓
//	    Snapshot [{id,x,y}] served at /api/frame or written to a file
//
// # Quick Start
//
// Lay out a graph in-process:
//
//	import (
//	    "github.com/matzehuels/wikigraph/pkg/graph"
//	    "github.com/matzehuels/wikigraph/pkg/layout"
//	)
//
//	g, _ := graph.ReadFile("pages.json", graph.LinkMapOptions{})
//	e, _ := layout.New(layout.Options{Seed: 1})
//	e.Initialize(g, nil)
//	for i := 0; i < 300; i++ {
//	    e.Step(1, 1)
//	}
//	positions := e.Snapshot()
//
// # Main Packages
//
// ## Engine
//
// [quadtree] - Region quadtree over node positions answering "every point
// within a circle" queries. Rebuilt once per step.
//
// [graph] - Directed graph with undirected neighbor lookup, connected
// component partition, and readers for node/edge JSON and link maps.
//
// [layout] - The force-directed engine: per-node mass and radius, repulsion
// through the quadtree, attraction along edges, pull toward each
// component's centroid. Also the [layout.Smoother] used for animation.
//
// ## Offload
//
// [rpc] - Tagged request/response channel with correlation ids over an
// in-process pipe, a websocket, or Redis pub/sub.
//
// [worker] - Engine host that serializes operations on one goroutine, its
// rpc binding, the animation loop and checkpointing.
//
// ## Infrastructure
//
// [throttle] - Scheduler enforcing a concurrency cap and sliding-window rate
// limits, with a bounded queue.
//
// [cache] - Checkpoint storage with file, Redis and MongoDB backends.
//
// [config] - TOML configuration with .env and environment overrides.
//
// [observability] - Event hooks and their Prometheus implementation.
//
// [errors] - Coded errors that survive a process boundary.
//
// ## Surfaces
//
// [server] - chi router exposing frames, snapshots, drag and graph upload,
// the websocket rpc endpoint and /metrics.
//
// [watch] - Debounced reload of a graph file.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -short ./pkg/...             # Skip the slow scheduler runs
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests run when WIKIGRAPH_TEST_REDIS_URL or
// WIKIGRAPH_TEST_MONGO_URI is set.
package pkg
