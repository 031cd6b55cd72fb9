// Package graph holds the directed link graph consumed by the layout engine.
//
// # Model
//
// A [Graph] is a set of uniquely identified nodes plus directed edges that
// reference only existing nodes. Node order is insertion order and is the
// iteration order everywhere in this module, which keeps layouts
// reproducible for a fixed seed.
//
// For layout purposes a node's neighbors are the union of its inbound and
// outbound adjacency ([Graph.Neighbors]).
//
// # Components
//
// [Components] partitions the nodes into weakly connected components:
// two nodes share a component iff an undirected path joins them.
//
// # Serialization
//
// Two input formats are supported:
//
//   - The node/edge document read by [ReadGraphFile]:
//     {"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}
//   - The link map read by [ReadLinkMapFile], keyed by page URL:
//     {"http://host/a":{"links":["/b"],"children":[]}}
package graph
