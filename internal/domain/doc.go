// Package domain defines the live attributed graph: a Graph owning Nodes and
// Edges, each carrying an attribute store.
//
// # Core Types
//
// Element is the identity and attribute store shared by every graph member.
// Attribute mutations on an Element are broadcast through the owning Graph.
//
// Node represents a vertex. Its degree and neighbours are derived from the
// graph's incidence index.
//
// Edge joins two nodes, directed or not. Several edges may join the same pair
// (multigraph).
//
// Graph is the only mutator of its topology. It embeds a stream.Source, so
// every successful mutation is dispatched to the registered sinks in the
// order it was applied.
//
// # Strictness
//
// Strict graphs (the default) reject duplicate adds and missing removals
// with an IdentityError. Non-strict graphs treat both as no-ops. An edge to a
// missing node is always an EndpointError.
//
// # Replicas
//
// A Graph is also a stream.Sink. Registered on another graph, directly or
// through a pipe, it applies the incoming events and re-dispatches them with
// their original origin.
package domain
