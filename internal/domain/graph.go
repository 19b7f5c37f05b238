package domain

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"graphsync/internal/stream"
)

// Option configures a Graph
type Option func(*Graph)

// WithStrict selects strict mode (the default), where adding an existing
// element or removing a missing one is an error. Non-strict graphs turn both
// into silent no-ops, which is what a graph mirrored in both directions
// needs when one side replays a change it already holds.
func WithStrict(strict bool) Option {
	return func(g *Graph) {
		g.strict = strict
	}
}

// Graph owns nodes, edges and its own attributes and is the only mutator of
// its topology. Every mutation is applied locally, then dispatched to the
// registered sinks on the calling goroutine. A Graph is not safe for
// concurrent use; share it across goroutines through a pipe.
type Graph struct {
	stream.Source
	Element

	nodes    *linkedhashmap.Map // id -> *Node, insertion ordered
	edges    *linkedhashmap.Map // id -> *Edge, insertion ordered
	incident map[string]mapset.Set[string]

	step     float64
	strict   bool
	clock    uint64
	rejected int
}

// New creates an empty graph. An empty id gets a random one.
func New(id string, opts ...Option) *Graph {
	if id == "" {
		id = uuid.NewString()
	}
	g := &Graph{
		nodes:    linkedhashmap.New(),
		edges:    linkedhashmap.New(),
		incident: make(map[string]mapset.Set[string]),
		strict:   true,
	}
	g.Element = newElement(id, stream.ElementGraph, g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strict reports whether identity errors are fatal
func (g *Graph) Strict() bool {
	return g.strict
}

// Step returns the timestamp of the last step marker
func (g *Graph) Step() float64 {
	return g.step
}

// Rejected returns how many replayed events this graph failed to apply
func (g *Graph) Rejected() int {
	return g.rejected
}

// stamp returns o unchanged for replayed events and a fresh local origin
// for mutations issued on this graph.
func (g *Graph) stamp(o stream.Origin) stream.Origin {
	if o.Source != "" {
		return o
	}
	g.clock++
	return stream.Origin{Source: g.id, Time: g.clock}
}

// Node returns the node with the given id, or nil
func (g *Graph) Node(id string) *Node {
	v, ok := g.nodes.Get(id)
	if !ok {
		return nil
	}
	return v.(*Node)
}

// Edge returns the edge with the given id, or nil
func (g *Graph) Edge(id string) *Edge {
	v, ok := g.edges.Get(id)
	if !ok {
		return nil
	}
	return v.(*Edge)
}

// Nodes returns the nodes in insertion order
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, g.nodes.Size())
	it := g.nodes.Iterator()
	for it.Next() {
		nodes = append(nodes, it.Value().(*Node))
	}
	return nodes
}

// Edges returns the edges in insertion order
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, g.edges.Size())
	it := g.edges.Iterator()
	for it.Next() {
		edges = append(edges, it.Value().(*Edge))
	}
	return edges
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return g.nodes.Size()
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return g.edges.Size()
}

// AddNode creates a node. In non-strict mode adding an existing id returns
// the existing node and dispatches nothing.
func (g *Graph) AddNode(id string) (*Node, error) {
	return g.addNode(stream.Origin{}, id)
}

// AddEdge creates an edge between two existing nodes. Several edges may
// join the same pair of nodes.
func (g *Graph) AddEdge(id, from, to string, directed bool) (*Edge, error) {
	return g.addEdge(stream.Origin{}, id, from, to, directed)
}

// RemoveNode removes a node after removing its incident edges; one
// edge_removed event per edge, ordered by edge id, precedes the
// node_removed event.
func (g *Graph) RemoveNode(id string) error {
	return g.removeNode(stream.Origin{}, id)
}

// RemoveEdge removes an edge
func (g *Graph) RemoveEdge(id string) error {
	return g.removeEdge(stream.Origin{}, id)
}

// Clear removes every node, edge and graph attribute and dispatches a
// single graph_cleared event.
func (g *Graph) Clear() {
	g.clear(stream.Origin{})
}

// BeginStep records a step marker and dispatches it as step_begins. Steps
// may repeat but not go back: a regression is a StepError in strict mode and
// ignored otherwise.
func (g *Graph) BeginStep(step float64) error {
	return g.stepBegins(stream.Origin{}, step)
}

func (g *Graph) addNode(o stream.Origin, id string) (*Node, error) {
	if id == "" {
		return nil, errors.WithStack(ErrEmptyID)
	}
	if existing := g.Node(id); existing != nil {
		if g.strict {
			return nil, duplicate(stream.ElementNode, id)
		}
		return existing, nil
	}

	n := newNode(id, g)
	g.nodes.Put(id, n)
	g.Dispatch(stream.Event{
		Type:    stream.EventNodeAdded,
		Origin:  g.stamp(o),
		Element: stream.ElementNode,
		ID:      id,
	})
	return n, nil
}

func (g *Graph) addEdge(o stream.Origin, id, from, to string, directed bool) (*Edge, error) {
	if id == "" {
		return nil, errors.WithStack(ErrEmptyID)
	}
	if existing := g.Edge(id); existing != nil {
		if g.strict {
			return nil, duplicate(stream.ElementEdge, id)
		}
		return existing, nil
	}
	for _, endpoint := range []string{from, to} {
		if g.Node(endpoint) == nil {
			return nil, errors.WithStack(&EndpointError{Edge: id, Node: endpoint})
		}
	}

	e := newEdge(id, from, to, directed, g)
	g.edges.Put(id, e)
	g.link(from, id)
	g.link(to, id)
	g.Dispatch(stream.Event{
		Type:     stream.EventEdgeAdded,
		Origin:   g.stamp(o),
		Element:  stream.ElementEdge,
		ID:       id,
		From:     from,
		To:       to,
		Directed: directed,
	})
	return e, nil
}

func (g *Graph) removeNode(o stream.Origin, id string) error {
	n := g.Node(id)
	if n == nil {
		if g.strict {
			return missing(stream.ElementNode, id)
		}
		return nil
	}

	for _, edgeID := range g.incidentEdges(id) {
		if err := g.removeEdge(o, edgeID); err != nil {
			return err
		}
	}

	g.nodes.Remove(id)
	delete(g.incident, id)
	n.owner = nil
	g.Dispatch(stream.Event{
		Type:    stream.EventNodeRemoved,
		Origin:  g.stamp(o),
		Element: stream.ElementNode,
		ID:      id,
	})
	return nil
}

func (g *Graph) removeEdge(o stream.Origin, id string) error {
	e := g.Edge(id)
	if e == nil {
		if g.strict {
			return missing(stream.ElementEdge, id)
		}
		return nil
	}

	g.edges.Remove(id)
	g.unlink(e.source, id)
	g.unlink(e.target, id)
	e.owner = nil
	g.Dispatch(stream.Event{
		Type:    stream.EventEdgeRemoved,
		Origin:  g.stamp(o),
		Element: stream.ElementEdge,
		ID:      id,
	})
	return nil
}

func (g *Graph) clear(o stream.Origin) {
	for _, n := range g.Nodes() {
		n.owner = nil
	}
	for _, e := range g.Edges() {
		e.owner = nil
	}
	g.nodes.Clear()
	g.edges.Clear()
	clear(g.incident)
	g.attrs.Clear()

	g.Dispatch(stream.Event{
		Type:    stream.EventGraphCleared,
		Origin:  g.stamp(o),
		Element: stream.ElementGraph,
		ID:      g.id,
	})
}

func (g *Graph) stepBegins(o stream.Origin, step float64) error {
	if step < g.step {
		if g.strict {
			return errors.WithStack(&StepError{Current: g.step, Requested: step})
		}
		return nil
	}

	g.step = step
	g.Dispatch(stream.Event{
		Type:    stream.EventStepBegins,
		Origin:  g.stamp(o),
		Element: stream.ElementGraph,
		ID:      g.id,
		Step:    step,
	})
	return nil
}

func (g *Graph) link(nodeID, edgeID string) {
	set, ok := g.incident[nodeID]
	if !ok {
		set = mapset.NewThreadUnsafeSet[string]()
		g.incident[nodeID] = set
	}
	set.Add(edgeID)
}

func (g *Graph) unlink(nodeID, edgeID string) {
	if set, ok := g.incident[nodeID]; ok {
		set.Remove(edgeID)
	}
}

// incidentEdges returns the ids of the edges touching nodeID, sorted so the
// removal cascade is stable.
func (g *Graph) incidentEdges(nodeID string) []string {
	set, ok := g.incident[nodeID]
	if !ok {
		return nil
	}
	ids := set.ToSlice()
	slices.Sort(ids)
	return ids
}

// element resolves the target of an attribute event
func (g *Graph) element(kind stream.ElementKind, id string) *Element {
	switch kind {
	case stream.ElementGraph:
		return &g.Element
	case stream.ElementNode:
		if n := g.Node(id); n != nil {
			return &n.Element
		}
	case stream.ElementEdge:
		if e := g.Edge(id); e != nil {
			return &e.Element
		}
	}
	return nil
}
