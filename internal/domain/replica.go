package domain

import (
	"github.com/golang/glog"

	"graphsync/internal/stream"
)

// A Graph is also a stream.Sink: registered downstream of another graph or
// of a pipe it becomes a replica, applying every event it receives and
// re-dispatching it with the original origin so suppression decisions
// further down still see where the change came from.

var _ stream.Sink = (*Graph)(nil)

func (g *Graph) NodeAdded(o stream.Origin, nodeID string) {
	if _, err := g.addNode(o, nodeID); err != nil {
		g.reject(o, stream.EventNodeAdded, err)
	}
}

func (g *Graph) NodeRemoved(o stream.Origin, nodeID string) {
	if err := g.removeNode(o, nodeID); err != nil {
		g.reject(o, stream.EventNodeRemoved, err)
	}
}

func (g *Graph) EdgeAdded(o stream.Origin, edgeID, from, to string, directed bool) {
	if _, err := g.addEdge(o, edgeID, from, to, directed); err != nil {
		g.reject(o, stream.EventEdgeAdded, err)
	}
}

func (g *Graph) EdgeRemoved(o stream.Origin, edgeID string) {
	if err := g.removeEdge(o, edgeID); err != nil {
		g.reject(o, stream.EventEdgeRemoved, err)
	}
}

func (g *Graph) GraphCleared(o stream.Origin) {
	g.clear(o)
}

func (g *Graph) StepBegins(o stream.Origin, step float64) {
	if err := g.stepBegins(o, step); err != nil {
		g.reject(o, stream.EventStepBegins, err)
	}
}

// AttributeAdded on an existing attribute behaves as a change
func (g *Graph) AttributeAdded(o stream.Origin, kind stream.ElementKind, elementID, name string, value any) {
	if e := g.target(o, kind, elementID); e != nil {
		e.setAttribute(o, name, value)
	}
}

// AttributeChanged on an absent attribute behaves as an add
func (g *Graph) AttributeChanged(o stream.Origin, kind stream.ElementKind, elementID, name string, _, newValue any) {
	if e := g.target(o, kind, elementID); e != nil {
		e.setAttribute(o, name, newValue)
	}
}

func (g *Graph) AttributeRemoved(o stream.Origin, kind stream.ElementKind, elementID, name string, _ any) {
	if e := g.target(o, kind, elementID); e != nil {
		e.removeAttribute(o, name)
	}
}

// target resolves the element an incoming attribute event applies to.
// Events for elements this replica does not hold are dropped: an
// attribute-only mirror never learns about topology.
func (g *Graph) target(o stream.Origin, kind stream.ElementKind, id string) *Element {
	e := g.element(kind, id)
	if e == nil && glog.V(2) {
		glog.Infof("graph %s: dropping attribute event for unknown %s %q from %s", g.id, kind, id, o.Source)
	}
	return e
}

func (g *Graph) reject(o stream.Origin, typ stream.EventType, err error) {
	g.rejected++
	glog.Warningf("graph %s: rejected %s from %s#%d via %q: %v", g.id, typ, o.Source, o.Time, o.Via, err)
}
