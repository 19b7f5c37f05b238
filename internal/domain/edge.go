package domain

import "graphsync/internal/stream"

// Edge represents a connection between two nodes. Endpoints are node ids
// resolved through the owning graph and never change after creation.
type Edge struct {
	Element
	source   string
	target   string
	directed bool
}

func newEdge(id, source, target string, directed bool, owner *Graph) *Edge {
	return &Edge{
		Element:  newElement(id, stream.ElementEdge, owner),
		source:   source,
		target:   target,
		directed: directed,
	}
}

// Source returns the id of the first endpoint
func (e *Edge) Source() string {
	return e.source
}

// Target returns the id of the second endpoint
func (e *Edge) Target() string {
	return e.target
}

// Directed reports whether the edge goes from Source to Target only
func (e *Edge) Directed() bool {
	return e.directed
}

// Opposite returns the endpoint facing nodeID, or "" when nodeID is not an
// endpoint.
func (e *Edge) Opposite(nodeID string) string {
	switch nodeID {
	case e.source:
		return e.target
	case e.target:
		return e.source
	default:
		return ""
	}
}

// SourceNode resolves the first endpoint in the owning graph
func (e *Edge) SourceNode() *Node {
	if e.owner == nil {
		return nil
	}
	return e.owner.Node(e.source)
}

// TargetNode resolves the second endpoint in the owning graph
func (e *Edge) TargetNode() *Node {
	if e.owner == nil {
		return nil
	}
	return e.owner.Node(e.target)
}
