package domain

import (
	"slices"

	"graphsync/internal/stream"
)

// Node represents a vertex of the graph
type Node struct {
	Element
}

func newNode(id string, owner *Graph) *Node {
	return &Node{Element: newElement(id, stream.ElementNode, owner)}
}

// Degree returns the number of edges incident to the node. A node removed
// from its graph has no edges.
func (n *Node) Degree() int {
	if n.owner == nil {
		return 0
	}
	set, ok := n.owner.incident[n.id]
	if !ok {
		return 0
	}
	return set.Cardinality()
}

// Edges returns the incident edges ordered by id
func (n *Node) Edges() []*Edge {
	if n.owner == nil {
		return nil
	}
	ids := n.owner.incidentEdges(n.id)
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e := n.owner.Edge(id); e != nil {
			edges = append(edges, e)
		}
	}
	return edges
}

// Neighbors returns the ids of the nodes at the other end of incident edges
func (n *Node) Neighbors() []string {
	var ids []string
	for _, e := range n.Edges() {
		other := e.Opposite(n.id)
		if !slices.Contains(ids, other) {
			ids = append(ids, other)
		}
	}
	return ids
}
