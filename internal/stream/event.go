package stream

import "graphsync/internal/attribute"

// ElementKind tells which kind of element an attribute event targets
type ElementKind string

const (
	ElementGraph ElementKind = "graph"
	ElementNode  ElementKind = "node"
	ElementEdge  ElementKind = "edge"
)

// EventType defines the type of event
type EventType string

const (
	EventNodeAdded        EventType = "node_added"
	EventNodeRemoved      EventType = "node_removed"
	EventEdgeAdded        EventType = "edge_added"
	EventEdgeRemoved      EventType = "edge_removed"
	EventGraphCleared     EventType = "graph_cleared"
	EventStepBegins       EventType = "step_begins"
	EventAttributeAdded   EventType = "attribute_added"
	EventAttributeChanged EventType = "attribute_changed"
	EventAttributeRemoved EventType = "attribute_removed"
)

// IsAttribute reports whether events of this type carry attribute changes
func (t EventType) IsAttribute() bool {
	switch t {
	case EventAttributeAdded, EventAttributeChanged, EventAttributeRemoved:
		return true
	default:
		return false
	}
}

// Origin identifies where an event comes from
type Origin struct {
	Source string `json:"source"`        // Graph that generated the event
	Time   uint64 `json:"time"`          // Sequence number within Source
	Via    string `json:"via,omitempty"` // Pipe that replayed the event, empty for direct delivery
}

// Replayed reports whether the event was delivered by a pipe
func (o Origin) Replayed() bool {
	return o.Via != ""
}

// Event is a self-contained record of one notification. Topology events use
// ID, From, To and Directed; attribute events use Element, ID, Attribute,
// OldValue and Value; step markers use Step.
type Event struct {
	Type      EventType   `json:"type"`
	Origin    Origin      `json:"origin"`
	Element   ElementKind `json:"element,omitempty"`
	ID        string      `json:"id,omitempty"`
	From      string      `json:"from,omitempty"`
	To        string      `json:"to,omitempty"`
	Directed  bool        `json:"directed,omitempty"`
	Attribute string      `json:"attribute,omitempty"`
	OldValue  any         `json:"old_value,omitempty"`
	Value     any         `json:"value,omitempty"`
	Step      float64     `json:"step,omitempty"`
}

// Detach returns a copy of the event whose values share no mutable state
// with the emitter.
func (e Event) Detach() Event {
	e.OldValue = attribute.Clone(e.OldValue)
	e.Value = attribute.Clone(e.Value)
	return e
}

// Deliver invokes the callback matching the event type. Element events need
// es and attribute events need as; a nil receiver for the event's side is
// skipped.
func (e Event) Deliver(es ElementSink, as AttributeSink) {
	if e.Type.IsAttribute() {
		if as == nil {
			return
		}
		switch e.Type {
		case EventAttributeAdded:
			as.AttributeAdded(e.Origin, e.Element, e.ID, e.Attribute, e.Value)
		case EventAttributeChanged:
			as.AttributeChanged(e.Origin, e.Element, e.ID, e.Attribute, e.OldValue, e.Value)
		case EventAttributeRemoved:
			as.AttributeRemoved(e.Origin, e.Element, e.ID, e.Attribute, e.OldValue)
		}
		return
	}

	if es == nil {
		return
	}
	switch e.Type {
	case EventNodeAdded:
		es.NodeAdded(e.Origin, e.ID)
	case EventNodeRemoved:
		es.NodeRemoved(e.Origin, e.ID)
	case EventEdgeAdded:
		es.EdgeAdded(e.Origin, e.ID, e.From, e.To, e.Directed)
	case EventEdgeRemoved:
		es.EdgeRemoved(e.Origin, e.ID)
	case EventGraphCleared:
		es.GraphCleared(e.Origin)
	case EventStepBegins:
		es.StepBegins(e.Origin, e.Step)
	}
}
