package stream

// Collector turns sink callbacks into Events handed to a single function.
// Embed it in a struct to get a full Sink; a bare Collector is a func value
// and cannot be registered on a Source.
type Collector func(Event)

func (c Collector) NodeAdded(o Origin, nodeID string) {
	c(Event{Type: EventNodeAdded, Origin: o, Element: ElementNode, ID: nodeID})
}

func (c Collector) NodeRemoved(o Origin, nodeID string) {
	c(Event{Type: EventNodeRemoved, Origin: o, Element: ElementNode, ID: nodeID})
}

func (c Collector) EdgeAdded(o Origin, edgeID, from, to string, directed bool) {
	c(Event{Type: EventEdgeAdded, Origin: o, Element: ElementEdge, ID: edgeID, From: from, To: to, Directed: directed})
}

func (c Collector) EdgeRemoved(o Origin, edgeID string) {
	c(Event{Type: EventEdgeRemoved, Origin: o, Element: ElementEdge, ID: edgeID})
}

func (c Collector) GraphCleared(o Origin) {
	c(Event{Type: EventGraphCleared, Origin: o, Element: ElementGraph})
}

func (c Collector) StepBegins(o Origin, step float64) {
	c(Event{Type: EventStepBegins, Origin: o, Element: ElementGraph, Step: step})
}

func (c Collector) AttributeAdded(o Origin, kind ElementKind, elementID, name string, value any) {
	c(Event{Type: EventAttributeAdded, Origin: o, Element: kind, ID: elementID, Attribute: name, Value: value})
}

func (c Collector) AttributeChanged(o Origin, kind ElementKind, elementID, name string, oldValue, newValue any) {
	c(Event{Type: EventAttributeChanged, Origin: o, Element: kind, ID: elementID, Attribute: name, OldValue: oldValue, Value: newValue})
}

func (c Collector) AttributeRemoved(o Origin, kind ElementKind, elementID, name string, oldValue any) {
	c(Event{Type: EventAttributeRemoved, Origin: o, Element: kind, ID: elementID, Attribute: name, OldValue: oldValue})
}
