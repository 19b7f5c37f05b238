package stream

// ElementSink receives topology notifications
type ElementSink interface {
	NodeAdded(o Origin, nodeID string)
	NodeRemoved(o Origin, nodeID string)
	EdgeAdded(o Origin, edgeID, from, to string, directed bool)
	EdgeRemoved(o Origin, edgeID string)
	GraphCleared(o Origin)
	StepBegins(o Origin, step float64)
}

// AttributeSink receives attribute notifications for the graph, its nodes
// and its edges. For graph-level changes elementID is the graph id.
type AttributeSink interface {
	AttributeAdded(o Origin, kind ElementKind, elementID, name string, value any)
	AttributeChanged(o Origin, kind ElementKind, elementID, name string, oldValue, newValue any)
	AttributeRemoved(o Origin, kind ElementKind, elementID, name string, oldValue any)
}

// Sink receives every notification
type Sink interface {
	ElementSink
	AttributeSink
}

// Suppressor is implemented by sinks that decline some events depending on
// where they come from. The dispatcher skips a suppressing sink for that
// event only; other sinks still receive it.
type Suppressor interface {
	Suppresses(o Origin) bool
}

// Emitter is anything sinks can register on
type Emitter interface {
	AddSink(s Sink, opts ...SinkOption)
	AddElementSink(s ElementSink)
	AddAttributeSink(s AttributeSink, opts ...SinkOption)
	RemoveSink(s any)
}
