package stream

// Recorder is a sink that keeps a detached copy of every event it receives
type Recorder struct {
	Collector
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Collector = func(ev Event) {
		r.events = append(r.events, ev.Detach())
	}
	return r
}

// Events returns the recorded events
func (r *Recorder) Events() []Event {
	return r.events
}

// Types returns the recorded event types, handy for order assertions
func (r *Recorder) Types() []EventType {
	types := make([]EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

// IDs returns the element ids of the recorded events
func (r *Recorder) IDs() []string {
	ids := make([]string, len(r.events))
	for i, ev := range r.events {
		ids[i] = ev.ID
	}
	return ids
}

// Reset forgets the recorded events
func (r *Recorder) Reset() {
	r.events = nil
}
