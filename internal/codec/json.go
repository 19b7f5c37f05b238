package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"graphsync/internal/stream"
)

// JSONCodec handles JSON snapshots
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a snapshot from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	decodeNumbers(s.Attributes)
	for _, n := range s.Nodes {
		decodeNumbers(n.Attributes)
	}
	for _, e := range s.Edges {
		decodeNumbers(e.Attributes)
	}
	return &s, nil
}

// Export writes a snapshot as JSON
func (c *JSONCodec) Export(s *Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// decodeNumbers turns json.Number values into int when they are integral
// and float64 otherwise, so JSON and YAML imports yield the same shapes.
func decodeNumbers(attrs map[string]any) {
	for k, v := range attrs {
		attrs[k] = fromJSON(v)
	}
}

func fromJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i, item := range val {
			val[i] = fromJSON(item)
		}
		return val
	case map[string]any:
		decodeNumbers(val)
		return val
	default:
		return v
	}
}

// EventLog is a sink writing every event it receives as one JSON line
type EventLog struct {
	stream.Collector
	enc *json.Encoder
	err error
}

// NewEventLog creates an event log writing to w
func NewEventLog(w io.Writer) *EventLog {
	l := &EventLog{enc: json.NewEncoder(w)}
	l.Collector = func(ev stream.Event) {
		if l.err != nil {
			return
		}
		l.err = l.enc.Encode(ev)
	}
	return l
}

// Err returns the first write error, after which the log stops writing
func (l *EventLog) Err() error {
	return l.err
}
