package codec

import (
	"io"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"graphsync/internal/attribute"
	"graphsync/internal/domain"
)

// Importer interface for reading snapshots from various formats
type Importer interface {
	Parse(r io.Reader) (*Snapshot, error)
	Format() string
}

// Exporter interface for writing snapshots to various formats
type Exporter interface {
	Export(s *Snapshot, w io.Writer) error
	Format() string
}

// Snapshot is the serialisable state of a graph at one point in time
type Snapshot struct {
	ID         string         `yaml:"id" json:"id"`
	Step       float64        `yaml:"step,omitempty" json:"step,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Nodes      []NodeState    `yaml:"nodes" json:"nodes"`
	Edges      []EdgeState    `yaml:"edges" json:"edges"`
}

// NodeState is a node inside a Snapshot
type NodeState struct {
	ID         string         `yaml:"id" json:"id"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// EdgeState is an edge inside a Snapshot
type EdgeState struct {
	ID         string         `yaml:"id" json:"id"`
	From       string         `yaml:"from" json:"from"`
	To         string         `yaml:"to" json:"to"`
	Directed   bool           `yaml:"directed,omitempty" json:"directed,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Capture takes a snapshot of g. Nodes and edges keep insertion order.
func Capture(g *domain.Graph) *Snapshot {
	s := &Snapshot{
		ID:         g.ID(),
		Step:       g.Step(),
		Attributes: attributes(g.Attributes()),
		Nodes:      make([]NodeState, 0, g.NodeCount()),
		Edges:      make([]EdgeState, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, NodeState{ID: n.ID(), Attributes: attributes(n.Attributes())})
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, EdgeState{
			ID:         e.ID(),
			From:       e.Source(),
			To:         e.Target(),
			Directed:   e.Directed(),
			Attributes: attributes(e.Attributes()),
		})
	}
	return s
}

func attributes(r attribute.Reader) map[string]any {
	if r.Count() == 0 {
		return nil
	}
	out := make(map[string]any, r.Count())
	for name := range r.Keys() {
		v, _ := r.Get(name)
		if c, ok := v.(attribute.Compound); ok {
			v = c.ToMap()
		}
		out[name] = attribute.Clone(v)
	}
	return out
}

// Apply replays the snapshot into g through the graph's mutation API, so
// sinks registered on g observe the import as ordinary events.
func (s *Snapshot) Apply(g *domain.Graph) error {
	if s.Step != 0 {
		if err := g.BeginStep(s.Step); err != nil {
			return errors.Wrap(err, "apply step")
		}
	}
	for _, name := range sortedKeys(s.Attributes) {
		g.SetAttribute(name, normalize(s.Attributes[name]))
	}
	for _, ns := range s.Nodes {
		n, err := g.AddNode(ns.ID)
		if err != nil {
			return errors.Wrapf(err, "apply node %q", ns.ID)
		}
		for _, name := range sortedKeys(ns.Attributes) {
			n.SetAttribute(name, normalize(ns.Attributes[name]))
		}
	}
	for _, es := range s.Edges {
		e, err := g.AddEdge(es.ID, es.From, es.To, es.Directed)
		if err != nil {
			return errors.Wrapf(err, "apply edge %q", es.ID)
		}
		for _, name := range sortedKeys(es.Attributes) {
			e.SetAttribute(name, normalize(es.Attributes[name]))
		}
	}
	return nil
}

// normalize maps decoded values back onto attribute shapes: numeric lists
// become vectors, other lists arrays.
func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		if vec, ok := numbers(val); ok {
			return vec
		}
		out := make(attribute.Array, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	default:
		return v
	}
}

func numbers(items []any) ([]float64, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		n, ok := attribute.Number(item)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// Export writes g as a YAML snapshot
func Export(g *domain.Graph, w io.Writer) error {
	return NewYAMLCodec().Export(Capture(g), w)
}

// Import reads a YAML snapshot and replays it into g
func Import(r io.Reader, g *domain.Graph) error {
	s, err := NewYAMLCodec().Parse(r)
	if err != nil {
		return err
	}
	return s.Apply(g)
}
