package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphsync/internal/attribute"
	"graphsync/internal/stream"
)

func TestElementAttributes(t *testing.T) {
	g := New("g")
	n, err := g.AddNode("A")
	require.NoError(t, err)
	rec := stream.NewRecorder()
	g.AddSink(rec)

	t.Run("add dispatches attribute_added", func(t *testing.T) {
		rec.Reset()
		n.AddAttribute("ui.color", "red")

		require.Len(t, rec.Events(), 1)
		ev := rec.Events()[0]
		assert.Equal(t, stream.EventAttributeAdded, ev.Type)
		assert.Equal(t, stream.ElementNode, ev.Element)
		assert.Equal(t, "A", ev.ID)
		assert.Equal(t, "ui.color", ev.Attribute)
		assert.Equal(t, "red", ev.Value)
	})

	t.Run("change carries the old value", func(t *testing.T) {
		rec.Reset()
		n.ChangeAttribute("ui.color", "blue")

		require.Len(t, rec.Events(), 1)
		ev := rec.Events()[0]
		assert.Equal(t, stream.EventAttributeChanged, ev.Type)
		assert.Equal(t, "red", ev.OldValue)
		assert.Equal(t, "blue", ev.Value)
		label, ok := n.Attributes().Label("ui.color")
		assert.True(t, ok)
		assert.Equal(t, "blue", label)
	})

	t.Run("positional values", func(t *testing.T) {
		rec.Reset()
		n.AddAttribute("selected")
		n.AddAttribute("xy", 1.0, 2.0)

		assert.True(t, n.Attributes().HasKind("selected", attribute.KindPresence))
		v, ok := n.Attribute("selected")
		assert.True(t, ok)
		assert.Equal(t, true, v)
		assert.Equal(t, attribute.Array{1.0, 2.0}, rec.Events()[1].Value)
	})

	t.Run("set stores a single value", func(t *testing.T) {
		n.SetAttribute("weights", []float64{0.5, 1.5})
		vec, ok := n.Attributes().Vector("weights")
		require.True(t, ok)
		assert.Equal(t, []float64{0.5, 1.5}, vec)
	})

	t.Run("null is present", func(t *testing.T) {
		rec.Reset()
		n.SetAttribute("nothing", nil)

		assert.True(t, n.HasAttribute("nothing"))
		require.Len(t, rec.Events(), 1)
		assert.Nil(t, rec.Events()[0].Value)
	})

	t.Run("remove carries the old value", func(t *testing.T) {
		rec.Reset()
		n.RemoveAttribute("ui.color")
		n.RemoveAttribute("ui.color")

		require.Len(t, rec.Events(), 1)
		ev := rec.Events()[0]
		assert.Equal(t, stream.EventAttributeRemoved, ev.Type)
		assert.Equal(t, "blue", ev.OldValue)
		assert.False(t, n.HasAttribute("ui.color"))
	})

	t.Run("clear removes one by one", func(t *testing.T) {
		rec.Reset()
		count := n.AttributeCount()
		n.ClearAttributes()

		assert.Equal(t, 0, n.AttributeCount())
		assert.Len(t, rec.Events(), count)
		for _, typ := range rec.Types() {
			assert.Equal(t, stream.EventAttributeRemoved, typ)
		}
	})
}

func TestElementKinds(t *testing.T) {
	g := New("g")
	triangle(t, g)
	rec := stream.NewRecorder()
	g.AddSink(rec)

	g.AddAttribute("title", "t")
	g.Edge("AB").AddAttribute("weight", 3)

	require.Len(t, rec.Events(), 2)
	assert.Equal(t, stream.ElementGraph, rec.Events()[0].Element)
	assert.Equal(t, "g", rec.Events()[0].ID)
	assert.Equal(t, stream.ElementEdge, rec.Events()[1].Element)
	assert.Equal(t, "AB", rec.Events()[1].ID)

	w, ok := g.Edge("AB").Attributes().Number("weight")
	require.True(t, ok)
	assert.Equal(t, 3.0, w)
}

func TestElementFilteredSink(t *testing.T) {
	g := New("g")
	n, err := g.AddNode("A")
	require.NoError(t, err)
	rec := stream.NewRecorder()
	g.AddSink(rec, stream.WithFilter(attribute.Prefix("ui.")))

	n.AddAttribute("ui.label", "a")
	n.AddAttribute("weight", 1)
	_, err = g.AddNode("B")
	require.NoError(t, err)

	assert.Equal(t, []stream.EventType{stream.EventAttributeAdded, stream.EventNodeAdded}, rec.Types())
}

func TestNodeEdges(t *testing.T) {
	g := New("g")
	triangle(t, g)

	var ids []string
	for _, e := range g.Node("C").Edges() {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []string{"BC", "CA"}, ids)
	assert.Equal(t, []string{"B", "A"}, g.Node("C").Neighbors())

	e := g.Edge("BC")
	require.NoError(t, g.RemoveNode("C"))
	assert.Nil(t, e.SourceNode())
	assert.Equal(t, []string{"B"}, g.Node("A").Neighbors())
	assert.Same(t, g.Node("B"), g.Node("A").Edges()[0].TargetNode())
}
