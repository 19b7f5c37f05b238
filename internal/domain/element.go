package domain

import (
	"graphsync/internal/attribute"
	"graphsync/internal/stream"
)

// Element is the part shared by graphs, nodes and edges: an identity and an
// attribute store. Attribute mutations go through the owning graph, which
// broadcasts them to its sinks.
type Element struct {
	id    string
	kind  stream.ElementKind
	attrs *attribute.Store
	owner *Graph
}

func newElement(id string, kind stream.ElementKind, owner *Graph) Element {
	return Element{
		id:    id,
		kind:  kind,
		attrs: attribute.NewStore(),
		owner: owner,
	}
}

// ID returns the element identifier
func (e *Element) ID() string {
	return e.id
}

// Kind returns whether the element is a graph, a node or an edge
func (e *Element) Kind() stream.ElementKind {
	return e.kind
}

// Attributes gives read access to the attribute store
func (e *Element) Attributes() attribute.Reader {
	return e.attrs
}

// Attribute returns the raw value stored under name
func (e *Element) Attribute(name string) (any, bool) {
	return e.attrs.Get(name)
}

// HasAttribute reports whether name is present
func (e *Element) HasAttribute(name string) bool {
	return e.attrs.Has(name)
}

// AttributeCount returns the number of attributes
func (e *Element) AttributeCount() int {
	return e.attrs.Count()
}

// AddAttribute stores the positional values under name: no value stores
// true, one value is stored as is and several values are stored as an
// attribute.Array.
func (e *Element) AddAttribute(name string, values ...any) {
	e.setAttribute(stream.Origin{}, name, attribute.Value(values...))
}

// ChangeAttribute is an alias of AddAttribute
func (e *Element) ChangeAttribute(name string, values ...any) {
	e.AddAttribute(name, values...)
}

// SetAttribute stores exactly one value under name
func (e *Element) SetAttribute(name string, value any) {
	e.setAttribute(stream.Origin{}, name, value)
}

// RemoveAttribute deletes name. Removing an absent attribute does nothing.
func (e *Element) RemoveAttribute(name string) {
	e.removeAttribute(stream.Origin{}, name)
}

// ClearAttributes removes every attribute, one removal event per name
func (e *Element) ClearAttributes() {
	for name := range e.attrs.Keys() {
		e.removeAttribute(stream.Origin{}, name)
	}
}

func (e *Element) setAttribute(o stream.Origin, name string, value any) {
	old, existed := e.attrs.Add(name, value)
	if e.owner == nil {
		return
	}

	ev := stream.Event{
		Type:      stream.EventAttributeAdded,
		Origin:    e.owner.stamp(o),
		Element:   e.kind,
		ID:        e.id,
		Attribute: name,
		Value:     value,
	}
	if existed {
		ev.Type = stream.EventAttributeChanged
		ev.OldValue = old
	}
	e.owner.Dispatch(ev)
}

func (e *Element) removeAttribute(o stream.Origin, name string) {
	old, existed := e.attrs.Remove(name)
	if !existed || e.owner == nil {
		return
	}

	e.owner.Dispatch(stream.Event{
		Type:      stream.EventAttributeRemoved,
		Origin:    e.owner.stamp(o),
		Element:   e.kind,
		ID:        e.id,
		Attribute: name,
		OldValue:  old,
	})
}
