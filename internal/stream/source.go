package stream

import (
	"slices"

	"github.com/golang/glog"

	"graphsync/internal/attribute"
)

// SinkOption configures a sink registration
type SinkOption func(*registration)

// WithFilter restricts the attribute events delivered to a sink to names
// accepted by f. Topology events are never filtered.
func WithFilter(f attribute.Filter) SinkOption {
	return func(r *registration) {
		r.filter = f
	}
}

type registration struct {
	sink    any
	element ElementSink
	attr    AttributeSink
	filter  attribute.Filter
}

// Source manages registered sinks and dispatches events to them. It is
// meant to be embedded and is not safe for concurrent use: registration and
// dispatch happen on the goroutine owning the embedding value.
//
// Sinks are compared by identity, so they must be comparable (pointers in
// practice).
type Source struct {
	// regs is copy-on-write: every change installs a new slice so a dispatch
	// in progress keeps iterating the snapshot it started with.
	regs        []registration
	dispatching bool
	pending     []Event
}

// AddSink registers s for topology and attribute events
func (s *Source) AddSink(sink Sink, opts ...SinkOption) {
	s.register(sink, sink, sink, opts)
}

// AddElementSink registers s for topology events only
func (s *Source) AddElementSink(sink ElementSink) {
	s.register(sink, sink, nil, nil)
}

// AddAttributeSink registers s for attribute events only
func (s *Source) AddAttributeSink(sink AttributeSink, opts ...SinkOption) {
	s.register(sink, nil, sink, opts)
}

func (s *Source) register(sink any, es ElementSink, as AttributeSink, opts []SinkOption) {
	regs := slices.Clone(s.regs)
	i := slices.IndexFunc(regs, func(r registration) bool { return r.sink == sink })
	if i < 0 {
		regs = append(regs, registration{sink: sink})
		i = len(regs) - 1
	}
	if es != nil {
		regs[i].element = es
	}
	if as != nil {
		regs[i].attr = as
	}
	for _, opt := range opts {
		opt(&regs[i])
	}
	s.regs = regs
}

// RemoveSink drops every registration of s
func (s *Source) RemoveSink(sink any) {
	s.regs = slices.DeleteFunc(slices.Clone(s.regs), func(r registration) bool {
		return r.sink == sink
	})
}

// RemoveElementSink stops delivering topology events to s
func (s *Source) RemoveElementSink(sink ElementSink) {
	s.unregister(sink, true, false)
}

// RemoveAttributeSink stops delivering attribute events to s
func (s *Source) RemoveAttributeSink(sink AttributeSink) {
	s.unregister(sink, false, true)
}

func (s *Source) unregister(sink any, element, attr bool) {
	regs := slices.Clone(s.regs)
	for i := range regs {
		if regs[i].sink != sink {
			continue
		}
		if element {
			regs[i].element = nil
		}
		if attr {
			regs[i].attr = nil
			regs[i].filter = nil
		}
	}
	s.regs = slices.DeleteFunc(regs, func(r registration) bool {
		return r.element == nil && r.attr == nil
	})
}

// SinkCount returns the number of registered sinks
func (s *Source) SinkCount() int {
	return len(s.regs)
}

// Dispatch delivers ev to the registered sinks in registration order. An
// event dispatched from inside a sink callback is queued and delivered once
// the current event has reached every sink, so all sinks observe the same
// order.
func (s *Source) Dispatch(ev Event) {
	if s.dispatching {
		s.pending = append(s.pending, ev)
		return
	}
	if len(s.regs) == 0 {
		return
	}

	s.dispatching = true
	defer func() {
		s.dispatching = false
		s.pending = nil
	}()

	s.deliver(ev)
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.deliver(next)
	}
}

func (s *Source) deliver(ev Event) {
	regs := s.regs
	if glog.V(3) {
		glog.Infof("dispatch %s %s/%s from %s#%d to %d sinks", ev.Type, ev.Element, ev.ID, ev.Origin.Source, ev.Origin.Time, len(regs))
	}

	for _, r := range regs {
		if sup, ok := r.sink.(Suppressor); ok && sup.Suppresses(ev.Origin) {
			continue
		}
		if ev.Type.IsAttribute() {
			if r.attr == nil || !r.filter.Accepts(ev.Attribute) {
				continue
			}
			ev.Deliver(nil, r.attr)
			continue
		}
		if r.element != nil {
			ev.Deliver(r.element, nil)
		}
	}
}
