// Package stream defines the notification protocol between graphs and
// their listeners.
//
// Listeners pick the capabilities they need: ElementSink for topology
// changes, AttributeSink for attribute changes, or Sink for both. A Source
// keeps the registered sinks and dispatches Events to them synchronously, in
// registration order, over a snapshot of the registrations taken when the
// dispatch starts.
//
// Every event carries an Origin naming the graph that produced it and, when
// a pipe replayed it, the pipe. Sinks implementing Suppressor use the origin
// to decline events, which is how two mirrored graphs avoid echoing each
// other's changes forever.
package stream
