// Package pipe relays graph events across goroutines.
//
// A Pipe listens to a source graph like any other sink, but instead of
// applying events it captures detached copies into a queue. The consumer
// goroutine calls Pump, or lets Run do it, to replay the queued events in
// order onto the pipe's own sinks, typically a replica graph.
//
// Two pipes running in opposite directions between the same graphs are
// paired with SynchronizeWith. Replayed events carry the id of the pipe that
// delivered them in Origin.Via, which lets each pipe decline what its peer
// just replayed instead of sending it back. The Scope option selects how
// wide that suppression is.
package pipe
