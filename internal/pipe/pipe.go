package pipe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"graphsync/internal/attribute"
	"graphsync/internal/stream"
)

// Option configures a Pipe
type Option func(*Pipe)

// WithName sets the name used in logs and metric labels
func WithName(name string) Option {
	return func(p *Pipe) {
		p.name = name
	}
}

// WithAttributeFilter drops attribute events whose name f rejects before
// they are queued. Topology events always pass.
func WithAttributeFilter(f attribute.Filter) Option {
	return func(p *Pipe) {
		p.SetAttributeFilter(f)
	}
}

// WithSuppression selects what a synchronised pipe refuses to capture
func WithSuppression(scope Scope) Option {
	return func(p *Pipe) {
		p.scope = scope
	}
}

// AttributeOnly registers the pipe as an attribute sink only, so topology
// changes of the source never cross it.
func AttributeOnly() Option {
	return func(p *Pipe) {
		p.attributeOnly = true
	}
}

// record is one captured event waiting for a pump
type record struct {
	id ulid.ULID
	ev stream.Event
}

// Pipe relays the events of a source to sinks living on another goroutine.
//
// The pipe registers itself on the source and captures every event into a
// queue on the source's goroutine. Pump, called on the consumer goroutine,
// drains the queue and replays the events to the pipe's own sinks. The
// queue is the only state shared between the two sides: sink registration
// on the pipe and Pump belong to the consumer.
type Pipe struct {
	stream.Source    // downstream sinks
	stream.Collector // capture side, makes *Pipe a stream.Sink

	id            string
	name          string
	src           stream.Emitter
	sourceID      string
	scope         Scope
	attributeOnly bool
	filter        atomic.Pointer[attribute.Filter]
	peer          atomic.Pointer[Pipe]
	disconnected  atomic.Bool
	detached      bool // only touched on the source goroutine

	mu    sync.Mutex
	queue []record
	ready chan struct{}

	pumping sync.Mutex
	metrics metrics
}

// New creates a pipe listening to src. It must be called on the goroutine
// owning src.
func New(src stream.Emitter, opts ...Option) *Pipe {
	p := &Pipe{
		id:    uuid.NewString(),
		src:   src,
		scope: ScopeDirection,
		ready: make(chan struct{}, 1),
	}
	p.Collector = p.capture
	for _, opt := range opts {
		opt(p)
	}
	if p.name == "" {
		p.name = "pipe-" + p.id[:8]
	}
	p.sourceID = sourceID(src)
	p.metrics = newMetrics(p.name)

	if p.attributeOnly {
		src.AddAttributeSink(p)
	} else {
		src.AddSink(p)
	}
	glog.V(1).Infof("pipe %s: listening to %q (attribute only: %v, suppression: %s)", p.name, p.sourceID, p.attributeOnly, p.scope)
	return p
}

// sourceID returns the id of the graph feeding src. A pipe fed by another
// pipe reports that pipe's source.
func sourceID(src stream.Emitter) string {
	switch s := src.(type) {
	case *Pipe:
		return s.sourceID
	case interface{ ID() string }:
		return s.ID()
	default:
		return ""
	}
}

// ID returns the pipe identity, stamped as Via on replayed events
func (p *Pipe) ID() string {
	return p.id
}

// Name returns the pipe name
func (p *Pipe) Name() string {
	return p.name
}

// SourceID returns the id of the graph the pipe listens to
func (p *Pipe) SourceID() string {
	return p.sourceID
}

// Scope returns the suppression scope
func (p *Pipe) Scope() Scope {
	return p.scope
}

// SetAttributeFilter replaces the capture filter. Safe from any goroutine;
// events already queued are not re-filtered.
func (p *Pipe) SetAttributeFilter(f attribute.Filter) {
	if f == nil {
		p.filter.Store(nil)
		return
	}
	p.filter.Store(&f)
}

func (p *Pipe) accepts(name string) bool {
	f := p.filter.Load()
	return f == nil || f.Accepts(name)
}

// capture runs on the source goroutine for every event the source delivers
func (p *Pipe) capture(ev stream.Event) {
	if p.disconnected.Load() {
		p.detach()
		return
	}
	if ev.Type.IsAttribute() && !p.accepts(ev.Attribute) {
		p.metrics.filtered.Inc()
		return
	}

	rec := record{id: ulid.Make(), ev: ev.Detach()}
	p.mu.Lock()
	p.queue = append(p.queue, rec)
	pending := len(p.queue)
	p.mu.Unlock()

	p.metrics.captured.Inc()
	p.metrics.pending.Inc()
	if glog.V(3) {
		glog.Infof("pipe %s: captured %s %s/%s as %s (%d pending)", p.name, ev.Type, ev.Element, ev.ID, rec.id, pending)
	}

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Pending returns the number of captured events not yet pumped
func (p *Pipe) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Ready is signalled after a capture. One signal may stand for several
// events.
func (p *Pipe) Ready() <-chan struct{} {
	return p.ready
}

// Pump replays every event queued so far to the pipe's sinks, in capture
// order, on the calling goroutine, and returns how many were replayed.
// Events captured while the replay runs wait for the next pump.
//
// Only one pump of a pipe runs at a time. A Pump called while another is
// replaying, from another goroutine or from one of the pipe's own sinks,
// returns 0 at once and leaves the queue to the next pump.
func (p *Pipe) Pump() int {
	if !p.pumping.TryLock() {
		if glog.V(2) {
			glog.Infof("pipe %s: pump already in progress", p.name)
		}
		return 0
	}
	defer p.pumping.Unlock()

	p.mu.Lock()
	batch := p.queue
	p.queue = nil
	p.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}
	p.metrics.pending.Sub(float64(len(batch)))

	for _, rec := range batch {
		ev := rec.ev
		ev.Origin.Via = p.id
		if glog.V(3) {
			glog.Infof("pipe %s: replaying %s %s/%s", p.name, rec.id, ev.Type, ev.ID)
		}
		p.Dispatch(ev)
	}
	p.metrics.replayed.Add(float64(len(batch)))
	if glog.V(2) {
		glog.Infof("pipe %s: pumped %d events", p.name, len(batch))
	}
	return len(batch)
}

// Run pumps whenever the pipe is signalled ready, and every interval when
// interval is positive, until ctx is done. Events still queued on return
// are left for a later Pump.
func (p *Pipe) Run(ctx context.Context, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.ready:
			p.Pump()
		case <-tick:
			p.Pump()
		}
	}
}

// Disconnect stops capturing. Already queued events stay and are delivered
// by later pumps. Safe from any goroutine: the pipe unregisters itself from
// the source on the source's goroutine, when the next event reaches it.
func (p *Pipe) Disconnect() {
	if p.disconnected.CompareAndSwap(false, true) {
		glog.Infof("pipe %s: disconnected from %q (%d pending)", p.name, p.sourceID, p.Pending())
	}
}

// DisconnectNow stops capturing and unregisters from the source at once.
// It must be called on the goroutine owning the source.
func (p *Pipe) DisconnectNow() {
	p.Disconnect()
	p.detach()
}

// Disconnected reports whether Disconnect was called
func (p *Pipe) Disconnected() bool {
	return p.disconnected.Load()
}

func (p *Pipe) detach() {
	if p.detached {
		return
	}
	p.detached = true
	p.src.RemoveSink(p)
}

// SynchronizeWith pairs p with other, a pipe running in the opposite
// direction. Each pipe then declines the events the other one replayed, as
// selected by its scope. Pairing with nil unpairs.
func (p *Pipe) SynchronizeWith(other *Pipe) {
	if old := p.peer.Swap(other); old != nil && old != other {
		old.peer.CompareAndSwap(p, nil)
	}
	if other != nil {
		other.peer.Store(p)
	}
}

// Peer returns the paired pipe, or nil
func (p *Pipe) Peer() *Pipe {
	return p.peer.Load()
}

var _ stream.Suppressor = (*Pipe)(nil)

// Suppresses reports whether the source should skip this pipe for an event
// with origin o. Other sinks of the source still receive the event.
func (p *Pipe) Suppresses(o stream.Origin) bool {
	switch p.scope {
	case ScopeNone:
		return false
	case ScopeReplays:
		return o.Replayed()
	}

	peer := p.peer.Load()
	if peer == nil {
		return false
	}
	if p.scope == ScopeSource {
		return o.Source == peer.sourceID
	}
	return o.Via == peer.id
}
