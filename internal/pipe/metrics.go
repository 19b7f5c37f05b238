package pipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capturedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphsync",
		Subsystem: "pipe",
		Name:      "captured_events_total",
		Help:      "Events captured from the source graph.",
	}, []string{"pipe"})

	filteredEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphsync",
		Subsystem: "pipe",
		Name:      "filtered_events_total",
		Help:      "Attribute events dropped by the pipe filter.",
	}, []string{"pipe"})

	replayedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphsync",
		Subsystem: "pipe",
		Name:      "replayed_events_total",
		Help:      "Events replayed downstream by Pump.",
	}, []string{"pipe"})

	pendingEvents = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphsync",
		Subsystem: "pipe",
		Name:      "pending_events",
		Help:      "Events captured and not yet pumped.",
	}, []string{"pipe"})
)

// metrics holds the label-bound collectors of one pipe
type metrics struct {
	captured prometheus.Counter
	filtered prometheus.Counter
	replayed prometheus.Counter
	pending  prometheus.Gauge
}

func newMetrics(name string) metrics {
	return metrics{
		captured: capturedEvents.WithLabelValues(name),
		filtered: filteredEvents.WithLabelValues(name),
		replayed: replayedEvents.WithLabelValues(name),
		pending:  pendingEvents.WithLabelValues(name),
	}
}
