package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for lookups, sync and the work queues.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Lookups by identifier kind and outcome (found, not_found, ambiguous, error)
	Lookups *prometheus.CounterVec

	// Sync outcomes (found, timeout, error, canceled)
	SyncOutcome *prometheus.CounterVec

	// Wall time of a whole sync call
	SyncDuration prometheus.Histogram

	// Storage polls performed while syncing
	SyncPolls prometheus.Counter

	// Enqueue results by queue (inserted, duplicate, invalid)
	Enqueued *prometheus.CounterVec

	// Pending work items per queue
	QueuePending *prometheus.GaugeVec

	// Aggregate cache requests (hit, miss, error)
	CacheRequests *prometheus.CounterVec
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persondata_lookups_total",
			Help: "Person and adviser lookups by identifier kind and outcome",
		}, []string{"kind", "outcome"}),

		SyncOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persondata_sync_total",
			Help: "Sync calls by outcome",
		}, []string{"outcome"}),

		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "persondata_sync_duration_seconds",
			Help:    "Duration of sync calls including polling",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 3, 6, 10, 15, 30},
		}),

		SyncPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "persondata_sync_polls_total",
			Help: "Storage polls issued by sync calls",
		}),

		Enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persondata_queue_enqueued_total",
			Help: "Enqueue attempts by queue and result",
		}, []string{"queue", "result"}),

		QueuePending: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "persondata_queue_pending",
			Help: "Work items waiting for the batch loader",
		}, []string{"queue"}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persondata_cache_requests_total",
			Help: "Aggregate cache requests by result",
		}, []string{"result"}),
	}
}

// IncLookup records a lookup outcome.
func (m *Metrics) IncLookup(kind, outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(kind, outcome).Inc()
	}
}

// ObserveSync records a finished sync call.
func (m *Metrics) ObserveSync(outcome string, d time.Duration) {
	if m != nil {
		m.SyncOutcome.WithLabelValues(outcome).Inc()
		m.SyncDuration.Observe(d.Seconds())
	}
}

// IncSyncPoll records one storage poll.
func (m *Metrics) IncSyncPoll() {
	if m != nil {
		m.SyncPolls.Inc()
	}
}

// IncEnqueued records an enqueue attempt.
func (m *Metrics) IncEnqueued(queue, result string) {
	if m != nil {
		m.Enqueued.WithLabelValues(queue, result).Inc()
	}
}

// SetQueuePending sets the pending gauge of a queue.
func (m *Metrics) SetQueuePending(queue string, n int64) {
	if m != nil {
		m.QueuePending.WithLabelValues(queue).Set(float64(n))
	}
}

// IncCache records a cache request result.
func (m *Metrics) IncCache(result string) {
	if m != nil {
		m.CacheRequests.WithLabelValues(result).Inc()
	}
}
