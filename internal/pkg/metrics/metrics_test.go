package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncLookup("login", "found")
	m.IncLookup("login", "found")
	m.IncEnqueued("person_queue", "inserted")
	m.SetQueuePending("person_queue", 7)
	m.ObserveSync("timeout", time.Second)
	m.IncSyncPoll()
	m.IncCache("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues("login", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Enqueued.WithLabelValues("person_queue", "inserted")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueuePending.WithLabelValues("person_queue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncOutcome.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncPolls))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncLookup("login", "found")
		m.ObserveSync("found", time.Millisecond)
		m.IncSyncPoll()
		m.IncEnqueued("person_queue", "duplicate")
		m.SetQueuePending("person_queue", 1)
		m.IncCache("miss")
	})
}
