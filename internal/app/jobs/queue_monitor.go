package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/pkg/metrics"
)

const runTimeout = 10 * time.Second

// PendingCounter reports queue depth.
type PendingCounter interface {
	PendingCounts(ctx context.Context) (map[models.QueueName]int64, error)
}

// QueueMonitor publishes queue depth to the pending gauge.
type QueueMonitor struct {
	queues  PendingCounter
	metrics *metrics.Metrics
}

// NewQueueMonitor creates a new QueueMonitor
func NewQueueMonitor(queues PendingCounter, m *metrics.Metrics) *QueueMonitor {
	return &QueueMonitor{queues: queues, metrics: m}
}

// Run reads the counts once. Queues missing from the result are reported
// as empty.
func (q *QueueMonitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	counts, err := q.queues.PendingCounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read queue depth")
		return err
	}

	for _, queue := range []models.QueueName{models.PersonQueue, models.EnrolledStudentQueue} {
		n := counts[queue]
		q.metrics.SetQueuePending(string(queue), n)
		logger.Debug().Str("queue", string(queue)).Int64("pending", n).Msg("Queue depth")
	}
	return nil
}

// Scheduler runs periodic jobs on a cron spec.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates an empty scheduler. Overlapping runs of a job are
// skipped.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Add registers fn under name on spec, e.g. "@every 30s".
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context) error) error {
	jobLog := logger.WithField("job", name)
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(context.Background()); err != nil {
			jobLog.Warn().Err(err).Msg("Scheduled job failed")
			return
		}
		jobLog.Debug().Dur("took", time.Since(start)).Msg("Scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
