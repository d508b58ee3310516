package services

import (
	"context"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/pkg/metrics"
	"github.com/yigit/persondata/internal/pkg/validation"
)

// QueueService validates identifiers and inserts them into the sync queues.
// Inserting an identifier that is already queued is a no-op.
type QueueService struct {
	store     QueueStore
	validator *validation.IdentityValidator
	metrics   *metrics.Metrics
}

// NewQueueService creates a new QueueService
func NewQueueService(store QueueStore, validator *validation.IdentityValidator, m *metrics.Metrics) *QueueService {
	return &QueueService{
		store:     store,
		validator: validator,
		metrics:   m,
	}
}

// EnqueuePerson queues a login for the person loader.
func (s *QueueService) EnqueuePerson(ctx context.Context, login string) (bool, error) {
	if err := s.validator.NetID(login); err != nil {
		s.metrics.IncEnqueued(string(models.PersonQueue), "invalid")
		return false, err
	}
	return s.enqueue(ctx, models.PersonQueue, login)
}

// EnqueueEnrolledStudent queues a student system key for the enrollment loader.
func (s *QueueService) EnqueueEnrolledStudent(ctx context.Context, systemKey string) (bool, error) {
	if err := s.validator.SystemKey(systemKey); err != nil {
		s.metrics.IncEnqueued(string(models.EnrolledStudentQueue), "invalid")
		return false, err
	}
	return s.enqueue(ctx, models.EnrolledStudentQueue, systemKey)
}

func (s *QueueService) enqueue(ctx context.Context, queue models.QueueName, key string) (bool, error) {
	inserted, err := s.store.Enqueue(ctx, queue, key)
	if err != nil {
		return false, err
	}
	result := "duplicate"
	if inserted {
		result = "inserted"
	}
	s.metrics.IncEnqueued(string(queue), result)
	logger.Info().Str("queue", string(queue)).Str("key", key).Bool("inserted", inserted).Msg("Sync work item enqueued")
	return inserted, nil
}

// PendingCounts reports how many items wait in each queue.
func (s *QueueService) PendingCounts(ctx context.Context) (map[models.QueueName]int64, error) {
	return s.store.PendingCounts(ctx)
}
