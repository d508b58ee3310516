package services

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/pkg/apperrors"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/pkg/metrics"
)

// Sync defaults used when neither the caller nor configuration sets them.
const (
	DefaultSyncTimeout      = 15 * time.Second
	DefaultSyncPollInterval = 3 * time.Second
)

// SyncOptions bounds one SyncPerson call. Zero fields fall back to the
// service defaults.
type SyncOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SyncService bridges a login that is not loaded yet: it queues the login
// for the external loader once and polls storage until the person appears or
// the timeout elapses.
type SyncService struct {
	persons  *PersonService
	queues   *QueueService
	defaults SyncOptions
	metrics  *metrics.Metrics

	now   func() time.Time
	sleep Sleeper
}

// NewSyncService creates a new SyncService using the wall clock.
func NewSyncService(persons *PersonService, queues *QueueService, defaults SyncOptions, m *metrics.Metrics) *SyncService {
	if defaults.Timeout <= 0 {
		defaults.Timeout = DefaultSyncTimeout
	}
	if defaults.PollInterval <= 0 {
		defaults.PollInterval = DefaultSyncPollInterval
	}
	return &SyncService{
		persons:  persons,
		queues:   queues,
		defaults: defaults,
		metrics:  m,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// WithClock replaces the time source and the sleeper.
func (s *SyncService) WithClock(now func() time.Time, sleep Sleeper) *SyncService {
	s.now = now
	s.sleep = sleep
	return s
}

// Defaults returns the effective default bounds.
func (s *SyncService) Defaults() SyncOptions {
	return s.defaults
}

// SyncPerson resolves login without sub-aggregates. On the first NotFound it
// queues the login, then retries every PollInterval until Timeout has
// elapsed. Any other failure is returned at once. When the person carries a
// system key it is queued for the enrollment loader before returning.
//
// A timeout leaves the queued item in place and fails with a NotFoundError
// naming login.
func (s *SyncService) SyncPerson(ctx context.Context, login string, opts SyncOptions) (*models.Person, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = s.defaults.Timeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = s.defaults.PollInterval
	}

	start := s.now()
	lookup := models.PersonLookup{Kind: models.LookupLogin, Value: login}
	queued := false

	for {
		s.metrics.IncSyncPoll()
		p, err := s.persons.resolveFromStore(ctx, lookup, models.Options{})
		if err == nil {
			if err := s.fanOut(ctx, p); err != nil {
				if !errors.Is(err, apperrors.ErrInvalidIdentifier) {
					s.finish(outcomeOf(ctx, err), start)
					return nil, err
				}
				logger.Warn().Err(err).Str("login", login).Str("system_key", *p.SystemKey).Msg("Skipped enrollment fan-out")
			}
			s.finish("found", start)
			return p, nil
		}
		if !IsNotFound(err) {
			s.finish(outcomeOf(ctx, err), start)
			return nil, err
		}

		if !queued {
			if _, err := s.queues.EnqueuePerson(ctx, login); err != nil {
				s.finish(outcomeOf(ctx, err), start)
				return nil, err
			}
			queued = true
		}

		elapsed := s.now().Sub(start)
		if elapsed >= opts.Timeout {
			s.finish("timeout", start)
			logger.Info().Str("login", login).Dur("timeout", opts.Timeout).Msg("Sync timed out waiting for person")
			return nil, apperrors.NewNotFound(string(models.LookupLogin), login)
		}

		wait := min(opts.PollInterval, opts.Timeout-elapsed)
		if err := s.sleep(ctx, wait); err != nil {
			s.finish("canceled", start)
			return nil, err
		}
	}
}

// fanOut queues the enrollment refresh for a found person. A malformed
// system key fails with ErrInvalidIdentifier and does not hide the person.
func (s *SyncService) fanOut(ctx context.Context, p *models.Person) error {
	if !p.HasSystemKey() {
		return nil
	}
	_, err := s.queues.EnqueueEnrolledStudent(ctx, *p.SystemKey)
	return err
}

func (s *SyncService) finish(outcome string, start time.Time) {
	s.metrics.ObserveSync(outcome, s.now().Sub(start))
}

func outcomeOf(ctx context.Context, err error) string {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "error"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
