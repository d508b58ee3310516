package services

import (
	"context"
	"errors"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/pkg/apperrors"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/pkg/metrics"
)

// ambiguityProbe is how many rows a lookup fetches; a second row means the
// identifier is ambiguous.
const ambiguityProbe = 2

// PersonService resolves person aggregates by identifier and attaches the
// sub-aggregates selected by models.Options.
type PersonService struct {
	store   PersonStore
	cache   PersonCache
	metrics *metrics.Metrics
}

// NewPersonService creates a new PersonService. cache and m may be nil.
func NewPersonService(store PersonStore, cache PersonCache, m *metrics.Metrics) *PersonService {
	return &PersonService{
		store:   store,
		cache:   cache,
		metrics: m,
	}
}

// ResolveByLogin matches the current or any prior login.
func (s *PersonService) ResolveByLogin(ctx context.Context, login string, opts models.Options) (*models.Person, error) {
	return s.Resolve(ctx, models.PersonLookup{Kind: models.LookupLogin, Value: login}, opts)
}

// ResolveByRegistryID matches the current or any prior registry id.
func (s *PersonService) ResolveByRegistryID(ctx context.Context, regID string, opts models.Options) (*models.Person, error) {
	return s.Resolve(ctx, models.PersonLookup{Kind: models.LookupRegistryID, Value: regID}, opts)
}

// ResolveBySystemKey matches the system key of the person's student row.
func (s *PersonService) ResolveBySystemKey(ctx context.Context, systemKey string, opts models.Options) (*models.Person, error) {
	return s.Resolve(ctx, models.PersonLookup{Kind: models.LookupSystemKey, Value: systemKey}, opts)
}

// ResolveByStudentNumber matches the student number of the person's student row.
func (s *PersonService) ResolveByStudentNumber(ctx context.Context, number string, opts models.Options) (*models.Person, error) {
	return s.Resolve(ctx, models.PersonLookup{Kind: models.LookupStudentNumber, Value: number}, opts)
}

// Resolve returns the single person matching lookup with the requested
// sub-aggregates, consulting the cache first when one is configured.
func (s *PersonService) Resolve(ctx context.Context, lookup models.PersonLookup, opts models.Options) (*models.Person, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, lookup, opts)
		switch {
		case err != nil:
			s.metrics.IncCache("error")
			logger.Warn().Err(err).Str("kind", string(lookup.Kind)).Msg("Person cache read failed")
		case cached != nil:
			s.metrics.IncCache("hit")
			s.metrics.IncLookup(string(lookup.Kind), "found")
			return cached, nil
		default:
			s.metrics.IncCache("miss")
		}
	}

	p, err := s.resolveFromStore(ctx, lookup, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, lookup, opts, p); err != nil {
			logger.Warn().Err(err).Str("kind", string(lookup.Kind)).Msg("Person cache write failed")
		}
	}
	return p, nil
}

// resolveFromStore always reads storage. The sync poll depends on this since
// a cached answer could hide a freshly loaded row.
func (s *PersonService) resolveFromStore(ctx context.Context, lookup models.PersonLookup, opts models.Options) (*models.Person, error) {
	kind := string(lookup.Kind)

	matches, err := s.store.FindPersons(ctx, lookup, ambiguityProbe)
	if err != nil {
		s.metrics.IncLookup(kind, "error")
		return nil, err
	}

	switch len(matches) {
	case 0:
		s.metrics.IncLookup(kind, "not_found")
		logger.Debug().Str("kind", kind).Str("identifier", lookup.Value).Msg("Person not found")
		return nil, apperrors.NewNotFound(kind, lookup.Value)
	case 1:
	default:
		s.metrics.IncLookup(kind, "ambiguous")
		logger.Error().Str("kind", kind).Str("identifier", lookup.Value).Int("matches", len(matches)).
			Msg("Identifier matches more than one person")
		return nil, apperrors.NewAmbiguous(kind, lookup.Value, len(matches))
	}

	p := matches[0]
	if err := s.assemble(ctx, p, opts); err != nil {
		s.metrics.IncLookup(kind, "error")
		return nil, err
	}
	s.metrics.IncLookup(kind, "found")
	return p, nil
}

// ListActiveStudents assembles every active student. An empty result is not
// an error.
func (s *PersonService) ListActiveStudents(ctx context.Context, opts models.Options) ([]*models.Person, error) {
	return s.listActive(ctx, models.ActiveStudents, opts)
}

// ListActiveEmployees assembles every active employee.
func (s *PersonService) ListActiveEmployees(ctx context.Context, opts models.Options) ([]*models.Person, error) {
	return s.listActive(ctx, models.ActiveEmployees, opts)
}

func (s *PersonService) listActive(ctx context.Context, kind models.ActiveKind, opts models.Options) ([]*models.Person, error) {
	persons, err := s.store.ListActivePersons(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		if err := s.assemble(ctx, p, opts); err != nil {
			return nil, err
		}
	}
	if persons == nil {
		persons = []*models.Person{}
	}
	return persons, nil
}

// ResolveAdviserByLogin walks person to employee to adviser using the
// current or any prior login.
func (s *PersonService) ResolveAdviserByLogin(ctx context.Context, login string) (*models.Adviser, error) {
	const kind = "adviser"

	advisers, err := s.store.FindAdvisers(ctx, login, ambiguityProbe)
	if err != nil {
		s.metrics.IncLookup(kind, "error")
		return nil, err
	}
	switch len(advisers) {
	case 0:
		s.metrics.IncLookup(kind, "not_found")
		logger.Debug().Str("identifier", login).Msg("Adviser not found")
		return nil, apperrors.NewAdviserNotFound(login)
	case 1:
		s.metrics.IncLookup(kind, "found")
		return advisers[0], nil
	default:
		s.metrics.IncLookup(kind, "ambiguous")
		return nil, apperrors.NewAmbiguous(kind, login, len(advisers))
	}
}

// assemble attaches the sub-aggregates selected by opts. A missing employee
// or student row leaves a requested-but-absent slot; it is not an error.
func (s *PersonService) assemble(ctx context.Context, p *models.Person, opts models.Options) error {
	if opts.IncludeEmployee {
		e, err := s.store.EmployeeForPerson(ctx, p.ID)
		if err != nil {
			return err
		}
		p.AttachEmployee(e)
	}

	if !opts.IncludeStudent {
		return nil
	}
	st, err := s.store.StudentForPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	p.AttachStudent(st)
	if st == nil {
		return nil
	}

	if opts.IncludeStudentTranscripts {
		if st.Transcripts, err = s.store.TranscriptsForStudent(ctx, st.ID); err != nil {
			return err
		}
		st.Transcripts = fetched(st.Transcripts)
	}
	if opts.IncludeStudentTransfers {
		if st.Transfers, err = s.store.TransfersForStudent(ctx, st.ID); err != nil {
			return err
		}
		st.Transfers = fetched(st.Transfers)
	}
	if opts.IncludeStudentHolds {
		if st.Holds, err = s.store.HoldsForStudent(ctx, st.ID); err != nil {
			return err
		}
		st.Holds = fetched(st.Holds)
	}
	if opts.IncludeStudentDegrees {
		if st.Degrees, err = s.store.DegreesForStudent(ctx, st.ID); err != nil {
			return err
		}
		st.Degrees = fetched(st.Degrees)
	}
	return nil
}

// fetched marks a collection as loaded even when the store returned nil.
func fetched[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IsNotFound reports the absence kinds that sync recovers from.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrPersonNotFound)
}
