package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/app/models"
)

// PersonRepository reads the person table
type PersonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{
		db: db,
		sb: newBuilder(),
	}
}

// lookupPredicate matches the current value or any prior alias for logins
// and registry ids. System keys and student numbers live on the student row.
func lookupPredicate(lookup models.PersonLookup) (squirrel.Sqlizer, error) {
	switch lookup.Kind {
	case models.LookupLogin:
		return squirrel.Expr("(person.uwnetid = ? OR ? = ANY(person.prior_uwnetids))", lookup.Value, lookup.Value), nil
	case models.LookupRegistryID:
		return squirrel.Expr("(person.uwregid = ? OR ? = ANY(person.prior_uwregids))", lookup.Value, lookup.Value), nil
	case models.LookupSystemKey:
		return squirrel.Expr("person.id IN (SELECT student.person_id FROM student WHERE student.system_key = ?)", lookup.Value), nil
	case models.LookupStudentNumber:
		return squirrel.Expr("person.id IN (SELECT student.person_id FROM student WHERE student.student_number = ?)", lookup.Value), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLookup, lookup.Kind)
	}
}

// FindPersons returns up to limit persons matching lookup, ordered by id.
func (r *PersonRepository) FindPersons(ctx context.Context, lookup models.PersonLookup, limit int) ([]*models.Person, error) {
	pred, err := lookupPredicate(lookup)
	if err != nil {
		return nil, err
	}

	q := r.sb.Select(models.QualifiedColumns[models.Person]("person")...).
		From("person").
		Where(pred).
		OrderBy("person.id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return selectRows[models.Person](ctx, r.db, q, "person by "+string(lookup.Kind))
}

// ListActive returns every person whose active flag for kind is set.
func (r *PersonRepository) ListActive(ctx context.Context, kind models.ActiveKind) ([]*models.Person, error) {
	column := "_is_active_student"
	if kind == models.ActiveEmployees {
		column = "_is_active_employee"
	}

	q := r.sb.Select(models.Columns[models.Person]()...).
		From("person").
		Where(squirrel.Eq{column: true}).
		OrderBy("id")
	return selectRows[models.Person](ctx, r.db, q, "active "+string(kind))
}

// PersonsByID loads persons for the adviser traversal.
func (r *PersonRepository) PersonsByID(ctx context.Context, ids []int64) (map[int64]*models.Person, error) {
	if len(ids) == 0 {
		return map[int64]*models.Person{}, nil
	}
	q := r.sb.Select(models.Columns[models.Person]()...).
		From("person").
		Where(squirrel.Eq{"id": ids})
	persons, err := selectRows[models.Person](ctx, r.db, q, "persons by id")
	if err != nil {
		return nil, err
	}
	return byID(persons, func(p *models.Person) int64 { return p.ID }), nil
}
