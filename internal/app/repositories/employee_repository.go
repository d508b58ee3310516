package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/app/models"
)

// EmployeeRepository reads the employee and adviser tables
type EmployeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
		sb: newBuilder(),
	}
}

// EmployeeForPerson returns the current employee row of a person, or nil.
func (r *EmployeeRepository) EmployeeForPerson(ctx context.Context, personID int64) (*models.Employee, error) {
	q := r.sb.Select(models.Columns[models.Employee]()...).
		From("employee").
		Where(squirrel.Eq{"person_id": personID}).
		OrderBy("_last_changed DESC NULLS LAST", "id")
	return selectOne[models.Employee](ctx, r.db, q, "employee for person")
}

// EmployeesByID loads employees for the adviser traversal.
func (r *EmployeeRepository) EmployeesByID(ctx context.Context, ids []int64) (map[int64]*models.Employee, error) {
	if len(ids) == 0 {
		return map[int64]*models.Employee{}, nil
	}
	q := r.sb.Select(models.Columns[models.Employee]()...).
		From("employee").
		Where(squirrel.Eq{"id": ids})
	employees, err := selectRows[models.Employee](ctx, r.db, q, "employees by id")
	if err != nil {
		return nil, err
	}
	return byID(employees, func(e *models.Employee) int64 { return e.ID }), nil
}

// FindAdvisersByLogin walks adviser to employee to person and matches the
// current or any prior login.
func (r *EmployeeRepository) FindAdvisersByLogin(ctx context.Context, login string, limit int) ([]*models.Adviser, error) {
	q := r.sb.Select(models.QualifiedColumns[models.Adviser]("adviser")...).
		From("adviser").
		Join("employee ON employee.id = adviser.employee_id").
		Join("person ON person.id = employee.person_id").
		Where(squirrel.Expr("(person.uwnetid = ? OR ? = ANY(person.prior_uwnetids))", login, login)).
		OrderBy("adviser.id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return selectRows[models.Adviser](ctx, r.db, q, "adviser by login")
}

// AdvisersForStudent follows student_to_adviser.
func (r *EmployeeRepository) AdvisersForStudent(ctx context.Context, studentID int64) ([]*models.Adviser, error) {
	q := r.sb.Select(models.QualifiedColumns[models.Adviser]("adviser")...).
		From("adviser").
		Join("student_to_adviser sta ON sta.adviser_id = adviser.id").
		Where(squirrel.Eq{"sta.student_id": studentID}).
		OrderBy("adviser.id")
	return selectRows[models.Adviser](ctx, r.db, q, "advisers for student")
}
