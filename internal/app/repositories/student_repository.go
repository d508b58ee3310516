package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/app/models"
)

// StudentRepository reads the student table, its reference tables and its
// child collections
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: newBuilder(),
	}
}

// StudentForPerson returns the bare student row of a person, or nil.
func (r *StudentRepository) StudentForPerson(ctx context.Context, personID int64) (*models.Student, error) {
	q := r.sb.Select(models.Columns[models.Student]()...).
		From("student").
		Where(squirrel.Eq{"person_id": personID}).
		OrderBy("id")
	return selectOne[models.Student](ctx, r.db, q, "student for person")
}

// TermsByID loads terms keyed by id.
func (r *StudentRepository) TermsByID(ctx context.Context, ids []int64) (map[int64]*models.Term, error) {
	if len(ids) == 0 {
		return map[int64]*models.Term{}, nil
	}
	q := r.sb.Select(models.Columns[models.Term]()...).
		From("term").
		Where(squirrel.Eq{"id": ids})
	terms, err := selectRows[models.Term](ctx, r.db, q, "terms by id")
	if err != nil {
		return nil, err
	}
	return byID(terms, func(t *models.Term) int64 { return t.ID }), nil
}

// MajorsByID loads majors keyed by id.
func (r *StudentRepository) MajorsByID(ctx context.Context, ids []int64) (map[int64]*models.Major, error) {
	if len(ids) == 0 {
		return map[int64]*models.Major{}, nil
	}
	q := r.sb.Select(models.Columns[models.Major]()...).
		From("major").
		Where(squirrel.Eq{"id": ids})
	majors, err := selectRows[models.Major](ctx, r.db, q, "majors by id")
	if err != nil {
		return nil, err
	}
	return byID(majors, func(m *models.Major) int64 { return m.ID }), nil
}

// SportsForStudent follows student_to_sport.
func (r *StudentRepository) SportsForStudent(ctx context.Context, studentID int64) ([]*models.Sport, error) {
	q := r.sb.Select(models.QualifiedColumns[models.Sport]("sport")...).
		From("sport").
		Join("student_to_sport sts ON sts.sport_id = sport.id").
		Where(squirrel.Eq{"sts.student_id": studentID}).
		OrderBy("sport.id")
	return selectRows[models.Sport](ctx, r.db, q, "sports for student")
}

// TranscriptsForStudent returns transcripts most recent term first.
func (r *StudentRepository) TranscriptsForStudent(ctx context.Context, studentID int64) ([]*models.Transcript, error) {
	q := r.sb.Select(models.QualifiedColumns[models.Transcript]("transcript")...).
		From("transcript").
		LeftJoin("term ON term.id = transcript.tran_term_id").
		Where(squirrel.Eq{"transcript.student_id": studentID}).
		OrderBy("term.year DESC NULLS LAST", "term.quarter DESC NULLS LAST", "transcript.id")
	return selectRows[models.Transcript](ctx, r.db, q, "transcripts")
}

func (r *StudentRepository) TransfersForStudent(ctx context.Context, studentID int64) ([]*models.Transfer, error) {
	q := r.sb.Select(models.Columns[models.Transfer]()...).
		From("transfer").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id")
	return selectRows[models.Transfer](ctx, r.db, q, "transfers")
}

// HoldsForStudent returns holds ordered by sequence number.
func (r *StudentRepository) HoldsForStudent(ctx context.Context, studentID int64) ([]*models.StudentHold, error) {
	q := r.sb.Select(models.Columns[models.StudentHold]()...).
		From("student_hold").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("seq")
	return selectRows[models.StudentHold](ctx, r.db, q, "holds")
}

func (r *StudentRepository) DegreesForStudent(ctx context.Context, studentID int64) ([]*models.Degree, error) {
	q := r.sb.Select(models.Columns[models.Degree]()...).
		From("degree").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id")
	return selectRows[models.Degree](ctx, r.db, q, "degrees")
}
