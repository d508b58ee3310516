package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/app/models"
)

// Repositories holds all the repository instances and composes them into the
// aggregate-level reads the services consume.
type Repositories struct {
	db                 *pgxpool.Pool
	PersonRepository   *PersonRepository
	EmployeeRepository *EmployeeRepository
	StudentRepository  *StudentRepository
	QueueRepository    *QueueRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		db:                 db,
		PersonRepository:   NewPersonRepository(db),
		EmployeeRepository: NewEmployeeRepository(db),
		StudentRepository:  NewStudentRepository(db),
		QueueRepository:    NewQueueRepository(db),
	}
}

// Ping checks the pool.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repositories) FindPersons(ctx context.Context, lookup models.PersonLookup, limit int) ([]*models.Person, error) {
	return r.PersonRepository.FindPersons(ctx, lookup, limit)
}

func (r *Repositories) ListActivePersons(ctx context.Context, kind models.ActiveKind) ([]*models.Person, error) {
	return r.PersonRepository.ListActive(ctx, kind)
}

func (r *Repositories) EmployeeForPerson(ctx context.Context, personID int64) (*models.Employee, error) {
	return r.EmployeeRepository.EmployeeForPerson(ctx, personID)
}

// StudentForPerson loads the student row and attaches its academic term,
// the six major slots, advisers and sports.
func (r *Repositories) StudentForPerson(ctx context.Context, personID int64) (*models.Student, error) {
	st, err := r.StudentRepository.StudentForPerson(ctx, personID)
	if err != nil || st == nil {
		return nil, err
	}

	if st.AcademicTermID != nil {
		terms, err := r.StudentRepository.TermsByID(ctx, []int64{*st.AcademicTermID})
		if err != nil {
			return nil, err
		}
		st.AcademicTerm = terms[*st.AcademicTermID]
	}

	majors, err := r.StudentRepository.MajorsByID(ctx, st.MajorIDs())
	if err != nil {
		return nil, err
	}
	st.ResolveMajors(majors)

	if st.Advisers, err = r.EmployeeRepository.AdvisersForStudent(ctx, st.ID); err != nil {
		return nil, err
	}
	if err := r.attachAdviserChain(ctx, st.Advisers); err != nil {
		return nil, err
	}
	if st.Sports, err = r.StudentRepository.SportsForStudent(ctx, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

// TranscriptsForStudent returns ordered transcripts with both terms attached.
func (r *Repositories) TranscriptsForStudent(ctx context.Context, studentID int64) ([]*models.Transcript, error) {
	transcripts, err := r.StudentRepository.TranscriptsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, t := range transcripts {
		for _, id := range []*int64{t.TranTermID, t.LeaveEndsTermID} {
			if id != nil {
				ids = append(ids, *id)
			}
		}
	}
	terms, err := r.StudentRepository.TermsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range transcripts {
		if t.TranTermID != nil {
			t.TranTerm = terms[*t.TranTermID]
		}
		if t.LeaveEndsTermID != nil {
			t.LeaveEndsTerm = terms[*t.LeaveEndsTermID]
		}
	}
	return transcripts, nil
}

func (r *Repositories) TransfersForStudent(ctx context.Context, studentID int64) ([]*models.Transfer, error) {
	return r.StudentRepository.TransfersForStudent(ctx, studentID)
}

func (r *Repositories) HoldsForStudent(ctx context.Context, studentID int64) ([]*models.StudentHold, error) {
	return r.StudentRepository.HoldsForStudent(ctx, studentID)
}

// DegreesForStudent returns degrees with their term attached.
func (r *Repositories) DegreesForStudent(ctx context.Context, studentID int64) ([]*models.Degree, error) {
	degrees, err := r.StudentRepository.DegreesForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, d := range degrees {
		if d.DegreeTermID != nil {
			ids = append(ids, *d.DegreeTermID)
		}
	}
	terms, err := r.StudentRepository.TermsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range degrees {
		if d.DegreeTermID != nil {
			d.DegreeTerm = terms[*d.DegreeTermID]
		}
	}
	return degrees, nil
}

// FindAdvisers returns up to limit advisers reachable from login, each with
// its employee and person.
func (r *Repositories) FindAdvisers(ctx context.Context, login string, limit int) ([]*models.Adviser, error) {
	advisers, err := r.EmployeeRepository.FindAdvisersByLogin(ctx, login, limit)
	if err != nil {
		return nil, err
	}
	if err := r.attachAdviserChain(ctx, advisers); err != nil {
		return nil, err
	}
	return advisers, nil
}

func (r *Repositories) attachAdviserChain(ctx context.Context, advisers []*models.Adviser) error {
	if len(advisers) == 0 {
		return nil
	}
	employeeIDs := make([]int64, 0, len(advisers))
	for _, a := range advisers {
		employeeIDs = append(employeeIDs, a.EmployeeID)
	}
	employees, err := r.EmployeeRepository.EmployeesByID(ctx, employeeIDs)
	if err != nil {
		return err
	}

	personIDs := make([]int64, 0, len(employees))
	for _, e := range employees {
		personIDs = append(personIDs, e.PersonID)
	}
	persons, err := r.PersonRepository.PersonsByID(ctx, personIDs)
	if err != nil {
		return err
	}

	for _, a := range advisers {
		e, ok := employees[a.EmployeeID]
		if !ok {
			continue
		}
		cp := *e
		cp.Person = persons[e.PersonID]
		a.Employee = &cp
	}
	return nil
}

func (r *Repositories) Enqueue(ctx context.Context, queue models.QueueName, key string) (bool, error) {
	return r.QueueRepository.Enqueue(ctx, queue, key)
}

func (r *Repositories) PendingCounts(ctx context.Context) (map[models.QueueName]int64, error) {
	return r.QueueRepository.PendingCounts(ctx)
}
