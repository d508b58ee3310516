//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/yigit/persondata/internal/app/migrations"
	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/config"
	"github.com/yigit/persondata/internal/db"
	"github.com/yigit/persondata/internal/pkg/dberrors"
)

type RepositoriesSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pg        *db.PostgresDB
	repos     *Repositories

	studentID int64
}

func TestRepositoriesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	suite.Run(t, new(RepositoriesSuite))
}

func (s *RepositoriesSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("persondata"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pg, err = db.Connect(connStr, config.DatabaseConfig{MaxOpenConns: 4})
	s.Require().NoError(err)

	applied, err := migrations.NewMigrator(s.pg.SQL()).Apply(ctx, migrations.Schema())
	s.Require().NoError(err)
	s.Equal(1, applied)

	s.repos = NewRepositories(s.pg.Pool)
}

func (s *RepositoriesSuite) TearDownSuite() {
	if s.pg != nil {
		s.pg.Close()
	}
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *RepositoriesSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pg.Pool.Exec(ctx, `TRUNCATE person, employee, adviser, student, transcript, transfer,
		student_hold, degree, term, major, sport, student_to_adviser, student_to_sport,
		person_queue, enrolled_student_queue RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	s.studentID = s.seed(ctx)
}

func (s *RepositoriesSuite) insert(ctx context.Context, sql string, args ...any) int64 {
	var id int64
	s.Require().NoError(s.pg.Pool.QueryRow(ctx, sql, args...).Scan(&id))
	return id
}

// seed inserts a student with three transcripts, an adviser, two majors and
// a hold, and returns the student id.
func (s *RepositoriesSuite) seed(ctx context.Context) int64 {
	personID := s.insert(ctx, `INSERT INTO person (uwnetid, uwregid, display_name, _is_active_student, prior_uwnetids)
		VALUES ('javerage', '9136CCB8F66711D5BE060004AC494FFE', 'James Average Student', true, '{javerage1}') RETURNING id`)

	adviserPerson := s.insert(ctx, `INSERT INTO person (uwnetid, _is_active_employee) VALUES ('jadviser', true) RETURNING id`)
	employeeID := s.insert(ctx, `INSERT INTO employee (person_id, employee_number, title) VALUES ($1, '100000001', 'Adviser') RETURNING id`, adviserPerson)
	adviserID := s.insert(ctx, `INSERT INTO adviser (employee_id, advising_email) VALUES ($1, 'jadviser@uw.edu') RETURNING id`, employeeID)

	t1 := s.insert(ctx, `INSERT INTO term (year, quarter) VALUES (2022, 4) RETURNING id`)
	t2 := s.insert(ctx, `INSERT INTO term (year, quarter) VALUES (2023, 1) RETURNING id`)
	t3 := s.insert(ctx, `INSERT INTO term (year, quarter) VALUES (2023, 2) RETURNING id`)

	cse := s.insert(ctx, `INSERT INTO major (major_abbr_code, major_full_name) VALUES ('CSE', 'Computer Science') RETURNING id`)
	math := s.insert(ctx, `INSERT INTO major (major_abbr_code, major_full_name) VALUES ('MATH', 'Mathematics') RETURNING id`)

	studentID := s.insert(ctx, `INSERT INTO student (person_id, system_key, student_number, academic_term_id, major_1_id, pending_major_1_id)
		VALUES ($1, '532353230', '1033334', $2, $3, $4) RETURNING id`, personID, t3, cse, math)

	_, err := s.pg.Pool.Exec(ctx, `INSERT INTO student_to_adviser (student_id, adviser_id) VALUES ($1, $2)`, studentID, adviserID)
	s.Require().NoError(err)

	for _, row := range []struct {
		term           int64
		points, graded string
	}{
		{t2, "45", "15"},
		{t1, "30", "10"},
		{t3, "57", "15"},
	} {
		s.insert(ctx, `INSERT INTO transcript (student_id, tran_term_id, qtr_grade_points, qtr_graded_attmp)
			VALUES ($1, $2, $3::numeric, $4::numeric) RETURNING id`, studentID, row.term, row.points, row.graded)
	}

	s.insert(ctx, `INSERT INTO student_hold (student_id, seq, hold_reason) VALUES ($1, 2, 'library') RETURNING id`, studentID)
	s.insert(ctx, `INSERT INTO student_hold (student_id, seq, hold_reason) VALUES ($1, 1, 'tuition') RETURNING id`, studentID)
	return studentID
}

func (s *RepositoriesSuite) TestFindPersons() {
	ctx := context.Background()

	s.Run("current and prior login", func() {
		for _, login := range []string{"javerage", "javerage1"} {
			persons, err := s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupLogin, Value: login}, 2)
			s.Require().NoError(err)
			s.Require().Len(persons, 1)
			s.Equal("javerage", *persons[0].UWNetID)
		}
	})

	s.Run("student identifiers", func() {
		persons, err := s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupSystemKey, Value: "532353230"}, 2)
		s.Require().NoError(err)
		s.Len(persons, 1)

		persons, err = s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupStudentNumber, Value: "1033334"}, 2)
		s.Require().NoError(err)
		s.Len(persons, 1)
	})

	s.Run("ambiguous login returns both rows", func() {
		_, err := s.pg.Pool.Exec(ctx, `INSERT INTO person (uwnetid, prior_uwnetids) VALUES ('javerage2', '{javerage}')`)
		s.Require().NoError(err)

		persons, err := s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupLogin, Value: "javerage"}, 2)
		s.Require().NoError(err)
		s.Len(persons, 2)
	})

	s.Run("no match is empty", func() {
		persons, err := s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupRegistryID, Value: "00000000000000000000000000000000"}, 2)
		s.Require().NoError(err)
		s.NotNil(persons)
		s.Empty(persons)
	})
}

func (s *RepositoriesSuite) TestListActive() {
	students, err := s.repos.ListActivePersons(context.Background(), models.ActiveStudents)
	s.Require().NoError(err)
	s.Len(students, 1)

	employees, err := s.repos.ListActivePersons(context.Background(), models.ActiveEmployees)
	s.Require().NoError(err)
	s.Len(employees, 1)
	s.Equal("jadviser", *employees[0].UWNetID)
}

func (s *RepositoriesSuite) TestStudentAggregate() {
	ctx := context.Background()
	persons, err := s.repos.FindPersons(ctx, models.PersonLookup{Kind: models.LookupLogin, Value: "javerage"}, 1)
	s.Require().NoError(err)
	s.Require().Len(persons, 1)

	st, err := s.repos.StudentForPerson(ctx, persons[0].ID)
	s.Require().NoError(err)
	s.Require().NotNil(st)
	s.Require().NotNil(st.AcademicTerm)
	s.Equal(2023, st.AcademicTerm.Year)
	s.Require().Len(st.Majors(), 1)
	s.Equal("CSE", *st.Majors()[0].MajorAbbrCode)
	s.Require().Len(st.PendingMajors(), 1)
	s.Require().Len(st.Advisers, 1)
	s.Equal("jadviser", *st.Advisers[0].Employee.Person.UWNetID)

	employee, err := s.repos.EmployeeForPerson(ctx, persons[0].ID)
	s.Require().NoError(err)
	s.Nil(employee)
}

func (s *RepositoriesSuite) TestTranscriptsAndHolds() {
	ctx := context.Background()

	transcripts, err := s.repos.TranscriptsForStudent(ctx, s.studentID)
	s.Require().NoError(err)
	s.Require().Len(transcripts, 3)
	s.Equal(2023, transcripts[0].TranTerm.Year)
	s.Equal(2, transcripts[0].TranTerm.Quarter)
	s.Equal(2022, transcripts[2].TranTerm.Year)
	s.Equal("3.8", transcripts[0].GPA().String())

	var total decimal.Decimal
	s.Require().NoError(s.pg.Pool.QueryRow(ctx,
		`SELECT SUM(qtr_grade_points) FROM transcript WHERE student_id = $1`, s.studentID).Scan(&total))
	s.True(decimal.NewFromInt(132).Equal(total), total.String())

	holds, err := s.repos.HoldsForStudent(ctx, s.studentID)
	s.Require().NoError(err)
	s.Require().Len(holds, 2)
	s.Equal("tuition", *holds[0].HoldReason)

	transfers, err := s.repos.TransfersForStudent(ctx, s.studentID)
	s.Require().NoError(err)
	s.Empty(transfers)
}

func (s *RepositoriesSuite) TestChildRowKeys() {
	ctx := context.Background()

	s.Run("hold sequence is unique per student", func() {
		_, err := s.pg.Pool.Exec(ctx, `INSERT INTO student_hold (student_id, seq, hold_reason) VALUES ($1, 1, 'again')`, s.studentID)
		s.True(dberrors.IsDuplicateConstraintError(err, "student_hold_student_seq_key"), "%v", err)
	})

	s.Run("degree natural key is unique", func() {
		term := s.insert(ctx, `INSERT INTO term (year, quarter) VALUES (2024, 2) RETURNING id`)
		insert := `INSERT INTO degree (student_id, degree_term_id, campus_code, degree_abbr_code, degree_pathway_num)
			VALUES ($1, $2, 0, 'BS', 0)`
		_, err := s.pg.Pool.Exec(ctx, insert, s.studentID, term)
		s.Require().NoError(err)

		_, err = s.pg.Pool.Exec(ctx, insert, s.studentID, term)
		s.True(dberrors.IsDuplicateConstraintError(err, "degree_natural_key"), "%v", err)
	})
}

func (s *RepositoriesSuite) TestFindAdvisers() {
	ctx := context.Background()

	advisers, err := s.repos.FindAdvisers(ctx, "jadviser", 2)
	s.Require().NoError(err)
	s.Require().Len(advisers, 1)
	s.Equal("jadviser@uw.edu", *advisers[0].AdvisingEmail)
	s.Equal("jadviser", *advisers[0].Employee.Person.UWNetID)

	advisers, err = s.repos.FindAdvisers(ctx, "javerage", 2)
	s.Require().NoError(err)
	s.Empty(advisers)
}

func (s *RepositoriesSuite) TestQueue() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inserted, err := s.repos.Enqueue(ctx, models.PersonQueue, "newperson")
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.repos.Enqueue(ctx, models.PersonQueue, "newperson")
	s.Require().NoError(err)
	s.False(inserted)

	inserted, err = s.repos.Enqueue(ctx, models.EnrolledStudentQueue, "532353230")
	s.Require().NoError(err)
	s.True(inserted)

	counts, err := s.repos.PendingCounts(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts[models.PersonQueue])
	s.Equal(int64(1), counts[models.EnrolledStudentQueue])

	_, err = s.repos.Enqueue(ctx, models.QueueName("unknown"), "x")
	s.Error(err)
}
