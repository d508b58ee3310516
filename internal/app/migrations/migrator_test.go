package migrations

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMigrator(db), mock
}

var (
	createTracking = regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")
	checkApplied   = regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)")
	recordApplied  = regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")
)

func TestApply_RunsPendingInOrder(t *testing.T) {
	m, mock := newMock(t)
	fsys := fstest.MapFS{
		"002_queue.sql":  {Data: []byte("CREATE TABLE b ();")},
		"001_person.sql": {Data: []byte("CREATE TABLE a ();")},
		"README.md":      {Data: []byte("ignored")},
	}

	mock.ExpectExec(createTracking).WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(checkApplied).WithArgs("001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a ();")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(recordApplied).WithArgs("001").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(checkApplied).WithArgs("002").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	applied, err := m.Apply(context.Background(), fsys)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	m, mock := newMock(t)
	fsys := fstest.MapFS{"001_person.sql": {Data: []byte("CREATE TABLE broken")}}

	mock.ExpectExec(createTracking).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(checkApplied).WithArgs("001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	applied, err := m.Apply(context.Background(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_person.sql")
	assert.Zero(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_TrackingTableFailure(t *testing.T) {
	m, mock := newMock(t)
	mock.ExpectExec(createTracking).WillReturnError(errors.New("permission denied"))

	_, err := m.Apply(context.Background(), fstest.MapFS{})
	assert.ErrorContains(t, err, "migration tracking table")
}

func TestEmbeddedSchemaCoversEveryTable(t *testing.T) {
	names, err := fs.Glob(Schema(), "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	content, err := fs.ReadFile(Schema(), names[0])
	require.NoError(t, err)
	for _, table := range []string{
		"person", "employee", "adviser", "term", "major", "sport", "student",
		"student_to_adviser", "student_to_sport", "student_hold", "degree",
		"transcript", "transfer", "person_queue", "enrolled_student_queue",
	} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}

	for _, key := range []string{
		"UNIQUE (year, quarter)",
		"student_hold_student_seq_key UNIQUE (student_id, seq)",
		"degree_natural_key UNIQUE (student_id, degree_term_id, campus_code, degree_abbr_code, degree_pathway_num)",
	} {
		assert.Contains(t, string(content), key)
	}
}

func TestMigrateFromDirectory_MissingDir(t *testing.T) {
	m, _ := newMock(t)
	_, err := m.MigrateFromDirectory(context.Background(), "/nonexistent/migrations")
	assert.ErrorContains(t, err, "migration directory")
}
