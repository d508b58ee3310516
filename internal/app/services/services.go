package services

import (
	"context"

	"github.com/yigit/persondata/internal/app/models"
)

// Services defined in this package:
// - PersonService: resolves person and adviser aggregates
// - QueueService: validated insert-if-absent into the sync queues
// - SyncService: enqueue-and-poll bridge for persons not yet loaded

// PersonStore is the read side of the storage gateway.
//
// Absence of an employee or student row is reported as (nil, nil). Student
// rows come back with their academic term, majors, advisers and sports
// attached; transcripts are ordered most recent term first and holds by
// sequence number.
type PersonStore interface {
	FindPersons(ctx context.Context, lookup models.PersonLookup, limit int) ([]*models.Person, error)
	ListActivePersons(ctx context.Context, kind models.ActiveKind) ([]*models.Person, error)
	EmployeeForPerson(ctx context.Context, personID int64) (*models.Employee, error)
	StudentForPerson(ctx context.Context, personID int64) (*models.Student, error)
	TranscriptsForStudent(ctx context.Context, studentID int64) ([]*models.Transcript, error)
	TransfersForStudent(ctx context.Context, studentID int64) ([]*models.Transfer, error)
	HoldsForStudent(ctx context.Context, studentID int64) ([]*models.StudentHold, error)
	DegreesForStudent(ctx context.Context, studentID int64) ([]*models.Degree, error)
	FindAdvisers(ctx context.Context, login string, limit int) ([]*models.Adviser, error)
}

// QueueStore is the only write surface of the storage gateway.
type QueueStore interface {
	// Enqueue inserts key unless it is already queued and reports whether a
	// row was added.
	Enqueue(ctx context.Context, queue models.QueueName, key string) (bool, error)
	PendingCounts(ctx context.Context) (map[models.QueueName]int64, error)
}

// PersonCache stores flattened aggregates keyed by lookup and options.
// A miss is (nil, nil).
type PersonCache interface {
	Get(ctx context.Context, lookup models.PersonLookup, opts models.Options) (*models.Person, error)
	Set(ctx context.Context, lookup models.PersonLookup, opts models.Options, p *models.Person) error
}
