package models

import (
	"strings"
	"time"
)

// Options selects which sub-aggregates are attached to a resolved person.
// Every switch only adds data; the student sub-switches are ignored unless
// IncludeStudent is set.
type Options struct {
	IncludeEmployee           bool
	IncludeStudent            bool
	IncludeStudentTranscripts bool
	IncludeStudentTransfers   bool
	IncludeStudentHolds       bool
	IncludeStudentDegrees     bool
}

// Key is a stable fingerprint used in cache keys.
func (o Options) Key() string {
	var b strings.Builder
	for _, on := range []bool{
		o.IncludeEmployee,
		o.IncludeStudent,
		o.IncludeStudent && o.IncludeStudentTranscripts,
		o.IncludeStudent && o.IncludeStudentTransfers,
		o.IncludeStudent && o.IncludeStudentHolds,
		o.IncludeStudent && o.IncludeStudentDegrees,
	} {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// LookupKind names the identifier class a person is resolved by.
type LookupKind string

const (
	LookupLogin         LookupKind = "login"
	LookupRegistryID    LookupKind = "regid"
	LookupSystemKey     LookupKind = "systemkey"
	LookupStudentNumber LookupKind = "studentnumber"
)

// PersonLookup is a single identifier-based predicate. Login and registry id
// lookups also match the prior identifier arrays.
type PersonLookup struct {
	Kind  LookupKind
	Value string
}

// ActiveKind selects a bulk listing.
type ActiveKind string

const (
	ActiveStudents  ActiveKind = "students"
	ActiveEmployees ActiveKind = "employees"
)

// QueueName identifies one of the sync work-item tables.
type QueueName string

const (
	PersonQueue          QueueName = "person_queue"
	EnrolledStudentQueue QueueName = "enrolled_student_queue"
)

// QueueItem is a pending sync request; drained by the external loader.
type QueueItem struct {
	Queue     QueueName
	Key       string
	CreatedAt time.Time
}
