// Package memory is an in-process storage gateway used by tests and by the
// memory server mode.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/yigit/persondata/internal/app/models"
)

// Store keeps every table in maps keyed by row id. Reads hand out copies, so
// callers may attach relations without touching stored rows.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time

	persons     map[int64]*models.Person
	employees   map[int64]*models.Employee
	advisers    map[int64]*models.Adviser
	students    map[int64]*models.Student
	terms       map[int64]*models.Term
	majors      map[int64]*models.Major
	sports      map[int64]*models.Sport
	transcripts map[int64]*models.Transcript
	transfers   map[int64]*models.Transfer
	holds       map[int64]*models.StudentHold
	degrees     map[int64]*models.Degree

	studentAdvisers map[int64][]int64
	studentSports   map[int64][]int64

	queues map[models.QueueName]map[string]time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:             time.Now,
		persons:         make(map[int64]*models.Person),
		employees:       make(map[int64]*models.Employee),
		advisers:        make(map[int64]*models.Adviser),
		students:        make(map[int64]*models.Student),
		terms:           make(map[int64]*models.Term),
		majors:          make(map[int64]*models.Major),
		sports:          make(map[int64]*models.Sport),
		transcripts:     make(map[int64]*models.Transcript),
		transfers:       make(map[int64]*models.Transfer),
		holds:           make(map[int64]*models.StudentHold),
		degrees:         make(map[int64]*models.Degree),
		studentAdvisers: make(map[int64][]int64),
		studentSports:   make(map[int64][]int64),
		queues: map[models.QueueName]map[string]time.Time{
			models.PersonQueue:          {},
			models.EnrolledStudentQueue: {},
		},
	}
}

// assign hands out the next id unless the row already carries one.
func (s *Store) assign(id int64) int64 {
	if id == 0 {
		s.nextID++
		return s.nextID
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

func (s *Store) AddPerson(p models.Person) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.assign(p.ID)
	p.Employee, p.EmployeeIncluded, p.Student, p.StudentIncluded = nil, false, nil, false
	s.persons[p.ID] = &p
	return p.ID
}

func (s *Store) AddEmployee(e models.Employee) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.assign(e.ID)
	e.Person = nil
	s.employees[e.ID] = &e
	return e.ID
}

func (s *Store) AddAdviser(a models.Adviser) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.assign(a.ID)
	a.Employee = nil
	s.advisers[a.ID] = &a
	return a.ID
}

// AddStudent stores the row only; relations are linked by id.
func (s *Store) AddStudent(st models.Student) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.assign(st.ID)
	st.AcademicTerm = nil
	st.Major1, st.Major2, st.Major3 = nil, nil, nil
	st.PendingMajor1, st.PendingMajor2, st.PendingMajor3 = nil, nil, nil
	st.Advisers, st.Sports = nil, nil
	st.Transcripts, st.Transfers, st.Holds, st.Degrees = nil, nil, nil, nil
	s.students[st.ID] = &st
	return st.ID
}

func (s *Store) AddTerm(t models.Term) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.assign(t.ID)
	s.terms[t.ID] = &t
	return t.ID
}

func (s *Store) AddMajor(m models.Major) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.assign(m.ID)
	s.majors[m.ID] = &m
	return m.ID
}

func (s *Store) AddSport(sp models.Sport) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp.ID = s.assign(sp.ID)
	s.sports[sp.ID] = &sp
	return sp.ID
}

func (s *Store) AddTranscript(t models.Transcript) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.assign(t.ID)
	t.TranTerm, t.LeaveEndsTerm = nil, nil
	s.transcripts[t.ID] = &t
	return t.ID
}

func (s *Store) AddTransfer(t models.Transfer) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.assign(t.ID)
	s.transfers[t.ID] = &t
	return t.ID
}

func (s *Store) AddHold(h models.StudentHold) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.assign(h.ID)
	s.holds[h.ID] = &h
	return h.ID
}

func (s *Store) AddDegree(d models.Degree) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.assign(d.ID)
	d.DegreeTerm = nil
	s.degrees[d.ID] = &d
	return d.ID
}

// LinkAdviser records a student_to_adviser row.
func (s *Store) LinkAdviser(studentID, adviserID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.studentAdvisers[studentID], adviserID) {
		s.studentAdvisers[studentID] = append(s.studentAdvisers[studentID], adviserID)
	}
}

// LinkSport records a student_to_sport row.
func (s *Store) LinkSport(studentID, sportID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.studentSports[studentID], sportID) {
		s.studentSports[studentID] = append(s.studentSports[studentID], sportID)
	}
}

// FindPersons returns up to limit persons matching lookup, in id order.
func (s *Store) FindPersons(ctx context.Context, lookup models.PersonLookup, limit int) ([]*models.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Person
	for _, id := range sortedIDs(s.persons) {
		p := s.persons[id]
		if !s.matches(p, lookup) {
			continue
		}
		out = append(out, copyPerson(p))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) matches(p *models.Person, lookup models.PersonLookup) bool {
	switch lookup.Kind {
	case models.LookupLogin:
		return matchesCurrentOrPrior(p.UWNetID, p.PriorUWNetIDs, lookup.Value)
	case models.LookupRegistryID:
		return matchesCurrentOrPrior(p.UWRegID, p.PriorUWRegIDs, lookup.Value)
	case models.LookupSystemKey:
		for _, st := range s.students {
			if st.PersonID == p.ID && st.SystemKey == lookup.Value {
				return true
			}
		}
	case models.LookupStudentNumber:
		for _, st := range s.students {
			if st.PersonID == p.ID && st.StudentNumber != nil && *st.StudentNumber == lookup.Value {
				return true
			}
		}
	}
	return false
}

func matchesCurrentOrPrior(current *string, prior []string, value string) bool {
	if current != nil && *current == value {
		return true
	}
	return slices.Contains(prior, value)
}

// ListActivePersons returns every person with the selected active flag set.
func (s *Store) ListActivePersons(ctx context.Context, kind models.ActiveKind) ([]*models.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Person{}
	for _, id := range sortedIDs(s.persons) {
		p := s.persons[id]
		flag := p.IsActiveStudent
		if kind == models.ActiveEmployees {
			flag = p.IsActiveEmployee
		}
		if flag != nil && *flag {
			out = append(out, copyPerson(p))
		}
	}
	return out, nil
}

// EmployeeForPerson returns the most recently changed employee row.
func (s *Store) EmployeeForPerson(ctx context.Context, personID int64) (*models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.employeeForPerson(personID)
	if e == nil {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *Store) employeeForPerson(personID int64) *models.Employee {
	var best *models.Employee
	for _, id := range sortedIDs(s.employees) {
		e := s.employees[id]
		if e.PersonID != personID {
			continue
		}
		if best == nil || changedAfter(e.LastChanged, best.LastChanged) {
			best = e
		}
	}
	return best
}

func changedAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	return b == nil || !a.Before(*b)
}

// StudentForPerson returns the student row with its term, majors, advisers
// and sports attached.
func (s *Store) StudentForPerson(ctx context.Context, personID int64) (*models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row *models.Student
	for _, id := range sortedIDs(s.students) {
		if s.students[id].PersonID == personID {
			row = s.students[id]
			break
		}
	}
	if row == nil {
		return nil, nil
	}

	st := *row
	if st.AcademicTermID != nil {
		st.AcademicTerm = s.term(*st.AcademicTermID)
	}
	byID := make(map[int64]*models.Major)
	for _, id := range st.MajorIDs() {
		if m, ok := s.majors[id]; ok {
			cp := *m
			byID[id] = &cp
		}
	}
	st.ResolveMajors(byID)

	st.Advisers = []*models.Adviser{}
	ids := slices.Clone(s.studentAdvisers[st.ID])
	slices.Sort(ids)
	for _, id := range ids {
		if a := s.adviser(id); a != nil {
			st.Advisers = append(st.Advisers, a)
		}
	}

	st.Sports = []*models.Sport{}
	ids = slices.Clone(s.studentSports[st.ID])
	slices.Sort(ids)
	for _, id := range ids {
		if sp, ok := s.sports[id]; ok {
			cp := *sp
			st.Sports = append(st.Sports, &cp)
		}
	}
	return &st, nil
}

// adviser copies an adviser with its employee and the employee's person.
func (s *Store) adviser(id int64) *models.Adviser {
	row, ok := s.advisers[id]
	if !ok {
		return nil
	}
	a := *row
	if e, ok := s.employees[a.EmployeeID]; ok {
		emp := *e
		if p, ok := s.persons[emp.PersonID]; ok {
			emp.Person = copyPerson(p)
		}
		a.Employee = &emp
	}
	return &a
}

func (s *Store) term(id int64) *models.Term {
	t, ok := s.terms[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

func (s *Store) TranscriptsForStudent(ctx context.Context, studentID int64) ([]*models.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Transcript{}
	for _, id := range sortedIDs(s.transcripts) {
		row := s.transcripts[id]
		if row.StudentID != studentID {
			continue
		}
		t := *row
		if t.TranTermID != nil {
			t.TranTerm = s.term(*t.TranTermID)
		}
		if t.LeaveEndsTermID != nil {
			t.LeaveEndsTerm = s.term(*t.LeaveEndsTermID)
		}
		out = append(out, &t)
	}
	models.SortTranscripts(out)
	return out, nil
}

func (s *Store) TransfersForStudent(ctx context.Context, studentID int64) ([]*models.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return childrenOf(s.transfers, func(t *models.Transfer) bool { return t.StudentID == studentID }), nil
}

func (s *Store) HoldsForStudent(ctx context.Context, studentID int64) ([]*models.StudentHold, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := childrenOf(s.holds, func(h *models.StudentHold) bool { return h.StudentID == studentID })
	models.SortHolds(out)
	return out, nil
}

func (s *Store) DegreesForStudent(ctx context.Context, studentID int64) ([]*models.Degree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := childrenOf(s.degrees, func(d *models.Degree) bool { return d.StudentID == studentID })
	for _, d := range out {
		if d.DegreeTermID != nil {
			d.DegreeTerm = s.term(*d.DegreeTermID)
		}
	}
	return out, nil
}

// FindAdvisers walks person (current or prior login) to employee to adviser.
func (s *Store) FindAdvisers(ctx context.Context, login string, limit int) ([]*models.Adviser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	persons := make(map[int64]bool)
	for id, p := range s.persons {
		if matchesCurrentOrPrior(p.UWNetID, p.PriorUWNetIDs, login) {
			persons[id] = true
		}
	}

	var out []*models.Adviser
	for _, id := range sortedIDs(s.advisers) {
		e, ok := s.employees[s.advisers[id].EmployeeID]
		if !ok || !persons[e.PersonID] {
			continue
		}
		out = append(out, s.adviser(id))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Enqueue inserts key into queue unless it is already present.
func (s *Store) Enqueue(ctx context.Context, queue models.QueueName, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[queue]
	if !ok {
		q = make(map[string]time.Time)
		s.queues[queue] = q
	}
	if _, exists := q[key]; exists {
		return false, nil
	}
	q[key] = s.now()
	return true, nil
}

func (s *Store) PendingCounts(ctx context.Context) (map[models.QueueName]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.QueueName]int64, len(s.queues))
	for name, q := range s.queues {
		out[name] = int64(len(q))
	}
	return out, nil
}

// Queued lists the items of one queue in insertion order.
func (s *Store) Queued(queue models.QueueName) []models.QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.QueueItem, 0, len(s.queues[queue]))
	for key, at := range s.queues[queue] {
		items = append(items, models.QueueItem{Queue: queue, Key: key, CreatedAt: at})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Key < items[j].Key
	})
	return items
}

func copyPerson(p *models.Person) *models.Person {
	cp := *p
	cp.Employee, cp.EmployeeIncluded, cp.Student, cp.StudentIncluded = nil, false, nil, false
	return &cp
}

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// childrenOf copies the rows of m accepted by keep, in id order. The result
// is never nil.
func childrenOf[T any](m map[int64]*T, keep func(*T) bool) []*T {
	out := []*T{}
	for _, id := range sortedIDs(m) {
		if keep(m[id]) {
			cp := *m[id]
			out = append(out, &cp)
		}
	}
	return out
}
