package models

import (
	"fmt"
	"time"
)

// Person is the identity root of every aggregate, backed by the 'person' table.
type Person struct {
	ID                  int64      `db:"id" flat:"-"`
	UWNetID             *string    `db:"uwnetid"`
	UWRegID             *string    `db:"uwregid"`
	Pronouns            *string    `db:"pronouns"`
	FullName            *string    `db:"full_name"`
	DisplayName         *string    `db:"display_name"`
	FirstName           *string    `db:"first_name"`
	Surname             *string    `db:"surname"`
	PreferredFirstName  *string    `db:"preferred_first_name"`
	PreferredMiddleName *string    `db:"preferred_middle_name"`
	PreferredSurname    *string    `db:"preferred_surname"`
	WhitepagesPublish   *bool      `db:"whitepages_publish"`
	IsActiveStudent     *bool      `db:"_is_active_student" flat:"is_active_student"`
	IsActiveEmployee    *bool      `db:"_is_active_employee" flat:"is_active_employee"`
	LastChanged         *time.Time `db:"_last_changed" flat:"last_changed"`
	SystemKey           *string    `db:"system_key"`
	PriorUWNetIDs       []string   `db:"prior_uwnetids"`
	PriorUWRegIDs       []string   `db:"prior_uwregids"`

	// Relations. A slot is only meaningful when its Included flag is set;
	// Included with a nil value means "requested, absent".
	Employee         *Employee `db:"-"`
	EmployeeIncluded bool      `db:"-"`
	Student          *Student  `db:"-"`
	StudentIncluded  bool      `db:"-"`
}

// NetID returns the current login identifier or "".
func (p *Person) NetID() string {
	return deref(p.UWNetID)
}

// HasSystemKey reports whether the person carries a non-empty system key.
func (p *Person) HasSystemKey() bool {
	return p.SystemKey != nil && *p.SystemKey != ""
}

// AttachEmployee fills the employee slot; e may be nil.
func (p *Person) AttachEmployee(e *Employee) {
	p.Employee = e
	p.EmployeeIncluded = true
}

// AttachStudent fills the student slot; s may be nil.
func (p *Person) AttachStudent(s *Student) {
	p.Student = s
	p.StudentIncluded = true
}

// Flatten renders the person and whichever slots were requested.
func (p *Person) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(p, out)
	if p.EmployeeIncluded {
		if p.Employee != nil {
			out["employee"] = p.Employee.Flatten()
		} else {
			out["employee"] = nil
		}
	}
	if p.StudentIncluded {
		if p.Student != nil {
			out["student"] = p.Student.Flatten()
		} else {
			out["student"] = nil
		}
	}
	return out
}

// ReconstructPerson rebuilds a Person from its flattened form.
func ReconstructPerson(m Flattened) (*Person, error) {
	p := &Person{}
	if err := reconstructColumns(m, p); err != nil {
		return nil, fmt.Errorf("person: %w", err)
	}

	if _, ok := m["employee"]; ok {
		sub, err := nested(m, "employee")
		if err != nil {
			return nil, fmt.Errorf("person: %w", err)
		}
		var e *Employee
		if sub != nil {
			if e, err = ReconstructEmployee(sub); err != nil {
				return nil, fmt.Errorf("person: %w", err)
			}
		}
		p.AttachEmployee(e)
	}

	if _, ok := m["student"]; ok {
		sub, err := nested(m, "student")
		if err != nil {
			return nil, fmt.Errorf("person: %w", err)
		}
		var s *Student
		if sub != nil {
			if s, err = ReconstructStudent(sub); err != nil {
				return nil, fmt.Errorf("person: %w", err)
			}
		}
		p.AttachStudent(s)
	}

	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
