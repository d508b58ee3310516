package models

import (
	"fmt"
	"time"
)

// Employee holds employment attributes of a Person ('employee' table).
type Employee struct {
	ID                       int64      `db:"id" flat:"-"`
	PersonID                 int64      `db:"person_id" flat:"-"`
	EmployeeNumber           string     `db:"employee_number"`
	EmployeeAffiliationState *string    `db:"employee_affiliation_state"`
	EmailAddresses           []string   `db:"email_addresses"`
	HomeDepartment           *string    `db:"home_department"`
	Title                    *string    `db:"title"`
	Department               *string    `db:"department"`
	LastChanged              *time.Time `db:"_last_changed" flat:"last_changed"`

	// Person is only populated when the employee is reached from an Adviser.
	Person *Person `db:"-"`
}

// Flatten renders the employee and, when loaded, its person.
func (e *Employee) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(e, out)
	if e.Person != nil {
		out["person"] = e.Person.Flatten()
	}
	return out
}

// ReconstructEmployee rebuilds an Employee from its flattened form.
func ReconstructEmployee(m Flattened) (*Employee, error) {
	e := &Employee{}
	if err := reconstructColumns(m, e); err != nil {
		return nil, fmt.Errorf("employee: %w", err)
	}
	sub, err := nested(m, "person")
	if err != nil {
		return nil, fmt.Errorf("employee: %w", err)
	}
	if sub != nil {
		if e.Person, err = ReconstructPerson(sub); err != nil {
			return nil, fmt.Errorf("employee: %w", err)
		}
	}
	return e, nil
}

// Adviser carries advising attributes of an Employee ('adviser' table).
type Adviser struct {
	ID                  int64      `db:"id" flat:"-"`
	EmployeeID          int64      `db:"employee_id" flat:"-"`
	IsDeptAdviser       *bool      `db:"is_dept_adviser"`
	AdvisingEmail       *string    `db:"advising_email"`
	AdvisingPhoneNumber *string    `db:"advising_phone_number"`
	AdvisingProgram     *string    `db:"advising_program"`
	AdvisingPronouns    *string    `db:"advising_pronouns"`
	BookingURL          *string    `db:"booking_url"`
	LastChanged         *time.Time `db:"_last_changed" flat:"last_changed"`

	Employee *Employee `db:"-"`
}

// Flatten renders the adviser with its employee and person nested.
func (a *Adviser) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(a, out)
	if a.Employee != nil {
		out["employee"] = a.Employee.Flatten()
	}
	return out
}

// ReconstructAdviser rebuilds an Adviser from its flattened form.
func ReconstructAdviser(m Flattened) (*Adviser, error) {
	a := &Adviser{}
	if err := reconstructColumns(m, a); err != nil {
		return nil, fmt.Errorf("adviser: %w", err)
	}
	sub, err := nested(m, "employee")
	if err != nil {
		return nil, fmt.Errorf("adviser: %w", err)
	}
	if sub != nil {
		if a.Employee, err = ReconstructEmployee(sub); err != nil {
			return nil, fmt.Errorf("adviser: %w", err)
		}
	}
	return a, nil
}
