package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func samplePerson() *Person {
	changed := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)
	return &Person{
		ID:                42,
		UWNetID:           strPtr("javerage"),
		UWRegID:           strPtr("9136CCB8F66711D5BE060004AC494FFE"),
		FirstName:         strPtr("James"),
		Surname:           strPtr("Average"),
		DisplayName:       strPtr("James Average"),
		WhitepagesPublish: boolPtr(true),
		IsActiveStudent:   boolPtr(true),
		IsActiveEmployee:  boolPtr(false),
		LastChanged:       &changed,
		SystemKey:         strPtr("532353230"),
		PriorUWNetIDs:     []string{},
		PriorUWRegIDs:     []string{"9136CCB8F66711D5BE060004AC494FF0"},
	}
}

func sampleStudent() *Student {
	birth := time.Date(1999, 2, 3, 0, 0, 0, 0, time.UTC)
	pre := &Major{ID: 1, MajorAbbrCode: strPtr("PRE SOC"), MajorName: strPtr("PRE SOCIAL SCIENCE"), MajorPremaj: boolPtr(true)}
	stat := &Major{ID: 2, MajorAbbrCode: strPtr("STAT"), MajorName: strPtr("STATISTICS"), MajorCipCode: intPtr(270501)}
	return &Student{
		ID:                  7,
		SystemKey:           "532353230",
		StudentNumber:       strPtr("1033334"),
		Birthdate:           &birth,
		ClassCode:           intPtr(4),
		RequestedMajor1Code: strPtr("STAT"),
		RequestedMajor3Code: strPtr("MATH"),
		IntendedMajor1Code:  strPtr("ECON"),
		IntendedMajor2Code:  strPtr("STAT"),
		AcademicTerm:        &Term{Year: 2013, Quarter: 1},
		Major1:              pre,
		Major3:              stat,
		Sports:              []*Sport{{ShortSportName: strPtr("GLF")}},
		Advisers: []*Adviser{{
			AdvisingEmail: strPtr("jadviser@uw.edu"),
			Employee: &Employee{
				EmployeeNumber: "200000000",
				EmailAddresses: []string{"jadviser@uw.edu"},
				Person:         &Person{UWNetID: strPtr("jadviser"), FirstName: strPtr("Jay"), PriorUWNetIDs: []string{"jadviser1"}, PriorUWRegIDs: []string{}},
			},
		}},
	}
}

func TestPerson_FlattenOmitsUnrequestedSlots(t *testing.T) {
	p := samplePerson()
	data := p.Flatten()

	assert.Equal(t, "javerage", data["uwnetid"])
	assert.Equal(t, "532353230", data["system_key"])
	assert.Equal(t, true, data["is_active_student"])
	assert.Equal(t, "2024-05-01T17:30:00Z", data["last_changed"])
	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "employee")
	assert.NotContains(t, data, "student")
	assert.Nil(t, data["pronouns"])

	p.AttachEmployee(nil)
	data = p.Flatten()
	require.Contains(t, data, "employee")
	assert.Nil(t, data["employee"])
}

func TestStudent_DerivedMajorLists(t *testing.T) {
	s := sampleStudent()

	majors := s.Majors()
	require.Len(t, majors, 2)
	assert.Equal(t, "PRE SOCIAL SCIENCE", *majors[0].MajorName)
	assert.Equal(t, "STATISTICS", *majors[1].MajorName)
	assert.Empty(t, s.PendingMajors())
	assert.Equal(t, []string{"STAT", "MATH"}, s.RequestedMajors())
	assert.Equal(t, []string{"ECON", "STAT"}, s.IntendedMajors())

	require.NoError(t, s.SetMajors(append(s.Majors(), &Major{MajorName: strPtr("MATH")})))
	assert.Len(t, s.Majors(), 3)
	assert.NotNil(t, s.Major2)

	require.NoError(t, s.SetPendingMajors([]*Major{{}, {}}))
	assert.Len(t, s.PendingMajors(), 2)
	assert.Nil(t, s.PendingMajor3)

	err := s.SetMajors([]*Major{{}, {}, {}, {}})
	assert.ErrorIs(t, err, ErrTooManyMajors)
}

func TestStudent_FlattenDistinguishesUnfetchedFromEmpty(t *testing.T) {
	s := sampleStudent()
	s.Transcripts = []*Transcript{}

	data := s.Flatten()
	assert.NotContains(t, data, "transfers")
	assert.NotContains(t, data, "holds")
	assert.NotContains(t, data, "degrees")
	require.Contains(t, data, "transcripts")
	assert.Empty(t, data["transcripts"])
	assert.Len(t, data["majors"], 2)
	assert.Len(t, data["pending_majors"], 0)
	assert.Len(t, data["sports"], 1)
	assert.NotContains(t, data, "major_1_id")
}

func TestPerson_RoundTrip(t *testing.T) {
	p := samplePerson()
	s := sampleStudent()
	s.Transcripts = []*Transcript{{
		TranTerm:        &Term{Year: 2022, Quarter: 2},
		QtrGradePoints:  MustDecimal("19"),
		QtrGradedAttmp:  MustDecimal("4"),
		QtrNongrdEarned: MustDecimal("1"),
		OverQtrNongrd:   MustDecimal("2"),
	}}
	s.Holds = []*StudentHold{{Seq: 1, HoldOffice: strPtr("UWEXT")}}
	s.Degrees = []*Degree{{DegreeAbbrCode: strPtr("STAT"), DegreeUWCredits: MustDecimal("180"), DegreeTerm: &Term{Year: 2023, Quarter: 2}}}
	s.Transfers = []*Transfer{}
	p.AttachStudent(s)
	p.AttachEmployee(&Employee{EmployeeNumber: "100000000", EmailAddresses: []string{"a@uw.edu", "b@uw.edu"}})

	first := p.Flatten()
	rebuilt, err := ReconstructPerson(first)
	require.NoError(t, err)
	assert.Equal(t, first, rebuilt.Flatten())

	assert.True(t, rebuilt.StudentIncluded)
	assert.NotNil(t, rebuilt.Student.Transfers)
	assert.Empty(t, rebuilt.Student.Transfers)
	assert.Equal(t, "PRE SOCIAL SCIENCE", *rebuilt.Student.Major1.MajorName)
	assert.Equal(t, "STATISTICS", *rebuilt.Student.Major2.MajorName)
}

func TestPerson_RoundTripThroughJSON(t *testing.T) {
	p := samplePerson()
	s := sampleStudent()
	s.Holds = []*StudentHold{{Seq: 2, HoldType: intPtr(5)}}
	p.AttachStudent(s)
	first := p.Flatten()

	raw, err := json.Marshal(first)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	rebuilt, err := ReconstructPerson(decoded)
	require.NoError(t, err)

	again, err := json.Marshal(rebuilt.Flatten())
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
}

func TestAdviser_FlattenNestsEmployeeAndPerson(t *testing.T) {
	a := sampleStudent().Advisers[0]
	a.AdvisingProgram = strPtr("OMAD Advising")

	data := a.Flatten()
	assert.Equal(t, "OMAD Advising", data["advising_program"])
	employee := data["employee"].(Flattened)
	assert.Equal(t, "200000000", employee["employee_number"])
	person := employee["person"].(Flattened)
	assert.Equal(t, "Jay", person["first_name"])

	rebuilt, err := ReconstructAdviser(data)
	require.NoError(t, err)
	assert.Equal(t, data, rebuilt.Flatten())
}

func TestReconstructPerson_RejectsBadTypes(t *testing.T) {
	_, err := ReconstructPerson(Flattened{"uwnetid": 12})
	assert.Error(t, err)

	_, err = ReconstructPerson(Flattened{"student": "nope"})
	assert.Error(t, err)

	_, err = ReconstructPerson(Flattened{"last_changed": "yesterday"})
	assert.Error(t, err)

	_, err = ReconstructTerm(Flattened{"year": 2023.5, "quarter": 1})
	assert.ErrorContains(t, err, "expected integer")
}

func TestReconstructColumns_DecodesLooseInput(t *testing.T) {
	term, err := ReconstructTerm(Flattened{"year": float64(2023), "quarter": json.Number("2"), "id": 99})
	require.NoError(t, err)
	assert.Equal(t, Term{Year: 2023, Quarter: 2}, *term)

	p, err := ReconstructPerson(Flattened{
		"uwnetid":           "javerage",
		"is_active_student": true,
		"last_changed":      "2024-01-02T03:04:05Z",
		"prior_uwnetids":    []any{"javerage1"},
		"system_key":        nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "javerage", p.NetID())
	require.NotNil(t, p.IsActiveStudent)
	assert.True(t, *p.IsActiveStudent)
	require.NotNil(t, p.LastChanged)
	assert.Equal(t, 2024, p.LastChanged.Year())
	assert.Equal(t, []string{"javerage1"}, p.PriorUWNetIDs)
	assert.Nil(t, p.SystemKey)

	tr, err := ReconstructTranscript(Flattened{"qtr_grade_points": 19.5, "qtr_graded_attmp": "4"})
	require.NoError(t, err)
	assert.Equal(t, "19.5", tr.QtrGradePoints.String())
	assert.Equal(t, "4.0", tr.QtrGradedAttmp.String())
	assert.False(t, tr.OverQtrGradePt.Valid())
}

func TestColumns(t *testing.T) {
	cols := Columns[Person]()
	assert.Equal(t, "id", cols[0])
	assert.Contains(t, cols, "_is_active_student")
	assert.Contains(t, cols, "prior_uwnetids")
	assert.NotContains(t, cols, "employee")

	qualified := QualifiedColumns[Term]("term")
	assert.Equal(t, []string{"term.id", "term.year", "term.quarter"}, qualified)
}
