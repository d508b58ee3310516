package memory

import (
	"time"

	"github.com/yigit/persondata/internal/app/models"
)

// Fixture logins seeded by Seed.
const (
	FixtureStudent  = "javerage"
	FixtureEmployee = "bill"
	FixtureAthlete  = "jbothell"
	FixtureAdviser  = "jadviser"
)

// NewSeeded returns a store populated by Seed.
func NewSeeded() *Store {
	s := NewStore()
	Seed(s)
	return s
}

// Seed loads four people: a student with a full academic record, an
// employee, a student athlete with an adviser and the adviser.
func Seed(s *Store) {
	changed := time.Date(2024, 1, 8, 16, 0, 0, 0, time.UTC)

	term20204 := s.AddTerm(models.Term{Year: 2020, Quarter: 4})
	term20211 := s.AddTerm(models.Term{Year: 2021, Quarter: 1})
	term20222 := s.AddTerm(models.Term{Year: 2022, Quarter: 2})
	term20131 := s.AddTerm(models.Term{Year: 2013, Quarter: 1})
	term20133 := s.AddTerm(models.Term{Year: 2013, Quarter: 3})
	term20232 := s.AddTerm(models.Term{Year: 2023, Quarter: 2})

	preSocial := s.AddMajor(models.Major{
		MajorAbbrCode: str("PRE SS"), MajorName: str("PRE SOCIAL SCIENCE"),
		MajorFullName: str("PRE SOCIAL SCIENCE"), MajorPremaj: flag(true), MajorUndergrad: flag(true),
	})
	statistics := s.AddMajor(models.Major{
		MajorAbbrCode: str("STAT"), MajorName: str("STATISTICS"),
		MajorFullName: str("STATISTICS"), MajorCipCode: num(270501), MajorUndergrad: flag(true),
	})
	intlStudies := s.AddMajor(models.Major{
		MajorAbbrCode: str("INTL"), MajorName: str("INTERNATIONAL STUDIES"),
		MajorFullName: str("INTERNATIONAL STUDIES"), MajorBranch: num(1), MajorUndergrad: flag(true),
	})
	economics := s.AddMajor(models.Major{
		MajorAbbrCode: str("ECON"), MajorName: str("ECONOMICS"),
		MajorFullName: str("ECONOMICS"), MajorUndergrad: flag(true),
	})
	golf := s.AddSport(models.Sport{SportCode: str("18"), ShortSportName: str("GLF"), SportDescrip: str("WOMEN'S GOLF")})

	// javerage
	javerage := s.AddPerson(models.Person{
		UWNetID:          str(FixtureStudent),
		UWRegID:          str("9136CCB8F66711D5BE060004AC494FFE"),
		PriorUWNetIDs:    []string{},
		PriorUWRegIDs:    []string{"9136CCB8F66711D5BE060004AC494FF0"},
		FirstName:        str("James"),
		Surname:          str("Average"),
		DisplayName:      str("James Average Student"),
		FullName:         str("JAMES AVERAGE STUDENT"),
		IsActiveStudent:  flag(true),
		IsActiveEmployee: flag(false),
		SystemKey:        str("532353230"),
		LastChanged:      &changed,
	})
	javerageStudent := s.AddStudent(models.Student{
		PersonID:            javerage,
		SystemKey:           "532353230",
		StudentNumber:       str("1033334"),
		StudentEmail:        str("javerage@uw.edu"),
		ClassCode:           num(4),
		ClassDesc:           str("SENIOR"),
		AcademicTermID:      &term20131,
		Major1ID:            &preSocial,
		Major2ID:            &statistics,
		RequestedMajor1Code: str("STAT"),
		RequestedMajor2Code: str("ECON"),
		IntendedMajor1Code:  str("MATH"),
		IntendedMajor3Code:  str("PHYS"),
		LastChanged:         &changed,
	})
	s.AddTranscript(models.Transcript{
		StudentID: javerageStudent, TranTermID: &term20211,
		QtrGradePoints: models.MustDecimal("42.6"), QtrGradedAttmp: models.MustDecimal("12"),
		QtrDeductible: models.MustDecimal("0"), QtrNongrdEarned: models.MustDecimal("3"),
		NumCourses: num(4), AddToCum: flag(true),
	})
	s.AddTranscript(models.Transcript{
		StudentID: javerageStudent, TranTermID: &term20222,
		QtrDeductible: models.MustDecimal("1"), QtrGradePoints: models.MustDecimal("12"),
		OverQtrGradePt: models.MustDecimal("19"), QtrGradedAttmp: models.MustDecimal("4"),
		QtrNongrdEarned: models.MustDecimal("1"), OverQtrNongrd: models.MustDecimal("2"),
		NumCourses: num(2), AddToCum: flag(true),
	})
	s.AddTranscript(models.Transcript{
		StudentID: javerageStudent, TranTermID: &term20204,
		QtrGradePoints: models.MustDecimal("45"), QtrGradedAttmp: models.MustDecimal("15"),
		NumCourses: num(3), AddToCum: flag(true),
	})
	s.AddTransfer(models.Transfer{
		StudentID: javerageStudent, InstitutionCode: str("4567"),
		InstitutionName: str("BELLEVUE COLLEGE"), TransferGPA: models.MustDecimal("3.4"),
		YearBeginning: num(2016), YearEnding: num(2018), TwoYear: flag(true), WaCC: flag(true),
	})
	s.AddHold(models.StudentHold{StudentID: javerageStudent, Seq: 2, HoldOffice: str("UWREG"), HoldReason: str("IMMUNIZATION")})
	s.AddHold(models.StudentHold{StudentID: javerageStudent, Seq: 1, HoldOffice: str("UWEXT"), HoldReason: str("TUITION")})
	s.AddDegree(models.Degree{
		StudentID: javerageStudent, DegreeTermID: &term20232, CampusCode: num(0),
		DegreeAbbrCode: str("STAT"), DegreePathwayNum: num(0), DegreeDesc: str("BACHELOR OF SCIENCE"),
		DegreeUWCredits: models.MustDecimal("180"), DegreeTransferCredits: models.MustDecimal("45"),
	})

	// bill
	bill := s.AddPerson(models.Person{
		UWNetID:          str(FixtureEmployee),
		UWRegID:          str("FBB38FE46A7C11D5A4AE0004AC494FFE"),
		PriorUWNetIDs:    []string{},
		PriorUWRegIDs:    []string{},
		FirstName:        str("Bill"),
		Surname:          str("Teacher"),
		DisplayName:      str("Bill Teacher"),
		IsActiveStudent:  flag(false),
		IsActiveEmployee: flag(true),
		LastChanged:      &changed,
	})
	s.AddEmployee(models.Employee{
		PersonID:                 bill,
		EmployeeNumber:           "100000000",
		EmployeeAffiliationState: str("current"),
		EmailAddresses:           []string{"bill@uw.edu"},
		HomeDepartment:           str("COMPUTER SCIENCE"),
		Title:                    str("Lecturer"),
		LastChanged:              &changed,
	})

	// jbothell
	jbothell := s.AddPerson(models.Person{
		UWNetID:          str(FixtureAthlete),
		UWRegID:          str("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		PriorUWNetIDs:    []string{},
		PriorUWRegIDs:    []string{},
		FirstName:        str("J"),
		Surname:          str("Bothell"),
		DisplayName:      str("J Bothell"),
		IsActiveStudent:  flag(true),
		IsActiveEmployee: flag(false),
		SystemKey:        str("000083856"),
		LastChanged:      &changed,
	})
	jbothellStudent := s.AddStudent(models.Student{
		PersonID:        jbothell,
		SystemKey:       "000083856",
		StudentNumber:   str("1233334"),
		CampusCode:      num(1),
		CampusDesc:      str("BOTHELL"),
		AcademicTermID:  &term20133,
		Major1ID:        &intlStudies,
		PendingMajor1ID: &economics,
		LastChanged:     &changed,
	})
	s.LinkSport(jbothellStudent, golf)

	// jadviser
	jadviser := s.AddPerson(models.Person{
		UWNetID:          str(FixtureAdviser),
		UWRegID:          str("BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"),
		PriorUWNetIDs:    []string{"jadviser1"},
		PriorUWRegIDs:    []string{},
		FirstName:        str("Jay"),
		Surname:          str("Adviser"),
		DisplayName:      str("Jay Adviser"),
		IsActiveStudent:  flag(false),
		IsActiveEmployee: flag(true),
		LastChanged:      &changed,
	})
	jadviserEmployee := s.AddEmployee(models.Employee{
		PersonID:                 jadviser,
		EmployeeNumber:           "200000000",
		EmployeeAffiliationState: str("current"),
		EmailAddresses:           []string{"jadviser@uw.edu"},
		LastChanged:              &changed,
	})
	adviser := s.AddAdviser(models.Adviser{
		EmployeeID:      jadviserEmployee,
		IsDeptAdviser:   flag(true),
		AdvisingEmail:   str("jadviser@uw.edu"),
		AdvisingProgram: str("OMAD Advising"),
		LastChanged:     &changed,
	})
	s.LinkAdviser(jbothellStudent, adviser)
}

func str(s string) *string { return &s }
func num(i int) *int       { return &i }
func flag(b bool) *bool    { return &b }
