package models

import (
	"errors"
	"fmt"
	"time"
)

// MaxMajorSlots is the number of ordered major (and pending major) slots.
const MaxMajorSlots = 3

var ErrTooManyMajors = errors.New("a student has at most three major slots")

// Student is the student record of a Person ('student' table).
type Student struct {
	ID             int64  `db:"id" flat:"-"`
	PersonID       int64  `db:"person_id" flat:"-"`
	AcademicTermID *int64 `db:"academic_term_id" flat:"-"`

	SystemKey                    string     `db:"system_key"`
	StudentNumber                *string    `db:"student_number"`
	Birthdate                    *time.Time `db:"birthdate"`
	StudentEmail                 *string    `db:"student_email"`
	ExternalEmail                *string    `db:"external_email"`
	LocalPhoneNumber             *string    `db:"local_phone_number"`
	Gender                       *string    `db:"gender"`
	CumulativeGPA                *string    `db:"cumulative_gpa"`
	CampusCode                   *int       `db:"campus_code"`
	CampusDesc                   *string    `db:"campus_desc"`
	PermAddrLine1                *string    `db:"perm_addr_line1"`
	PermAddrLine2                *string    `db:"perm_addr_line2"`
	PermAddrCity                 *string    `db:"perm_addr_city"`
	PermAddrState                *string    `db:"perm_addr_state"`
	PermAddr5DigitZip            *string    `db:"perm_addr_5digit_zip"`
	PermAddr4DigitZip            *string    `db:"perm_addr_4digit_zip"`
	PermAddrPostalCode           *string    `db:"perm_addr_postal_code"`
	LastChanged                  *time.Time `db:"_last_changed" flat:"last_changed"`
	ClassCode                    *int       `db:"class_code"`
	ClassDesc                    *string    `db:"class_desc"`
	PermAddrCountry              *string    `db:"perm_addr_country"`
	RegisteredInQuarter          *bool      `db:"registered_in_quarter"`
	ResidentCode                 *int       `db:"resident_code"`
	ResidentDesc                 *string    `db:"resident_desc"`
	TotalCredits                 *string    `db:"total_credits"`
	TotalDeductibleCredits       *string    `db:"total_deductible_credits"`
	TotalExtensionCredits        *string    `db:"total_extension_credits"`
	TotalGradeAttempted          *string    `db:"total_grade_attempted"`
	TotalGradePoints             *string    `db:"total_grade_points"`
	TotalLowerDivTransferCredits *string    `db:"total_lower_div_transfer_credits"`
	TotalNonGradedCredits        *string    `db:"total_non_graded_credits"`
	TotalRegisteredCredits       *string    `db:"total_registered_credits"`
	TotalTransferCredits         *string    `db:"total_transfer_credits"`
	TotalUWCredits               *string    `db:"total_uw_credits"`
	TotalUpperDivTransferCredits *string    `db:"total_upper_div_transfer_credits"`
	VeteranBenefitCode           *int       `db:"veteran_benefit_code"`
	VeteranBenefitDesc           *string    `db:"veteran_benefit_desc"`
	VeteranDesc                  *string    `db:"veteran_desc"`
	AdmittedForYrQtrDesc         *string    `db:"admitted_for_yr_qtr_desc"`
	AdmittedForYrQtrID           *string    `db:"admitted_for_yr_qtr_id"`
	ApplicationStatusCode        *int       `db:"application_status_code"`
	ApplicationStatusDesc        *string    `db:"application_status_desc"`
	ApplicationTypeCode          *string    `db:"application_type_code"`
	ApplicationTypeDesc          *string    `db:"application_type_desc"`
	AppliedToGraduateYrQtrDesc   *string    `db:"applied_to_graduate_yr_qtr_desc"`
	AppliedToGraduateYrQtrID     *string    `db:"applied_to_graduate_yr_qtr_id"`
	ASUWInd                      *bool      `db:"asuwind"`
	DirectoryReleaseInd          *bool      `db:"directory_release_ind"`
	DisabilityInd                *bool      `db:"disability_ind"`
	EnrollStatusCode             *int       `db:"enroll_status_code"`
	ExemptionCode                *int       `db:"exemption_code"`
	ExemptionDesc                *string    `db:"exemption_desc"`
	FirstGeneration4YrInd        *bool      `db:"first_generation_4yr_ind"`
	FirstGenerationInd           *bool      `db:"first_generation_ind"`
	HighSchoolGPA                *string    `db:"high_school_gpa"`
	HighSchoolGraduationDate     *string    `db:"high_school_graduation_date"`
	HonorsProgramCode            *string    `db:"honors_program_code"`
	HonorsProgramInd             *bool      `db:"honors_program_ind"`
	JrColGPA                     *string    `db:"jr_col_gpa"`
	LastEnrolledYrQtrDesc        *string    `db:"last_enrolled_yr_qtr_desc"`
	LastEnrolledYrQtrID          *string    `db:"last_enrolled_yr_qtr_id"`
	LocalAddr4DigitZip           *string    `db:"local_addr_4digit_zip"`
	LocalAddr5DigitZip           *string    `db:"local_addr_5digit_zip"`
	LocalAddrCity                *string    `db:"local_addr_city"`
	LocalAddrCountry             *string    `db:"local_addr_country"`
	LocalAddrLine1               *string    `db:"local_addr_line1"`
	LocalAddrLine2               *string    `db:"local_addr_line2"`
	LocalAddrPostalCode          *string    `db:"local_addr_postal_code"`
	LocalAddrState               *string    `db:"local_addr_state"`
	NewContinuingReturningCode   *int       `db:"new_continuing_returning_code"`
	NewContinuingReturningDesc   *string    `db:"new_continuing_returning_desc"`
	PreviousInstitutionName      *string    `db:"previous_institution_name"`
	PreviousInstitutionType      *string    `db:"previous_institution_type"`
	PreviousInstitutionTypeDesc  *string    `db:"previous_institution_type_desc"`
	RecordLoadDttm               *string    `db:"record_load_dttm"`
	RecordUpdateDttm             *string    `db:"record_update_dttm"`
	RegFirstYrQtrDesc            *string    `db:"reg_first_yr_qtr_desc"`
	RegFirstYrQtrID              *string    `db:"reg_first_yr_qtr_id"`
	RegistrationHoldInd          *bool      `db:"registration_hold_ind"`
	SpecialProgramCode           *string    `db:"special_program_code"`
	SpecialProgramDesc           *string    `db:"special_program_desc"`
	SrColGPA                     *string    `db:"sr_col_gpa"`
	BirthCity                    *string    `db:"birth_city"`
	BirthCountry                 *string    `db:"birth_country"`
	BirthState                   *string    `db:"birth_state"`
	ChildOfAlumni                *bool      `db:"child_of_alumni"`
	CitizenCountry               *string    `db:"citizen_country"`
	EmergencyEmail               *string    `db:"emergency_email"`
	EmergencyName                *string    `db:"emergency_name"`
	EmergencyPhone               *string    `db:"emergency_phone"`
	ISSPermResidentCountry       *string    `db:"iss_perm_resident_country"`
	ParentName                   *string    `db:"parent_name"`
	VisaType                     *string    `db:"visa_type"`
	IntendedMajor1Code           *string    `db:"intended_major1_code"`
	IntendedMajor2Code           *string    `db:"intended_major2_code"`
	IntendedMajor3Code           *string    `db:"intended_major3_code"`
	RequestedMajor1Code          *string    `db:"requested_major1_code"`
	RequestedMajor2Code          *string    `db:"requested_major2_code"`
	RequestedMajor3Code          *string    `db:"requested_major3_code"`
	Major1ID                     *int64     `db:"major_1_id" flat:"-"`
	Major2ID                     *int64     `db:"major_2_id" flat:"-"`
	Major3ID                     *int64     `db:"major_3_id" flat:"-"`
	PendingMajor1ID              *int64     `db:"pending_major_1_id" flat:"-"`
	PendingMajor2ID              *int64     `db:"pending_major_2_id" flat:"-"`
	PendingMajor3ID              *int64     `db:"pending_major_3_id" flat:"-"`
	EnrollStatusRequestCode      *string    `db:"enroll_status_request_code"`
	EnrollStatusDesc             *string    `db:"enroll_status_desc"`
	SPPQtrsAllowed               *int       `db:"spp_qtrs_allowed"`
	SPPQtrsUsed                  *int       `db:"spp_qtrs_used"`
	SPPQtrsUsedDt                *time.Time `db:"spp_qtrs_used_dt"`
	SPPStatus                    *int       `db:"spp_status"`
	SPPStatusDt                  *time.Time `db:"spp_status_dt"`
	SPPCategory                  *int       `db:"spp_category"`
	SPPCategoryDt                *time.Time `db:"spp_category_dt"`
	EthnicCode                   *string    `db:"ethnic_code"`
	EthnicDesc                   *string    `db:"ethnic_desc"`
	EthnicLongDesc               *string    `db:"ethnic_long_desc"`
	EthnicGroupCode              *string    `db:"ethnic_group_code"`
	HispanicCode                 *string    `db:"hispanic_code"`
	HispanicDesc                 *string    `db:"hispanic_desc"`
	HispanicLongDesc             *string    `db:"hispanic_long_desc"`
	HispanicGroupCode            *string    `db:"hispanic_group_code"`
	DeceasedDate                 *time.Time `db:"deceased_date"`
	EthnicGroupDesc              *string    `db:"ethnic_group_desc"`
	HispanicGroupDesc            *string    `db:"hispanic_group_desc"`

	AcademicTerm  *Term  `db:"-"`
	Major1        *Major `db:"-"`
	Major2        *Major `db:"-"`
	Major3        *Major `db:"-"`
	PendingMajor1 *Major `db:"-"`
	PendingMajor2 *Major `db:"-"`
	PendingMajor3 *Major `db:"-"`

	// Loaded with the student itself.
	Advisers []*Adviser `db:"-"`
	Sports   []*Sport   `db:"-"`

	// Child collections: nil means not fetched, empty means fetched and empty.
	Transcripts []*Transcript  `db:"-"`
	Transfers   []*Transfer    `db:"-"`
	Holds       []*StudentHold `db:"-"`
	Degrees     []*Degree      `db:"-"`
}

// MajorIDs returns the referenced major ids of all six slots, skipping nulls.
func (s *Student) MajorIDs() []int64 {
	var ids []int64
	for _, id := range []*int64{s.Major1ID, s.Major2ID, s.Major3ID, s.PendingMajor1ID, s.PendingMajor2ID, s.PendingMajor3ID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// ResolveMajors fills the six major slots from a lookup keyed by id.
func (s *Student) ResolveMajors(byID map[int64]*Major) {
	pick := func(id *int64) *Major {
		if id == nil {
			return nil
		}
		return byID[*id]
	}
	s.Major1, s.Major2, s.Major3 = pick(s.Major1ID), pick(s.Major2ID), pick(s.Major3ID)
	s.PendingMajor1, s.PendingMajor2, s.PendingMajor3 = pick(s.PendingMajor1ID), pick(s.PendingMajor2ID), pick(s.PendingMajor3ID)
}

// Majors is the non-null subset of the major slots in slot order.
func (s *Student) Majors() []*Major {
	return compactMajors(s.Major1, s.Major2, s.Major3)
}

// PendingMajors is the non-null subset of the pending major slots.
func (s *Student) PendingMajors() []*Major {
	return compactMajors(s.PendingMajor1, s.PendingMajor2, s.PendingMajor3)
}

// SetMajors assigns majors to the slots in order and clears the rest.
func (s *Student) SetMajors(majors []*Major) error {
	slots, err := fillSlots(majors)
	if err != nil {
		return err
	}
	s.Major1, s.Major2, s.Major3 = slots[0], slots[1], slots[2]
	return nil
}

// SetPendingMajors assigns pending majors to the slots in order.
func (s *Student) SetPendingMajors(majors []*Major) error {
	slots, err := fillSlots(majors)
	if err != nil {
		return err
	}
	s.PendingMajor1, s.PendingMajor2, s.PendingMajor3 = slots[0], slots[1], slots[2]
	return nil
}

// RequestedMajors are raw codes, not resolved majors.
func (s *Student) RequestedMajors() []string {
	return compactCodes(s.RequestedMajor1Code, s.RequestedMajor2Code, s.RequestedMajor3Code)
}

// IntendedMajors are raw codes, not resolved majors.
func (s *Student) IntendedMajors() []string {
	return compactCodes(s.IntendedMajor1Code, s.IntendedMajor2Code, s.IntendedMajor3Code)
}

// Flatten renders the student, its derived major lists and every fetched
// child collection.
func (s *Student) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(s, out)

	if s.AcademicTerm != nil {
		out["academic_term"] = s.AcademicTerm.Flatten()
	} else {
		out["academic_term"] = nil
	}
	out["majors"] = flattenList(s.Majors())
	out["pending_majors"] = flattenList(s.PendingMajors())
	out["requested_majors"] = s.RequestedMajors()
	out["intended_majors"] = s.IntendedMajors()

	if s.Advisers != nil {
		out["advisers"] = flattenList(s.Advisers)
	}
	if s.Sports != nil {
		out["sports"] = flattenList(s.Sports)
	}
	if s.Transcripts != nil {
		out["transcripts"] = flattenList(s.Transcripts)
	}
	if s.Transfers != nil {
		out["transfers"] = flattenList(s.Transfers)
	}
	if s.Holds != nil {
		out["holds"] = flattenList(s.Holds)
	}
	if s.Degrees != nil {
		out["degrees"] = flattenList(s.Degrees)
	}
	return out
}

// ReconstructStudent rebuilds a Student from its flattened form. The derived
// requested/intended lists are ignored because the code columns carry them.
func ReconstructStudent(m Flattened) (*Student, error) {
	s := &Student{}
	if err := reconstructColumns(m, s); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}

	sub, err := nested(m, "academic_term")
	if err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if sub != nil {
		if s.AcademicTerm, err = ReconstructTerm(sub); err != nil {
			return nil, fmt.Errorf("student: %w", err)
		}
	}

	majors, err := reconstructList(m, "majors", ReconstructMajor)
	if err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if err := s.SetMajors(majors); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	pending, err := reconstructList(m, "pending_majors", ReconstructMajor)
	if err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if err := s.SetPendingMajors(pending); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}

	if s.Advisers, err = reconstructList(m, "advisers", ReconstructAdviser); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if s.Sports, err = reconstructList(m, "sports", ReconstructSport); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if s.Transcripts, err = reconstructList(m, "transcripts", ReconstructTranscript); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if s.Transfers, err = reconstructList(m, "transfers", ReconstructTransfer); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if s.Holds, err = reconstructList(m, "holds", ReconstructStudentHold); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	if s.Degrees, err = reconstructList(m, "degrees", ReconstructDegree); err != nil {
		return nil, fmt.Errorf("student: %w", err)
	}
	return s, nil
}

func compactMajors(slots ...*Major) []*Major {
	out := make([]*Major, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func compactCodes(slots ...*string) []string {
	out := make([]string, 0, len(slots))
	for _, c := range slots {
		if c != nil && *c != "" {
			out = append(out, *c)
		}
	}
	return out
}

func fillSlots(majors []*Major) ([MaxMajorSlots]*Major, error) {
	var slots [MaxMajorSlots]*Major
	compact := compactMajors(majors...)
	if len(compact) > MaxMajorSlots {
		return slots, fmt.Errorf("%w: got %d", ErrTooManyMajors, len(compact))
	}
	copy(slots[:], compact)
	return slots, nil
}
