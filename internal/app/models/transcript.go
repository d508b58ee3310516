package models

import (
	"fmt"
	"sort"
	"time"
)

// GPAPlaces is the rounding precision of a quarter GPA.
const GPAPlaces = 2

// Transcript is one quarter of a student's academic record ('transcript').
// Each over_qtr_* column corrects its qtr_* counterpart when it is positive.
type Transcript struct {
	ID              int64      `db:"id" flat:"-"`
	StudentID       int64      `db:"student_id" flat:"-"`
	TranTermID      *int64     `db:"tran_term_id" flat:"-"`
	LeaveEndsTermID *int64     `db:"leave_ends_term_id" flat:"-"`
	Veteran         *int       `db:"veteran"`
	VeteranBenefit  *int       `db:"veteran_benefit"`
	Resident        *int       `db:"resident"`
	ResidentCat     *string    `db:"resident_cat"`
	QtrGradePoints  Decimal    `db:"qtr_grade_points"`
	QtrGradedAttmp  Decimal    `db:"qtr_graded_attmp"`
	ClassCode       *int       `db:"class_code"`
	HonorsProgram   *int       `db:"honors_program"`
	SpecialProgram  *int       `db:"special_program"`
	ScholarshipType *int       `db:"scholarship_type"`
	YearlyHonorType *int       `db:"yearly_honor_type"`
	ExemptionCode   *int       `db:"exemption_code"`
	NumIndStudy     *int       `db:"num_ind_study"`
	NumCourses      *int       `db:"num_courses"`
	EnrollStatus    *int       `db:"enroll_status"`
	TenthDayCredits Decimal    `db:"tenth_day_credits"`
	TrEnStatDt      *time.Time `db:"tr_en_stat_dt"`
	LastChanged     *time.Time `db:"_last_changed" flat:"last_changed"`
	OverQtrDeduct   Decimal    `db:"over_qtr_deduct"`
	OverQtrGradeAt  Decimal    `db:"over_qtr_grade_at"`
	OverQtrGradePt  Decimal    `db:"over_qtr_grade_pt"`
	OverQtrNongrd   Decimal    `db:"over_qtr_nongrd"`
	QtrComment      *string    `db:"qtr_comment"`
	QtrDeductible   Decimal    `db:"qtr_deductible"`
	QtrNongrdEarned Decimal    `db:"qtr_nongrd_earned"`
	AddToCum        *bool      `db:"add_to_cum"`
	ScholarshipAbbr *string    `db:"scholarship_abbr"`
	ScholarshipDesc *string    `db:"scholarship_desc"`

	EnrollStatusRequestCode *string `db:"enroll_status_request_code"`
	EnrollStatusDesc        *string `db:"enroll_status_desc"`
	SpecialProgramDesc      *string `db:"special_program_desc"`

	TranTerm      *Term `db:"-"`
	LeaveEndsTerm *Term `db:"-"`
}

// overrideIfPositive picks the correction when it is strictly positive.
func overrideIfPositive(base, correction Decimal) Decimal {
	if correction.IsPositive() {
		return correction
	}
	return DecimalFromInt(0).Add(base)
}

func (t *Transcript) DeductibleCredits() Decimal {
	return overrideIfPositive(t.QtrDeductible, t.OverQtrDeduct)
}

func (t *Transcript) GradePoints() Decimal {
	return overrideIfPositive(t.QtrGradePoints, t.OverQtrGradePt)
}

func (t *Transcript) GradedAttempted() Decimal {
	return overrideIfPositive(t.QtrGradedAttmp, t.OverQtrGradeAt)
}

func (t *Transcript) NongradedEarned() Decimal {
	return overrideIfPositive(t.QtrNongrdEarned, t.OverQtrNongrd)
}

// TotalAttempted adds the raw non-graded credits; no override applies there.
func (t *Transcript) TotalAttempted() Decimal {
	return t.GradedAttempted().Add(t.QtrNongrdEarned)
}

func (t *Transcript) TotalEarned() Decimal {
	return t.GradedAttempted().Add(t.NongradedEarned())
}

// GPA is grade points over graded attempted credits, rounded half away from
// zero to GPAPlaces, and zero when nothing graded was attempted.
func (t *Transcript) GPA() Decimal {
	attempted := t.GradedAttempted()
	if !attempted.IsPositive() {
		return DecimalFromInt(0)
	}
	return t.GradePoints().Quo(attempted, GPAPlaces)
}

// Flatten renders the stored columns, both terms and the derived statistics.
func (t *Transcript) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(t, out)
	out["tran_term"] = flattenTerm(t.TranTerm)
	out["leave_ends_term"] = flattenTerm(t.LeaveEndsTerm)
	out["deductible_credits"] = t.DeductibleCredits().String()
	out["grade_points"] = t.GradePoints().String()
	out["graded_attempted"] = t.GradedAttempted().String()
	out["nongraded_earned"] = t.NongradedEarned().String()
	out["total_attempted"] = t.TotalAttempted().String()
	out["total_earned"] = t.TotalEarned().String()
	out["gpa"] = t.GPA().String()
	return out
}

// ReconstructTranscript rebuilds a Transcript; derived keys are recomputed,
// never read back.
func ReconstructTranscript(m Flattened) (*Transcript, error) {
	t := &Transcript{}
	if err := reconstructColumns(m, t); err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	var err error
	if t.TranTerm, err = reconstructTerm(m, "tran_term"); err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	if t.LeaveEndsTerm, err = reconstructTerm(m, "leave_ends_term"); err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	return t, nil
}

// SortTranscripts orders transcripts most recent term first. Rows without a
// term sort last, ties keep id order.
func SortTranscripts(ts []*Transcript) {
	sort.SliceStable(ts, func(i, j int) bool {
		oi, oj := ts[i].TranTerm.Ordinal(), ts[j].TranTerm.Ordinal()
		if oi != oj {
			return oi > oj
		}
		return ts[i].ID < ts[j].ID
	})
}

func flattenTerm(t *Term) any {
	if t == nil {
		return nil
	}
	return t.Flatten()
}

func reconstructTerm(m Flattened, key string) (*Term, error) {
	sub, err := nested(m, key)
	if err != nil || sub == nil {
		return nil, err
	}
	return ReconstructTerm(sub)
}
