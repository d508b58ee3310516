package models

import (
	"fmt"
	"sort"
	"time"
)

// Transfer is a prior institution record of a student ('transfer').
type Transfer struct {
	ID              int64      `db:"id" flat:"-"`
	StudentID       int64      `db:"student_id" flat:"-"`
	InstitutionCode *string    `db:"institution_code"`
	YearEnding      *int       `db:"year_ending"`
	YearBeginning   *int       `db:"year_beginning"`
	TransferGPA     Decimal    `db:"transfer_gpa"`
	TransUpdtDt     *time.Time `db:"trans_updt_dt"`
	TransUpdtID     *string    `db:"trans_updt_id"`
	DegreeEarned    *string    `db:"degree_earned"`
	DegreeEarnedYr  *int       `db:"degree_earned_yr"`
	DegreeEarnedMo  *int       `db:"degree_earned_mo"`
	CredentialLvl   *int       `db:"credential_lvl"`
	CredentialYr    *int       `db:"credential_yr"`
	TransferComment *string    `db:"transfer_comment"`
	InstitutionName *string    `db:"institution_name"`
	InstAddrLine1   *string    `db:"inst_addr_line_1"`
	InstAddrLine2   *string    `db:"inst_addr_line_2"`
	InstCity        *string    `db:"inst_city"`
	InstState       *string    `db:"inst_state"`
	InstZip5        *string    `db:"inst_zip_5"`
	InstZipFiller   *string    `db:"inst_zip_filler"`
	InstCountry     *string    `db:"inst_country"`
	InstPostalCd    *string    `db:"inst_postal_cd"`
	InstRecordStat  *bool      `db:"inst_record_stat"`
	TwoYear         *bool      `db:"two_year"`
	WaCC            *bool      `db:"wa_cc"`
}

func (t *Transfer) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(t, out)
	return out
}

func ReconstructTransfer(m Flattened) (*Transfer, error) {
	t := &Transfer{}
	if err := reconstructColumns(m, t); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	return t, nil
}

// StudentHold is a registration hold, unique per (student, seq).
type StudentHold struct {
	ID             int64      `db:"id" flat:"-"`
	StudentID      int64      `db:"student_id" flat:"-"`
	Seq            int        `db:"seq"`
	HoldDt         *time.Time `db:"hold_dt"`
	HoldOffice     *string    `db:"hold_office"`
	HoldOfficeDesc *string    `db:"hold_office_desc"`
	HoldReason     *string    `db:"hold_reason"`
	HoldType       *int       `db:"hold_type"`
	HoldTypeDesc   *string    `db:"hold_type_desc"`
}

func (h *StudentHold) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(h, out)
	return out
}

func ReconstructStudentHold(m Flattened) (*StudentHold, error) {
	h := &StudentHold{}
	if err := reconstructColumns(m, h); err != nil {
		return nil, fmt.Errorf("hold: %w", err)
	}
	return h, nil
}

// SortHolds orders holds by sequence number.
func SortHolds(hs []*StudentHold) {
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Seq < hs[j].Seq })
}

// Degree is a conferred or pending degree, unique per
// (student, term, campus, degree code, pathway).
type Degree struct {
	ID                     int64      `db:"id" flat:"-"`
	StudentID              int64      `db:"student_id" flat:"-"`
	DegreeTermID           *int64     `db:"degree_term_id" flat:"-"`
	CampusCode             *int       `db:"campus_code"`
	DegreeAbbrCode         *string    `db:"degree_abbr_code"`
	DegreePathwayNum       *int       `db:"degree_pathway_num"`
	DegreeLevelCode        *string    `db:"degree_level_code"`
	DegreeLevelDesc        *string    `db:"degree_level_desc"`
	DegreeTypeCode         *string    `db:"degree_type_code"`
	DegreeLevelTypeDesc    *string    `db:"degree_level_type_desc"`
	DegreeDesc             *string    `db:"degree_desc"`
	DegreeUWCredits        Decimal    `db:"degree_uw_credits"`
	DegreeTransferCredits  Decimal    `db:"degree_transfer_credits"`
	DegreeExtensionCredits Decimal    `db:"degree_extension_credits"`
	DegreeGPA              *string    `db:"degree_gpa"`
	FinOrgKey              *string    `db:"fin_org_key"`
	PrimaryFinOrgKey       *string    `db:"primary_fin_org_key"`
	DegreeCollegeCode      *string    `db:"degree_college_code"`
	DegreeStatusCode       *string    `db:"degree_status_code"`
	DegreeStatusDesc       *string    `db:"degree_status_desc"`
	DegreeDate             *time.Time `db:"degree_date"`
	DegreeGradHonor        *int       `db:"degree_grad_honor"`
	DegreeIndex            *int       `db:"degree_index"`
	DegreeMajorIndex       *int       `db:"degree_major_index"`
	CampusName             *string    `db:"campus_name"`
	DegreeCollegeName      *string    `db:"degree_college_name"`
	DegreeGradHonorDesc    *string    `db:"degree_grad_honor_desc"`

	DegreeTerm *Term `db:"-"`
}

func (d *Degree) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(d, out)
	out["degree_term"] = flattenTerm(d.DegreeTerm)
	return out
}

func ReconstructDegree(m Flattened) (*Degree, error) {
	d := &Degree{}
	if err := reconstructColumns(m, d); err != nil {
		return nil, fmt.Errorf("degree: %w", err)
	}
	var err error
	if d.DegreeTerm, err = reconstructTerm(m, "degree_term"); err != nil {
		return nil, fmt.Errorf("degree: %w", err)
	}
	return d, nil
}
