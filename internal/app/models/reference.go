package models

import "fmt"

// Term is an academic (year, quarter) pair.
type Term struct {
	ID      int64 `db:"id" flat:"-"`
	Year    int   `db:"year"`
	Quarter int   `db:"quarter"`
}

// Ordinal sorts terms chronologically.
func (t *Term) Ordinal() int {
	if t == nil {
		return 0
	}
	return t.Year*10 + t.Quarter
}

func (t *Term) String() string {
	return fmt.Sprintf("%d/%d", t.Year, t.Quarter)
}

func (t *Term) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(t, out)
	return out
}

func ReconstructTerm(m Flattened) (*Term, error) {
	t := &Term{}
	if err := reconstructColumns(m, t); err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	return t, nil
}

// Major is a reference entity for the major slots of a Student.
type Major struct {
	ID                int64   `db:"id" flat:"-"`
	MajorAbbrCode     *string `db:"major_abbr_code"`
	MajorFullName     *string `db:"major_full_name"`
	MajorName         *string `db:"major_name"`
	MajorShortName    *string `db:"major_short_name"`
	MajorBranch       *int    `db:"major_branch"`
	MajorCipCode      *int    `db:"major_cip_code"`
	MajorConcurCC     *bool   `db:"major_concur_cc"`
	MajorDept         *string `db:"major_dept"`
	MajorDesc         *string `db:"major_desc"`
	MajorDistLearn    *bool   `db:"major_dist_learn"`
	MajorEvening      *bool   `db:"major_evening"`
	MajorFirstQtr     *int    `db:"major_first_qtr"`
	MajorFirstYr      *int    `db:"major_first_yr"`
	MajorGNM          *bool   `db:"major_gnm"`
	MajorGradCertif   *bool   `db:"major_grad_certif"`
	MajorGraduate     *bool   `db:"major_graduate"`
	MajorHomeURL      *string `db:"major_home_url"`
	MajorLastQtr      *int    `db:"major_last_qtr"`
	MajorLastYr       *int    `db:"major_last_yr"`
	MajorMeaslesEx    *bool   `db:"major_measles_ex"`
	MajorMinor        *bool   `db:"major_minor"`
	MajorNonDegree    *bool   `db:"major_non_degree"`
	MajorNonmatric    *bool   `db:"major_nonmatric"`
	MajorNotTermin    *bool   `db:"major_not_termin"`
	MajorOsfaInelig   *bool   `db:"major_osfa_inelig"`
	MajorPathway      *int    `db:"major_pathway"`
	MajorPremaj       *bool   `db:"major_premaj"`
	MajorPremajExt    *bool   `db:"major_premaj_ext"`
	MajorProfessional *bool   `db:"major_professional"`
	MajorSSInelig     *bool   `db:"major_ss_inelig"`
	MajorSSStdAct     *bool   `db:"major_ss_std_act"`
	MajorUGCertif     *bool   `db:"major_ug_certif"`
	MajorUndergrad    *bool   `db:"major_undergrad"`
	College           *string `db:"college"`
	MajorBranchName   *string `db:"major_branch_name"`
	MajorCollegeName  *string `db:"major_college_name"`
}

func (m *Major) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(m, out)
	return out
}

func ReconstructMajor(m Flattened) (*Major, error) {
	major := &Major{}
	if err := reconstructColumns(m, major); err != nil {
		return nil, fmt.Errorf("major: %w", err)
	}
	return major, nil
}

// Sport is a reference entity linked to students through student_to_sport.
type Sport struct {
	ID             int64   `db:"id" flat:"-"`
	SportCode      *string `db:"sport_code"`
	ShortSportName *string `db:"short_sport_name"`
	SportDescrip   *string `db:"sport_descrip"`
	SportRegPrAut  *bool   `db:"sport_reg_pr_aut"`
	SportRegPrSpr  *bool   `db:"sport_reg_pr_spr"`
	SportRegPrSum  *bool   `db:"sport_reg_pr_sum"`
	SportRegPrWin  *bool   `db:"sport_reg_pr_win"`
}

func (s *Sport) Flatten() Flattened {
	out := Flattened{}
	flattenColumns(s, out)
	return out
}

func ReconstructSport(m Flattened) (*Sport, error) {
	s := &Sport{}
	if err := reconstructColumns(m, s); err != nil {
		return nil, fmt.Errorf("sport: %w", err)
	}
	return s, nil
}
