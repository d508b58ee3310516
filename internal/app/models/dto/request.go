package dto

import (
	"fmt"
	"time"

	"github.com/yigit/persondata/internal/app/models"
)

// IncludeQuery binds the include flags of the person routes.
type IncludeQuery struct {
	Employee    bool `form:"employee"`
	Student     bool `form:"student"`
	Transcripts bool `form:"transcripts"`
	Transfers   bool `form:"transfers"`
	Holds       bool `form:"holds"`
	Degrees     bool `form:"degrees"`
}

// Options converts the flags into assembler options.
func (q IncludeQuery) Options() models.Options {
	return models.Options{
		IncludeEmployee:           q.Employee,
		IncludeStudent:            q.Student,
		IncludeStudentTranscripts: q.Transcripts,
		IncludeStudentTransfers:   q.Transfers,
		IncludeStudentHolds:       q.Holds,
		IncludeStudentDegrees:     q.Degrees,
	}
}

// SyncQuery binds the optional sync bounds, e.g. ?timeout=10s&poll_interval=1s.
type SyncQuery struct {
	Timeout      string `form:"timeout"`
	PollInterval string `form:"poll_interval"`
}

// Durations parses both bounds; empty values are zero.
func (q SyncQuery) Durations() (timeout, poll time.Duration, err error) {
	if q.Timeout != "" {
		if timeout, err = time.ParseDuration(q.Timeout); err != nil || timeout <= 0 {
			return 0, 0, fmt.Errorf("timeout must be a positive duration")
		}
	}
	if q.PollInterval != "" {
		if poll, err = time.ParseDuration(q.PollInterval); err != nil || poll <= 0 {
			return 0, 0, fmt.Errorf("poll_interval must be a positive duration")
		}
	}
	return timeout, poll, nil
}
