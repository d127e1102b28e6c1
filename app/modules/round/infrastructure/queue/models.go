package roundqueue

import (
	"github.com/barberscore/scoring-api/app/shared/types"
)

// VarianceReportJob renders and stores a variance report for an appearance
// whose official scores spread past the configured threshold.
type VarianceReportJob struct {
	RoundID      types.RoundID      `json:"round_id"`
	AppearanceID types.AppearanceID `json:"appearance_id"`
}

// Kind returns the job type identifier for River.
func (VarianceReportJob) Kind() string { return "variance_report" }

// StandingsJob renders and stores the OSS and SA documents for a finished
// round and records their references on the round row.
type StandingsJob struct {
	RoundID types.RoundID `json:"round_id"`
}

// Kind returns the job type identifier for River.
func (StandingsJob) Kind() string { return "standings" }

// NotificationJob delivers a message composed by the round lifecycle
// (publish notices, variance alerts) to the configured recipients.
type NotificationJob struct {
	RoundID    types.RoundID `json:"round_id"`
	Recipients []string      `json:"recipients"`
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
}

// Kind returns the job type identifier for River.
func (NotificationJob) Kind() string { return "notification" }

// JobInfo describes a queued job for debugging and monitoring.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	RoundID     string `json:"round_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
