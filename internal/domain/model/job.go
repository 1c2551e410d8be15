// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dedupe"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
)

// JobStatus is the lifecycle state of a report job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether the job will not change state again.
func (s JobStatus) Terminal() bool { return s == JobDone || s == JobFailed }

// ReportJob is a request to render one subject's report asynchronously.
// Fields mirror the OpenAPI schema for /api/reports.
type ReportJob struct {
	ID       string          `json:"id"`
	Subject  string          `json:"subject"`
	Weights  scoring.Weights `json:"weights"`
	Format   string          `json:"format"`
	Status   JobStatus       `json:"status"`
	Key      string          `json:"key,omitempty"`   // storage key once done
	Bytes    int64           `json:"bytes,omitempty"` // artifact size once done
	Error    string          `json:"error,omitempty"`
	Created  time.Time       `json:"created_at"`
	Finished time.Time       `json:"finished_at,omitzero"`
}

// Fingerprint identifies the request independently of its id, so identical
// pending requests can be collapsed.
func (j *ReportJob) Fingerprint() string {
	return dedupe.Fingerprint(j.Subject, j.Format,
		ftoa(j.Weights.Self), ftoa(j.Weights.Manager), ftoa(j.Weights.Peers), ftoa(j.Weights.Subordinates))
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
