package models

import (
	"time"
)

// DeleteOutcome is the result of removing one file
type DeleteOutcome struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// DeletionReport summarizes a best-effort batch deletion
type DeletionReport struct {
	Side     Side            `json:"side"`
	Outcomes []DeleteOutcome `json:"outcomes"`
	Deleted  int             `json:"deleted"`
	Failed   int             `json:"failed"`

	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// Record appends an outcome and updates the counters
func (r *DeletionReport) Record(path string, err error) {
	outcome := DeleteOutcome{Path: path, Deleted: err == nil}
	if err != nil {
		outcome.Error = err.Error()
		r.Failed++
	} else {
		r.Deleted++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Status derives the overall status from the counters
func (r *DeletionReport) Status() Status {
	switch {
	case r.Failed == 0:
		return StatusSuccess
	case r.Deleted == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Status represents the overall result of a run
type Status string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess Status = "success"
	// StatusPartial indicates some operations failed
	StatusPartial Status = "partial"
	// StatusFailed indicates every operation failed
	StatusFailed Status = "failed"
)

// ExitCode returns the process exit code for the status.
// Any failure maps to 1, which is also the code used for aborted runs.
func (s Status) ExitCode() int {
	if s == StatusSuccess {
		return 0
	}
	return 1
}
