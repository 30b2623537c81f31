package usecase

import (
	"strings"
	"time"
)

type Status string

const (
	StatusOK            Status = "ok"
	StatusAlreadyExists Status = "already-exists"
	StatusSkipped       Status = "skipped"
	StatusFailed        Status = "failed"
)

// Outcome is the result of one provisioning step. Steps report what happened
// as a value instead of throwing; the run report aggregates them so partial
// provisioning is visible without grepping logs.
type Outcome struct {
	Step     string
	Status   Status
	Detail   string
	Err      error
	Duration time.Duration
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Report collects the outcomes of a full provisioning run in step order.
type Report struct {
	Outcomes []Outcome
	Started  time.Time
	Finished time.Time
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed reports whether any step failed. Skipped and already-exists
// outcomes do not count as failures.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}

func (r *Report) FailedSteps() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o.Step)
		}
	}
	return out
}

// Summary is a compact single-line rendering for the final log entry.
func (r *Report) Summary() string {
	parts := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		parts = append(parts, o.Step+"="+string(o.Status))
	}
	return strings.Join(parts, " ")
}
