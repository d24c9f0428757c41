package core

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Action is the lifecycle action attempted for a test.
type Action string

// Action values
const (
	ActionRaise   Action = "raise"
	ActionResolve Action = "resolve"
)

// OutcomeStatus is the result of an action.
type OutcomeStatus string

// OutcomeStatus values
const (
	OutcomeCreated           OutcomeStatus = "created"
	OutcomeAlreadyTracked    OutcomeStatus = "already_tracked"
	OutcomeDuplicateFound    OutcomeStatus = "duplicate_found"
	OutcomeDailyCapReached   OutcomeStatus = "daily_cap_reached"
	OutcomeFailed            OutcomeStatus = "failed"
	OutcomeResolved          OutcomeStatus = "resolved"
	OutcomeNoTransitionFound OutcomeStatus = "no_transition_found"
	OutcomeAlreadyResolved   OutcomeStatus = "already_resolved"
	OutcomeCancelled         OutcomeStatus = "cancelled"
)

// Outcome is what happened to one test.
type Outcome struct {
	Action      Action        `json:"action"`
	Status      OutcomeStatus `json:"status"`
	TestID      TestIdentity  `json:"test_id"`
	DisplayName string        `json:"display_name"`
	IssueKey    string        `json:"issue_key,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Report collects the outcomes of one build.
type Report struct {
	ID          string     `json:"id"`
	Job         string     `json:"job"`
	ConfigJob   string     `json:"config_job"`
	BuildNumber int64      `json:"build_number"`
	Outcomes    []*Outcome `json:"outcomes"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at"`
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// WriteTo renders the report as build log lines.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, o := range r.Outcomes {
		n, err := fmt.Fprintln(w, o.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the outcome as a build log line.
func (o *Outcome) String() string {
	switch o.Status {
	case OutcomeCreated:
		return fmt.Sprintf("Created issue %s for test %s", o.IssueKey, o.DisplayName)
	case OutcomeAlreadyTracked:
		return fmt.Sprintf("Ignoring creating issue for test %s as it would be a duplicate of %s (from local mapping)", o.DisplayName, o.IssueKey)
	case OutcomeDuplicateFound:
		return fmt.Sprintf("Ignoring creating issue for test %s, duplicate issue currently exists: %s", o.DisplayName, o.IssueKey)
	case OutcomeDailyCapReached:
		return fmt.Sprintf("Max number of bugs already logged for the day, ignoring creating issue for test %s", o.DisplayName)
	case OutcomeResolved:
		return fmt.Sprintf("Resolved issue %s for test %s", o.IssueKey, o.DisplayName)
	case OutcomeAlreadyResolved:
		return fmt.Sprintf("Issue %s for test %s is already resolved", o.IssueKey, o.DisplayName)
	case OutcomeNoTransitionFound:
		return fmt.Sprintf("No resolve transition found for issue %s of test %s", o.IssueKey, o.DisplayName)
	case OutcomeCancelled:
		return fmt.Sprintf("Cancelled %s for test %s", o.Action, o.DisplayName)
	default:
		return fmt.Sprintf("Could not %s issue for test %s: %s", o.Action, o.DisplayName, o.Error)
	}
}

// BuildProcessor applies raise and resolve actions to a build's results.
type BuildProcessor interface {
	Process(ctx context.Context, build *BuildResults) *Report
}
