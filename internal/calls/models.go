package calls

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Call represents one outbound call attempt against a customer.
//
// Lifecycle invariants:
// - StartedAt/EndedAt/DurationSec are set once and never unset.
// - DurationSec is present iff the call completed from in-progress.
// - Status changes only through the transition methods below; a rejected
//   transition leaves the call untouched.
type Call struct {
	CallID     string `json:"call_id"`
	CustomerID string `json:"customer_id"`

	Status Status `json:"status"`

	RequestedAt time.Time  `json:"requested_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`

	// DurationSec is the wall-clock call duration in whole seconds, floored.
	DurationSec *int `json:"duration_sec,omitempty"`
}

type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
	StatusFailed     Status = "failed"
)

// ParseStatus validates a stored status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusQueued, StatusInProgress, StatusCompleted, StatusCanceled, StatusFailed:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown call status %q", s)
	}
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusFailed:
		return true
	default:
		return false
	}
}

// InvalidTransitionError is returned when a state-machine guard rejects an
// operation. It identifies the attempted operation and the status the call
// was in at the time.
type InvalidTransitionError struct {
	Op     string
	Status Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s call: current status is %s", e.Op, e.Status)
}

// New creates a queued call for customerID. requestedAt is recorded as given;
// callers default it to their clock.
func New(customerID string, requestedAt time.Time) Call {
	return Call{
		CallID:      uuid.NewString(),
		CustomerID:  customerID,
		Status:      StatusQueued,
		RequestedAt: requestedAt,
	}
}

// Start moves a queued call to in-progress.
func (c *Call) Start(now time.Time) error {
	if c.Status != StatusQueued {
		return &InvalidTransitionError{Op: "start", Status: c.Status}
	}
	c.Status = StatusInProgress
	t := now
	c.StartedAt = &t
	return nil
}

// Complete moves an in-progress call to completed and derives DurationSec
// from the started/ended pair.
func (c *Call) Complete(now time.Time) error {
	if c.Status != StatusInProgress {
		return &InvalidTransitionError{Op: "complete", Status: c.Status}
	}
	c.Status = StatusCompleted
	t := now
	c.EndedAt = &t

	// StartedAt is always set here; in-progress is only reachable via Start.
	dur := int(now.Sub(*c.StartedAt) / time.Second)
	if dur < 0 {
		dur = 0
	}
	c.DurationSec = &dur
	return nil
}

// Cancel ends a queued or in-progress call without a duration.
func (c *Call) Cancel(now time.Time) error {
	if c.Status == StatusCompleted || c.Status == StatusFailed {
		return &InvalidTransitionError{Op: "cancel", Status: c.Status}
	}
	c.Status = StatusCanceled
	t := now
	c.EndedAt = &t
	return nil
}

// Fail marks a queued or in-progress call as failed.
func (c *Call) Fail(now time.Time) error {
	if c.Status == StatusCompleted || c.Status == StatusCanceled {
		return &InvalidTransitionError{Op: "fail", Status: c.Status}
	}
	c.Status = StatusFailed
	t := now
	c.EndedAt = &t
	return nil
}
