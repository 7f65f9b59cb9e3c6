package calls

import (
	"errors"
	"testing"
	"time"
)

func TestNew_StartsQueued(t *testing.T) {
	requested := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := New("cust-1", requested)

	if c.CallID == "" {
		t.Fatalf("expected generated call id")
	}
	if c.CustomerID != "cust-1" {
		t.Fatalf("expected customer id, got %q", c.CustomerID)
	}
	if c.Status != StatusQueued {
		t.Fatalf("expected queued, got %s", c.Status)
	}
	if !c.RequestedAt.Equal(requested) {
		t.Fatalf("expected requested_at %v, got %v", requested, c.RequestedAt)
	}
	if c.StartedAt != nil || c.EndedAt != nil || c.DurationSec != nil {
		t.Fatalf("expected no lifecycle timestamps on a fresh call")
	}
}

func TestStart_OnlyFromQueued(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := New("cust-1", now)
	if err := c.Start(now); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if c.Status != StatusInProgress {
		t.Fatalf("expected in-progress, got %s", c.Status)
	}
	if c.StartedAt == nil || !c.StartedAt.Equal(now) {
		t.Fatalf("expected started_at %v, got %v", now, c.StartedAt)
	}

	// A second start is rejected and leaves the call untouched.
	before := c
	err := c.Start(now.Add(time.Minute))
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if ite.Op != "start" || ite.Status != StatusInProgress {
		t.Fatalf("unexpected rejection detail: %+v", ite)
	}
	if c.Status != before.Status || !c.StartedAt.Equal(*before.StartedAt) {
		t.Fatalf("rejected transition must not mutate the call")
	}
}

func TestComplete_DerivesFlooredDuration(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := New("cust-1", started)
	if err := c.Start(started); err != nil {
		t.Fatalf("start: %v", err)
	}

	// 90.7s of wall clock floors to 90 whole seconds.
	ended := started.Add(90*time.Second + 700*time.Millisecond)
	if err := c.Complete(ended); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if c.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", c.Status)
	}
	if c.DurationSec == nil || *c.DurationSec != 90 {
		t.Fatalf("expected duration 90, got %v", c.DurationSec)
	}
	if c.EndedAt == nil || !c.EndedAt.Equal(ended) {
		t.Fatalf("expected ended_at %v, got %v", ended, c.EndedAt)
	}
}

func TestComplete_OnlyFromInProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := New("cust-1", now)
	err := c.Complete(now)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if c.Status != StatusQueued || c.DurationSec != nil {
		t.Fatalf("rejected complete must not mutate the call")
	}
}

func TestCancel_FromQueuedAndInProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	queued := New("cust-1", now)
	if err := queued.Cancel(now); err != nil {
		t.Fatalf("cancel from queued: %v", err)
	}
	if queued.Status != StatusCanceled || queued.EndedAt == nil {
		t.Fatalf("expected canceled with ended_at set")
	}
	if queued.DurationSec != nil {
		t.Fatalf("canceled call must not carry a duration")
	}

	inProgress := New("cust-1", now)
	_ = inProgress.Start(now)
	if err := inProgress.Cancel(now.Add(time.Second)); err != nil {
		t.Fatalf("cancel from in-progress: %v", err)
	}
	if inProgress.Status != StatusCanceled {
		t.Fatalf("expected canceled, got %s", inProgress.Status)
	}
}

func TestCancel_RejectedFromCompletedAndFailed(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	completed := New("cust-1", now)
	_ = completed.Start(now)
	_ = completed.Complete(now.Add(time.Minute))
	if err := completed.Cancel(now.Add(2 * time.Minute)); err == nil {
		t.Fatalf("expected cancel rejection from completed")
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("call must stay completed, got %s", completed.Status)
	}

	failed := New("cust-1", now)
	_ = failed.Fail(now)
	if err := failed.Cancel(now.Add(time.Minute)); err == nil {
		t.Fatalf("expected cancel rejection from failed")
	}
}

func TestFail_RejectedFromCompletedAndCanceled(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	completed := New("cust-1", now)
	_ = completed.Start(now)
	_ = completed.Complete(now.Add(time.Minute))
	if err := completed.Fail(now); err == nil {
		t.Fatalf("expected fail rejection from completed")
	}

	canceled := New("cust-1", now)
	_ = canceled.Cancel(now)
	if err := canceled.Fail(now); err == nil {
		t.Fatalf("expected fail rejection from canceled")
	}
	if canceled.Status != StatusCanceled {
		t.Fatalf("call must stay canceled, got %s", canceled.Status)
	}
}

func TestFail_FromQueuedAndInProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	queued := New("cust-1", now)
	if err := queued.Fail(now); err != nil {
		t.Fatalf("fail from queued: %v", err)
	}
	if queued.Status != StatusFailed || queued.EndedAt == nil {
		t.Fatalf("expected failed with ended_at set")
	}

	inProgress := New("cust-1", now)
	_ = inProgress.Start(now)
	if err := inProgress.Fail(now.Add(time.Second)); err != nil {
		t.Fatalf("fail from in-progress: %v", err)
	}
	if inProgress.DurationSec != nil {
		t.Fatalf("failed call must not carry a duration")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusQueued, StatusInProgress, StatusCompleted, StatusCanceled, StatusFailed} {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("expected %s to round-trip, got %v %v", s, got, err)
		}
	}
	if _, err := ParseStatus("ringing"); err == nil {
		t.Fatalf("expected unknown status error")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusQueued.Terminal() || StatusInProgress.Terminal() {
		t.Fatalf("queued/in-progress are not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCanceled.Terminal() || !StatusFailed.Terminal() {
		t.Fatalf("completed/canceled/failed are terminal")
	}
}
