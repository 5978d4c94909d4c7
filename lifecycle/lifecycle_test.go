package lifecycle

import (
	"errors"
	"testing"
	"time"
)

func TestApplyRejectsUnknownStatus(t *testing.T) {
	now := time.Now()
	for _, bad := range []string{"", "approved", "PENDING", "done", "under-review"} {
		_, err := PolicyAny.Apply(StatusPending, bad, "admin1", now)
		if !errors.Is(err, ErrBadStatus) {
			t.Errorf("Apply(%q): want ErrBadStatus, got %v", bad, err)
		}
	}
}

func TestApplyAcceptsAllRecognizedStatuses(t *testing.T) {
	now := time.Now()
	all := []string{StatusPending, StatusSubmitted, StatusUnderReview, StatusAccepted, StatusRejected}
	for _, next := range all {
		ch, err := PolicyAny.Apply(StatusAccepted, next, "admin1", now)
		if err != nil {
			t.Fatalf("Apply(%q): %v", next, err)
		}
		if ch.Status != next {
			t.Errorf("Apply(%q): status = %q", next, ch.Status)
		}
		if ch.ReviewedBy != "admin1" || !ch.ReviewedAt.Equal(now) {
			t.Errorf("Apply(%q): reviewer fields not set: %+v", next, ch)
		}
	}
}

func TestApplySameStatusDoesNotNotify(t *testing.T) {
	ch, err := PolicyAny.Apply(StatusAccepted, StatusAccepted, "admin1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if ch.Notify {
		t.Error("re-applying the same status should not notify")
	}

	ch, err = PolicyAny.Apply(StatusPending, StatusAccepted, "admin1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Notify {
		t.Error("a real status change should notify")
	}
}

func TestForwardPolicy(t *testing.T) {
	now := time.Now()
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusSubmitted, true},
		{StatusSubmitted, StatusUnderReview, true},
		{StatusUnderReview, StatusAccepted, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusSubmitted, false},
		{StatusUnderReview, StatusUnderReview, true},
		// accepted <-> rejected share the terminal rank, both directions pass
		{StatusAccepted, StatusRejected, true},
	}
	for _, c := range cases {
		_, err := PolicyForward.Apply(c.from, c.to, "admin1", now)
		if c.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", c.from, c.to, err)
		}
		if !c.ok && !errors.Is(err, ErrBackward) {
			t.Errorf("%s -> %s: want ErrBackward, got %v", c.from, c.to, err)
		}
	}
}

func TestForwardPolicyToleratesUnknownCurrent(t *testing.T) {
	// records written before validation was tightened may hold junk; a move
	// to any recognized status must still succeed
	_, err := PolicyForward.Apply("???", StatusSubmitted, "admin1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
