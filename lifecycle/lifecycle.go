// Package lifecycle implements the five-stage application review pipeline
// shared by bookings and dependants.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

const (
	StatusPending     = "pending"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
)

var ErrBadStatus = errors.New("unrecognized application status")
var ErrBackward = errors.New("application status may not move backwards")

// rank orders the pipeline for the forward-only policy. accepted and
// rejected are both terminal.
var rank = map[string]int{
	StatusPending:     0,
	StatusSubmitted:   1,
	StatusUnderReview: 2,
	StatusAccepted:    3,
	StatusRejected:    3,
}

func Valid(status string) bool {
	_, ok := rank[status]
	return ok
}

// Policy decides which transitions between recognized statuses are legal.
type Policy int

const (
	// PolicyAny lets an admin set any recognized status from any other,
	// keeping correction of earlier decisions possible.
	PolicyAny Policy = iota
	// PolicyForward only permits movement toward a terminal status.
	PolicyForward
)

// Change is the result of a legal transition: the fields to persist plus
// whether a status-change notice should go out.
type Change struct {
	Status     string
	ReviewedAt time.Time
	ReviewedBy string
	// false when the new status equals the old one; the transition still
	// persists (reviewedAt/reviewedBy refresh) but no mail is sent.
	Notify bool
}

// Apply validates next against the policy and builds the Change.
// The caller is responsible for the admin check; Apply only governs status
// legality.
func (p Policy) Apply(current, next, reviewerID string, now time.Time) (Change, error) {
	if !Valid(next) {
		return Change{}, fmt.Errorf("%w: %q", ErrBadStatus, next)
	}
	if p == PolicyForward && Valid(current) && rank[next] < rank[current] {
		return Change{}, fmt.Errorf("%w: %s -> %s", ErrBackward, current, next)
	}
	return Change{
		Status:     next,
		ReviewedAt: now,
		ReviewedBy: reviewerID,
		Notify:     next != current,
	}, nil
}
