package waitlist

import (
	"context"
	"sync"
)

// State is the lifecycle phase of a form submission session.
type State string

const (
	// StateIdle accepts edits and new submissions.
	StateIdle State = "idle"
	// StateSubmitting has a write in flight; further submits are rejected.
	StateSubmitting State = "submitting"
	// StateSucceeded holds the outcome until acknowledged, then clears the
	// draft and returns to idle.
	StateSucceeded State = "succeeded"
	// StateFailed holds the outcome until acknowledged, then returns to
	// idle with the draft intact for correction.
	StateFailed State = "failed"
)

// SubmitFunc performs the actual write for a validated draft.
type SubmitFunc func(ctx context.Context, draft Draft) error

// Submitter tracks one signup form session. It enforces a single in-flight
// submission and the idle -> submitting -> succeeded/failed -> idle cycle.
type Submitter struct {
	mu      sync.Mutex
	state   State
	draft   Draft
	lastErr error
	submit  SubmitFunc
}

// NewSubmitter returns an idle session that submits through fn.
func NewSubmitter(fn SubmitFunc) *Submitter {
	return &Submitter{state: StateIdle, submit: fn}
}

// State reports the current lifecycle phase.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Draft returns the current field values.
func (s *Submitter) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draft
}

// SetDraft replaces the field values. Edits are ignored while a submission
// is in flight or an outcome is pending acknowledgement.
func (s *Submitter) SetDraft(draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return
	}

	s.draft = draft
}

// LastError returns the error from the most recent failed submission.
func (s *Submitter) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// Submit validates the draft and runs the submit function. It only proceeds
// from the idle state; a submit while one is already in flight returns
// ErrSubmitterNotIdle without touching the session. Validation failures
// leave the session idle so the user can correct the fields.
func (s *Submitter) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrSubmitterNotIdle
	}

	draft := s.draft
	if fields := ValidateDraft(draft); fields != nil {
		s.mu.Unlock()
		return &ValidationError{Fields: fields}
	}

	s.state = StateSubmitting
	s.lastErr = nil
	s.mu.Unlock()

	err := s.submit(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.lastErr = err

		return err
	}

	s.state = StateSucceeded

	return nil
}

// Acknowledge consumes a terminal outcome. Success clears the draft before
// returning to idle; failure keeps the draft so the user can retry. It is a
// no-op in any other state.
func (s *Submitter) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSucceeded:
		s.draft = Draft{}
		s.lastErr = nil
		s.state = StateIdle
	case StateFailed:
		s.state = StateIdle
	}
}
