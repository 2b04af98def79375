package waitlist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
	apperrors "github.com/nimbuslabs/waitlist-service/pkg/errors"
)

// SignupService is the application surface of the waitlist domain.
type SignupService interface {
	// Signup validates the request, persists the entry, and emits a toast
	// notification describing the outcome. Validation failures return a
	// *ValidationError; a concurrent submission for the same email returns
	// a conflict wrapping ErrSubmissionInFlight.
	Signup(ctx context.Context, req *SignupRequest, loc *i18n.Localizer) (*EntryResponse, error)

	// ListEntries returns all waitlist entries, most recent first.
	ListEntries(ctx context.Context) ([]*EntryResponse, error)
}

type signupService struct {
	logger   *log.Logger
	store    EntryStore
	notifier notify.Notifier
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSignupService wires a SignupService over the given store and notifier.
func NewSignupService(logger *log.Logger, store EntryStore, notifier notify.Notifier) SignupService {
	return &signupService{
		logger:   logger,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

func (s *signupService) Signup(ctx context.Context, req *SignupRequest, loc *i18n.Localizer) (*EntryResponse, error) {
	if req == nil {
		return nil, apperrors.NewInvalidRequestError("signup request is required", nil)
	}

	draft := req.Draft()
	if fields := ValidateDraft(draft); fields != nil {
		signupsTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, &ValidationError{Fields: fields}
	}

	email := strings.ToLower(strings.TrimSpace(draft.Email))
	if !s.acquire(email) {
		signupsTotal.WithLabelValues(outcomeConflict).Inc()
		return nil, apperrors.NewConflictError("a submission for this email is already in progress", ErrSubmissionInFlight)
	}
	defer s.release(email)

	entry := draft.Entry(s.now().UTC())

	logger := log.FromContext(ctx, s.logger)

	created, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		logger.Error("waitlist signup failed", "email", email, "error", err)
		signupsTotal.WithLabelValues(outcomeFailed).Inc()
		s.notify(ctx, notify.Error(
			loc.Lookup("hero.waitlist.toast.error.title"),
			loc.Lookup("hero.waitlist.toast.error.description"),
		))

		return nil, err
	}

	logger.Info("waitlist signup accepted", "email", email, "how_heard", created.HowHeard)
	signupsTotal.WithLabelValues(outcomeAccepted).Inc()
	s.notify(ctx, notify.Success(
		loc.Lookup("hero.waitlist.toast.success.title"),
		loc.Lookup("hero.waitlist.toast.success.description"),
	))

	return ToEntryResponse(created), nil
}

func (s *signupService) ListEntries(ctx context.Context) ([]*EntryResponse, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	return ToEntryResponses(entries), nil
}

// acquire marks an email as having a submission in flight. It returns false
// when another submission already holds the slot.
func (s *signupService) acquire(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.inflight[email]; held {
		return false
	}

	s.inflight[email] = struct{}{}

	return true
}

func (s *signupService) release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, email)
}

// notify delivers a toast without affecting the signup outcome. Delivery
// failures are logged and dropped.
func (s *signupService) notify(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification delivery failed", "severity", string(n.Severity), "error", err)
	}
}
