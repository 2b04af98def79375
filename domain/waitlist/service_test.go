package waitlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/models"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
	apperrors "github.com/nimbuslabs/waitlist-service/pkg/errors"
)

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
	err           error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)

	return r.err
}

func (r *recordingNotifier) sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]notify.Notification(nil), r.notifications...)
}

func englishLocalizer(t *testing.T) *i18n.Localizer {
	t.Helper()

	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	return catalog.ForLocale("en")
}

func validSignupRequest() *SignupRequest {
	return &SignupRequest{
		Name:        "Jo",
		Email:       "jo@example.com",
		PhoneNumber: "5551234567",
		HowHeard:    "tiktok",
	}
}

func TestSignupPersistsEntryAndNotifiesSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{}

	before := time.Now().UTC()

	store.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			assert.Equal(t, "Jo", entry.Name)
			assert.Equal(t, "jo@example.com", entry.Email)
			assert.Equal(t, "tiktok", entry.HowHeard)
			assert.False(t, entry.JoinedAt.Before(before))
			entry.ID = 1
			return entry, nil
		})

	service := NewSignupService(log.New(), store, notifier)

	resp, err := service.Signup(context.Background(), validSignupRequest(), englishLocalizer(t))
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, "tiktok", resp.HowHeard)
	assert.NotEmpty(t, resp.JoinedAt)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.SeveritySuccess, sent[0].Severity)
	assert.Equal(t, "You're on the list!", sent[0].Title)
}

func TestSignupRejectsInvalidDraftWithoutWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{}

	service := NewSignupService(log.New(), store, notifier)

	req := validSignupRequest()
	req.Name = "J"

	_, err := service.Signup(context.Background(), req, englishLocalizer(t))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "hero.waitlist.form.name.error", validationErr.Fields["name"])
	assert.Empty(t, notifier.sent())
}

func TestSignupStorageFailureNotifiesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{}

	store.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewDatabaseError("insert failed", errors.New("connection reset")))

	service := NewSignupService(log.New(), store, notifier)

	_, err := service.Signup(context.Background(), validSignupRequest(), englishLocalizer(t))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabase, apperrors.GetErrorType(err))

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.SeverityError, sent[0].Severity)
}

func TestSignupNotifierFailureDoesNotAffectOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{err: errors.New("sms gateway down")}

	store.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			return entry, nil
		})

	service := NewSignupService(log.New(), store, notifier)

	_, err := service.Signup(context.Background(), validSignupRequest(), englishLocalizer(t))
	assert.NoError(t, err)
}

func TestSignupRejectsConcurrentSubmissionForSameEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{}

	writeStarted := make(chan struct{})
	releaseWrite := make(chan struct{})

	store.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			close(writeStarted)
			<-releaseWrite
			return entry, nil
		})

	service := NewSignupService(log.New(), store, notifier)
	loc := englishLocalizer(t)

	firstDone := make(chan error, 1)
	go func() {
		_, err := service.Signup(context.Background(), validSignupRequest(), loc)
		firstDone <- err
	}()

	<-writeStarted

	_, err := service.Signup(context.Background(), validSignupRequest(), loc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))

	close(releaseWrite)
	assert.NoError(t, <-firstDone)
}

func TestSignupAllowsResubmissionAfterCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)
	notifier := &recordingNotifier{}

	store.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			return entry, nil
		}).
		Times(2)

	service := NewSignupService(log.New(), store, notifier)
	loc := englishLocalizer(t)

	_, err := service.Signup(context.Background(), validSignupRequest(), loc)
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), validSignupRequest(), loc)
	assert.NoError(t, err)
}

func TestListEntriesMapsStoredRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockEntryStore(ctrl)

	joinedAt := time.Date(2026, time.July, 2, 15, 4, 5, 0, time.UTC)
	store.EXPECT().ListEntries(gomock.Any()).Return([]*models.WaitlistEntry{
		{ID: 7, Name: "Sam", Email: "sam@example.com", PhoneNumber: "5559876543", HowHeard: "instagram", JoinedAt: joinedAt},
	}, nil)

	service := NewSignupService(log.New(), store, &recordingNotifier{})

	entries, err := service.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(7), entries[0].ID)
	assert.Equal(t, "instagram", entries[0].HowHeard)
	assert.Equal(t, joinedAt.Format(time.RFC3339), entries[0].JoinedAt)
}
