package waitlist

import (
	"context"

	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/internal/models"
	apperrors "github.com/nimbuslabs/waitlist-service/pkg/errors"
)

// EntryStore persists waitlist entries. The waitlist is append-only, so the
// surface is a single insert plus a listing used by operators.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
}

type gormEntryStore struct {
	db *gorm.DB
}

// NewEntryStore returns a GORM-backed EntryStore.
func NewEntryStore(db *gorm.DB) EntryStore {
	return &gormEntryStore{db: db}
}

func (s *gormEntryStore) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to create waitlist entry", err)
	}

	return entry, nil
}

func (s *gormEntryStore) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry
	if err := s.db.WithContext(ctx).Order("joined_at DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to list waitlist entries", err)
	}

	return entries, nil
}
