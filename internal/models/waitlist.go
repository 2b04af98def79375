package models

import "time"

// WaitlistEntry is one signup. Entries are create-once: nothing in this
// codebase updates or deletes a row after insertion, so the model carries no
// updated/deleted bookkeeping.
type WaitlistEntry struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	Email       string    `gorm:"not null;index"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	HowHeard    string    `gorm:"column:how_heard;not null"`
	JoinedAt    time.Time `gorm:"column:joined_at;not null"`
}

// TableName pins the storage table the signup form writes to.
func (WaitlistEntry) TableName() string {
	return "waitlist"
}

// ModelRegistry lists every model included in dev auto-migration.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
}
