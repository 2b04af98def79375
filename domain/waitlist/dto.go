package waitlist

import (
	"github.com/nimbuslabs/waitlist-service/internal/models"
	"github.com/nimbuslabs/waitlist-service/pkg/constants"
)

// SignupRequest is the wire shape of a waitlist signup. The binding tags
// mirror the domain validation rules so malformed payloads are rejected at
// the transport edge with field-level messages.
type SignupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=32"`
	HowHeard    string `json:"how_heard" binding:"required,oneof=instagram tiktok linkedin x word_of_mouth other"`
}

// Draft converts the request into the domain draft consumed by ValidateDraft.
func (r *SignupRequest) Draft() Draft {
	return Draft{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		HowHeard:    r.HowHeard,
	}
}

// EntryResponse is the outward shape of a persisted waitlist entry.
type EntryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	HowHeard    string `json:"how_heard"`
	JoinedAt    string `json:"joined_at"`
}

// ToEntryResponse maps a stored entry to its response representation.
func ToEntryResponse(entry *models.WaitlistEntry) *EntryResponse {
	return &EntryResponse{
		ID:          entry.ID,
		Name:        entry.Name,
		Email:       entry.Email,
		PhoneNumber: entry.PhoneNumber,
		HowHeard:    entry.HowHeard,
		JoinedAt:    entry.JoinedAt.Format(constants.RFC3339DateTimeFormat),
	}
}

// ToEntryResponses maps a slice of stored entries.
func ToEntryResponses(entries []*models.WaitlistEntry) []*EntryResponse {
	responses := make([]*EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToEntryResponse(entry))
	}

	return responses
}
