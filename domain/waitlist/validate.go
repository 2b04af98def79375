package waitlist

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nimbuslabs/waitlist-service/internal/models"
)

// Draft is a candidate signup as typed by the user, before it becomes a
// WaitlistEntry.
type Draft struct {
	Name        string `validate:"required,min=2"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required,min=10"`
	HowHeard    string `validate:"required,oneof=instagram tiktok linkedin x word_of_mouth other"`
}

var draftValidator = validator.New()

// draftFields maps struct field names to the wire/display field names used
// in error maps and catalog keys.
var draftFields = map[string]string{
	"Name":        "name",
	"Email":       "email",
	"PhoneNumber": "phone_number",
	"HowHeard":    "how_heard",
}

// ValidateDraft checks a draft against the signup rules and returns a map
// from field name to the catalog key of its error message; nil when the
// draft is acceptable. Validation is pure and synchronous so callers can
// re-run it on every field change. Tags are evaluated in order, so an empty
// value fails its required/length check before any format check is
// attempted.
func ValidateDraft(d Draft) map[string]string {
	err := draftValidator.Struct(d)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			field, ok := draftFields[fieldError.StructField()]
			if !ok {
				field = fieldError.StructField()
			}
			fields[field] = "hero.waitlist.form." + field + ".error"
		}
	}

	return fields
}

// Entry converts an accepted draft into the storage record, stamping
// joined_at with the submission time.
func (d Draft) Entry(joinedAt time.Time) *models.WaitlistEntry {
	return &models.WaitlistEntry{
		Name:        d.Name,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		HowHeard:    d.HowHeard,
		JoinedAt:    joinedAt,
	}
}
