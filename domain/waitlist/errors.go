package waitlist

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	apperrors "github.com/nimbuslabs/waitlist-service/pkg/errors"
)

// Sentinel errors for the waitlist domain.
var (
	// ErrSubmissionInFlight signals that a submission for the same email
	// is currently awaiting its storage write.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrSubmitterNotIdle signals a Submit call on a form session that is
	// not in the Idle state.
	ErrSubmitterNotIdle = errors.New("submitter is not idle")
)

// ValidationError carries field-scoped failures from ValidateDraft. Fields
// maps field names to catalog message keys; presentation resolves them
// through a Localizer so the domain never owns display strings.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	return fmt.Sprintf("validation failed for: %s", strings.Join(names, ", "))
}

// Localize resolves the field message keys into display strings for one
// locale, ordered by the form's field layout.
func (e *ValidationError) Localize(loc *i18n.Localizer) []apperrors.FieldError {
	fieldErrors := make([]apperrors.FieldError, 0, len(e.Fields))

	for _, field := range i18n.FormFields {
		if key, ok := e.Fields[field]; ok {
			fieldErrors = append(fieldErrors, apperrors.FieldError{
				Field:   field,
				Message: loc.Lookup(key),
			})
		}
	}

	return fieldErrors
}
