package waitlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Name:        "Jordan Rivers",
		Email:       "jordan@example.com",
		PhoneNumber: "5551234567",
		HowHeard:    "tiktok",
	}
}

func TestValidateDraftAcceptsValidDraft(t *testing.T) {
	assert.Nil(t, ValidateDraft(validDraft()))
}

func TestValidateDraftAcceptsMinimumLengths(t *testing.T) {
	d := validDraft()
	d.Name = "Jo"
	d.PhoneNumber = "0123456789"

	assert.Nil(t, ValidateDraft(d))
}

func TestValidateDraftFieldFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		field   string
		wantKey string
	}{
		{
			name:    "name too short",
			mutate:  func(d *Draft) { d.Name = "J" },
			field:   "name",
			wantKey: "hero.waitlist.form.name.error",
		},
		{
			name:    "name empty",
			mutate:  func(d *Draft) { d.Name = "" },
			field:   "name",
			wantKey: "hero.waitlist.form.name.error",
		},
		{
			name:    "email empty",
			mutate:  func(d *Draft) { d.Email = "" },
			field:   "email",
			wantKey: "hero.waitlist.form.email.error",
		},
		{
			name:    "email malformed",
			mutate:  func(d *Draft) { d.Email = "not-an-email" },
			field:   "email",
			wantKey: "hero.waitlist.form.email.error",
		},
		{
			name:    "phone too short",
			mutate:  func(d *Draft) { d.PhoneNumber = "555123" },
			field:   "phone_number",
			wantKey: "hero.waitlist.form.phone_number.error",
		},
		{
			name:    "referral source unknown",
			mutate:  func(d *Draft) { d.HowHeard = "billboard" },
			field:   "how_heard",
			wantKey: "hero.waitlist.form.how_heard.error",
		},
		{
			name:    "referral source empty",
			mutate:  func(d *Draft) { d.HowHeard = "" },
			field:   "how_heard",
			wantKey: "hero.waitlist.form.how_heard.error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			fields := ValidateDraft(d)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantKey, fields[tt.field])
		})
	}
}

func TestValidateDraftReportsEveryInvalidField(t *testing.T) {
	fields := ValidateDraft(Draft{})

	require.Len(t, fields, 4)
	for _, field := range []string{"name", "email", "phone_number", "how_heard"} {
		assert.Contains(t, fields, field)
	}
}

func TestDraftEntryStampsJoinedAt(t *testing.T) {
	joinedAt := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

	entry := validDraft().Entry(joinedAt)

	assert.Equal(t, "Jordan Rivers", entry.Name)
	assert.Equal(t, "jordan@example.com", entry.Email)
	assert.Equal(t, "5551234567", entry.PhoneNumber)
	assert.Equal(t, "tiktok", entry.HowHeard)
	assert.Equal(t, joinedAt, entry.JoinedAt)
}

func TestParseReferralSource(t *testing.T) {
	source, ok := ParseReferralSource("word_of_mouth")
	require.True(t, ok)
	assert.Equal(t, ReferralWordOfMouth, source)

	_, ok = ParseReferralSource("carrier_pigeon")
	assert.False(t, ok)
}
