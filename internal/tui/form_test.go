package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuslabs/waitlist-service/internal/client"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
)

func newTestModel(t *testing.T) FormModel {
	t.Helper()

	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	return NewFormModel(client.New("http://127.0.0.1:1", "en"), catalog.ForLocale("en"))
}

func typeString(m FormModel, s string) FormModel {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(FormModel)
	}

	return m
}

func press(m FormModel, keyType tea.KeyType) FormModel {
	updated, _ := m.Update(tea.KeyMsg{Type: keyType})
	return updated.(FormModel)
}

func TestFormStartsOnNameField(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, ScreenForm, m.screen)
	assert.Equal(t, focusName, m.focus)
}

func TestTypingFillsDraft(t *testing.T) {
	m := newTestModel(t)

	m = typeString(m, "Jordan")
	m = press(m, tea.KeyTab)
	m = typeString(m, "jordan@example.com")
	m = press(m, tea.KeyTab)
	m = typeString(m, "5551234567")

	draft := m.draft()
	assert.Equal(t, "Jordan", draft.Name)
	assert.Equal(t, "jordan@example.com", draft.Email)
	assert.Equal(t, "5551234567", draft.PhoneNumber)
	assert.Equal(t, "instagram", draft.HowHeard)
}

func TestReferralPickerCycles(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 3; i++ {
		m = press(m, tea.KeyTab)
	}
	require.Equal(t, focusHowHeard, m.focus)

	m = press(m, tea.KeyRight)
	assert.Equal(t, "tiktok", m.draft().HowHeard)

	m = press(m, tea.KeyLeft)
	m = press(m, tea.KeyLeft)
	assert.Equal(t, "other", m.draft().HowHeard)
}

func TestSubmitWithInvalidDraftShowsFieldErrors(t *testing.T) {
	m := newTestModel(t)

	m = typeString(m, "J")
	for m.focus != focusSubmit {
		m = press(m, tea.KeyTab)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(FormModel)

	assert.Nil(t, cmd)
	assert.Equal(t, ScreenForm, m.screen)
	assert.Contains(t, m.fieldErrors, "name")
	assert.Contains(t, m.fieldErrors, "email")
	assert.NotEmpty(t, m.errorFor("email"))
}

func TestSuccessfulOutcomeClearsFormOnAcknowledge(t *testing.T) {
	m := newTestModel(t)
	m = typeString(m, "Jordan")

	updated, _ := m.Update(submitResultMsg{err: nil})
	m = updated.(FormModel)
	require.Equal(t, ScreenSuccess, m.screen)

	m = press(m, tea.KeyEnter)

	assert.Equal(t, ScreenForm, m.screen)
	assert.Empty(t, m.draft().Name)
	assert.Equal(t, focusName, m.focus)
}

func TestFailedOutcomeRetainsDraftOnAcknowledge(t *testing.T) {
	m := newTestModel(t)
	m = typeString(m, "Jordan")

	updated, _ := m.Update(submitResultMsg{err: errors.New("server unavailable")})
	m = updated.(FormModel)
	require.Equal(t, ScreenFailure, m.screen)

	m = press(m, tea.KeyEnter)

	assert.Equal(t, ScreenForm, m.screen)
	assert.Equal(t, "Jordan", m.draft().Name)
}

func TestFailureWithFieldErrorsSurfacesServerMessages(t *testing.T) {
	m := newTestModel(t)

	apiErr := &client.APIError{
		StatusCode:  400,
		Message:     "Something went wrong",
		FieldErrors: map[string]string{"email": "Enter a valid email address."},
	}

	updated, _ := m.Update(submitResultMsg{err: apiErr})
	m = updated.(FormModel)

	require.Equal(t, ScreenFailure, m.screen)
	assert.Equal(t, "Enter a valid email address.", m.errorFor("email"))
}
