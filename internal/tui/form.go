// Package tui is the terminal signup form. It drives a waitlist.Submitter
// over the HTTP client, re-validating the draft on every keystroke the way
// the hosted form does.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nimbuslabs/waitlist-service/domain/waitlist"
	"github.com/nimbuslabs/waitlist-service/internal/client"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
)

// Screen represents the current active screen.
type Screen string

const (
	ScreenForm    Screen = "form"
	ScreenSuccess Screen = "success"
	ScreenFailure Screen = "failure"
)

// Focusable positions within the form, top to bottom.
const (
	focusName = iota
	focusEmail
	focusPhone
	focusHowHeard
	focusSubmit
	focusCount
)

const submitTimeout = 30 * time.Second

// submitResultMsg carries the outcome of a submission attempt.
type submitResultMsg struct {
	err error
}

// FormModel is the top-level bubbletea model for the signup form.
type FormModel struct {
	loc       *i18n.Localizer
	submitter *waitlist.Submitter

	screen Screen
	focus  int

	nameInput  textinput.Model
	emailInput textinput.Model
	phoneInput textinput.Model

	referralCursor int
	referrals      []waitlist.ReferralSource

	// fieldErrors holds catalog keys from local validation; serverErrors
	// holds already-localized messages returned by the API.
	fieldErrors  map[string]string
	serverErrors map[string]string
	touched      map[string]bool

	spin    spinner.Model
	lastErr error

	width  int
	height int
}

// NewFormModel builds the signup form backed by the given API client.
func NewFormModel(apiClient *client.Client, loc *i18n.Localizer) FormModel {
	nameInput := textinput.New()
	nameInput.Placeholder = loc.Lookup("hero.waitlist.form.name.placeholder")
	nameInput.CharLimit = inputCharLimit
	nameInput.Width = inputWidth
	nameInput.Focus()

	emailInput := textinput.New()
	emailInput.Placeholder = loc.Lookup("hero.waitlist.form.email.placeholder")
	emailInput.CharLimit = inputCharLimit
	emailInput.Width = inputWidth

	phoneInput := textinput.New()
	phoneInput.Placeholder = loc.Lookup("hero.waitlist.form.phone_number.placeholder")
	phoneInput.CharLimit = 32
	phoneInput.Width = inputWidth

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	submitter := waitlist.NewSubmitter(func(ctx context.Context, draft waitlist.Draft) error {
		return apiClient.Signup(ctx, draft)
	})

	return FormModel{
		loc:        loc,
		submitter:  submitter,
		screen:     ScreenForm,
		nameInput:  nameInput,
		emailInput: emailInput,
		phoneInput: phoneInput,
		referrals:  waitlist.ReferralSources(),
		touched:    make(map[string]bool),
		spin:       s,
	}
}

// Init starts the cursor blink.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.submitter.State() == waitlist.StateSubmitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	switch m.screen {
	case ScreenForm:
		return m.updateForm(msg)
	case ScreenSuccess:
		return m.updateSuccess(msg)
	case ScreenFailure:
		return m.updateFailure(msg)
	}

	return m, nil
}

func (m FormModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	submitting := m.submitter.State() == waitlist.StateSubmitting

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Submission in flight: the form is read-only until the result
		// arrives.
		if submitting {
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % focusCount)
			return m, textinput.Blink

		case "shift+tab", "up":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, textinput.Blink

		case "left":
			if m.focus == focusHowHeard {
				m.referralCursor = (m.referralCursor + len(m.referrals) - 1) % len(m.referrals)
				m.touched["how_heard"] = true
				m.revalidate()
				return m, nil
			}

		case "right":
			if m.focus == focusHowHeard {
				m.referralCursor = (m.referralCursor + 1) % len(m.referrals)
				m.touched["how_heard"] = true
				m.revalidate()
				return m, nil
			}

		case "enter":
			if m.focus == focusSubmit {
				return m.startSubmit()
			}
			m.setFocus((m.focus + 1) % focusCount)
			return m, textinput.Blink
		}
	}

	var cmds []tea.Cmd

	if !submitting {
		var cmd tea.Cmd
		switch m.focus {
		case focusName:
			m.nameInput, cmd = m.nameInput.Update(msg)
			m.touched["name"] = true
		case focusEmail:
			m.emailInput, cmd = m.emailInput.Update(msg)
			m.touched["email"] = true
		case focusPhone:
			m.phoneInput, cmd = m.phoneInput.Update(msg)
			m.touched["phone_number"] = true
		}
		cmds = append(cmds, cmd)
		m.revalidate()
	}

	return m, tea.Batch(cmds...)
}

func (m *FormModel) setFocus(focus int) {
	m.focus = focus

	m.nameInput.Blur()
	m.emailInput.Blur()
	m.phoneInput.Blur()

	switch focus {
	case focusName:
		m.nameInput.Focus()
	case focusEmail:
		m.emailInput.Focus()
	case focusPhone:
		m.phoneInput.Focus()
	}
}

func (m *FormModel) draft() waitlist.Draft {
	return waitlist.Draft{
		Name:        strings.TrimSpace(m.nameInput.Value()),
		Email:       strings.TrimSpace(m.emailInput.Value()),
		PhoneNumber: strings.TrimSpace(m.phoneInput.Value()),
		HowHeard:    string(m.referrals[m.referralCursor]),
	}
}

// revalidate recomputes field errors from the current draft. Server errors
// are cleared as soon as the user edits again.
func (m *FormModel) revalidate() {
	m.fieldErrors = waitlist.ValidateDraft(m.draft())
	m.serverErrors = nil
}

func (m FormModel) startSubmit() (tea.Model, tea.Cmd) {
	draft := m.draft()

	if fields := waitlist.ValidateDraft(draft); fields != nil {
		m.fieldErrors = fields
		for field := range fields {
			m.touched[field] = true
		}
		return m, nil
	}

	m.submitter.SetDraft(draft)

	submitter := m.submitter
	submitCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		return submitResultMsg{err: submitter.Submit(ctx)}
	}

	return m, tea.Batch(submitCmd, m.spin.Tick)
}

func (m FormModel) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.screen = ScreenSuccess
		return m, nil
	}

	m.lastErr = msg.err

	var apiErr *client.APIError
	if errors.As(msg.err, &apiErr) && len(apiErr.FieldErrors) > 0 {
		m.serverErrors = apiErr.FieldErrors
	}

	m.screen = ScreenFailure

	return m, nil
}

// updateSuccess waits for an acknowledgement, then clears the form.
func (m FormModel) updateSuccess(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "enter":
			m.submitter.Acknowledge()
			m.nameInput.SetValue("")
			m.emailInput.SetValue("")
			m.phoneInput.SetValue("")
			m.referralCursor = 0
			m.fieldErrors = nil
			m.serverErrors = nil
			m.touched = make(map[string]bool)
			m.lastErr = nil
			m.screen = ScreenForm
			m.setFocus(focusName)
			return m, textinput.Blink
		}
	}

	return m, nil
}

// updateFailure waits for an acknowledgement, keeping the draft for retry.
func (m FormModel) updateFailure(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "enter", "r":
			m.submitter.Acknowledge()
			m.screen = ScreenForm
			m.setFocus(focusName)
			return m, textinput.Blink
		}
	}

	return m, nil
}

// View renders the current screen.
func (m FormModel) View() string {
	switch m.screen {
	case ScreenSuccess:
		return m.viewSuccess()
	case ScreenFailure:
		return m.viewFailure()
	default:
		return m.viewForm()
	}
}

func (m FormModel) viewForm() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.loc.Lookup("hero.waitlist.title")))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(m.loc.Lookup("hero.waitlist.description")))
	b.WriteString("\n\n")

	b.WriteString(m.renderInput(focusName, "name", m.nameInput.View()))
	b.WriteString(m.renderInput(focusEmail, "email", m.emailInput.View()))
	b.WriteString(m.renderInput(focusPhone, "phone_number", m.phoneInput.View()))
	b.WriteString(m.renderReferralPicker())

	b.WriteString("\n")
	b.WriteString(m.renderSubmit())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab/↑↓ move • ←/→ choose • enter submit • esc quit"))

	return ContainerStyle.Render(b.String())
}

func (m FormModel) renderInput(focus int, field, inputView string) string {
	label := m.loc.Lookup("hero.waitlist.form." + field + ".label")

	labelStyle := LabelStyle
	if m.focus == focus {
		labelStyle = FocusedLabelStyle
	}

	line := labelStyle.Render(label) + "\n" + inputView + "\n"

	if message := m.errorFor(field); message != "" {
		line += FieldErrorStyle.Render(message) + "\n"
	}

	return line + "\n"
}

func (m FormModel) renderReferralPicker() string {
	label := m.loc.Lookup("hero.waitlist.form.how_heard.label")

	labelStyle := LabelStyle
	if m.focus == focusHowHeard {
		labelStyle = FocusedLabelStyle
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(label))
	b.WriteString("\n")

	for i, source := range m.referrals {
		name := m.loc.Lookup("hero.waitlist.form.how_heard.options." + string(source))
		if i == m.referralCursor {
			b.WriteString(SelectedOptionStyle.Render("> " + name))
		} else {
			b.WriteString(OptionStyle.Render(name))
		}
		b.WriteString("\n")
	}

	if message := m.errorFor("how_heard"); message != "" {
		b.WriteString(FieldErrorStyle.Render(message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m FormModel) renderSubmit() string {
	if m.submitter.State() == waitlist.StateSubmitting {
		return SubmitStyle.Render(m.spin.View() + " " + m.loc.Lookup("hero.waitlist.form.submitting"))
	}

	style := SubmitStyle
	if m.focus == focusSubmit {
		style = FocusedSubmitStyle
	}

	return style.Render(m.loc.Lookup("hero.waitlist.form.submit"))
}

// errorFor returns the display message for a field, preferring server-side
// messages over locally computed ones. Local errors only show once the user
// has touched the field.
func (m FormModel) errorFor(field string) string {
	if message, ok := m.serverErrors[field]; ok {
		return message
	}

	if !m.touched[field] {
		return ""
	}

	if key, ok := m.fieldErrors[field]; ok {
		return m.loc.Lookup(key)
	}

	return ""
}

func (m FormModel) viewSuccess() string {
	var b strings.Builder

	toast := fmt.Sprintf("%s\n\n%s",
		m.loc.Lookup("hero.waitlist.toast.success.title"),
		m.loc.Lookup("hero.waitlist.toast.success.description"))

	b.WriteString(SuccessBoxStyle.Render(toast))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("enter continue • q quit"))

	return ContainerStyle.Render(b.String())
}

func (m FormModel) viewFailure() string {
	var b strings.Builder

	toast := fmt.Sprintf("%s\n\n%s",
		m.loc.Lookup("hero.waitlist.toast.error.title"),
		m.loc.Lookup("hero.waitlist.toast.error.description"))

	b.WriteString(ErrorBoxStyle.Render(toast))
	b.WriteString("\n\n")

	if m.lastErr != nil && m.serverErrors == nil {
		b.WriteString(FieldErrorStyle.Render(m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render("enter edit and retry • q quit"))

	return ContainerStyle.Render(b.String())
}
