// Package register is the new-registration form. Submitting saves the draft
// once; success opens the detail view and a failure shows the server's
// message and leaves the form filled in for another attempt.
package register

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/ui/form"
	"github.com/ccj16/regdesk/internal/ui/modal"
	"github.com/ccj16/regdesk/internal/ui/progress"
	"github.com/ccj16/regdesk/internal/ui/styles"
	"github.com/ccj16/regdesk/internal/ui/toaster"
	"github.com/ccj16/regdesk/internal/workflow"
)

const (
	formID        = "register"
	errorDialogID = "register-error"

	// ErrorTitle heads the dialog shown when a save fails.
	ErrorTitle = "Failed to save registration"
	// SavingMessage is shown beside the spinner while the save is in flight.
	SavingMessage = "Saving registration..."
)

// Field keys.
const (
	FieldCouncil    = "council"
	FieldGroup      = "groupName"
	FieldPack       = "packName"
	FieldFirstName  = "contactLeaderFirstName"
	FieldLastName   = "contactLeaderLastName"
	FieldEmail      = "contactLeaderEmail"
	FieldPhone      = "contactLeaderPhoneNumber"
	FieldAddress1   = "address1"
	FieldAddress2   = "address2"
	FieldCity       = "city"
	FieldProvince   = "province"
	FieldPostalCode = "postalCode"
	FieldYouth      = "estimatedYouth"
	FieldLeaders    = "estimatedLeaders"
	FieldAgree      = "agree"
)

func fields() []form.Field {
	return []form.Field{
		{Key: FieldCouncil, Label: "Council", Required: true, CharLimit: 80},
		{Key: FieldGroup, Label: "Group name", Placeholder: "1st Burnaby", Required: true, CharLimit: 80},
		{Key: FieldPack, Label: "Pack name", CharLimit: 80},
		{Key: FieldFirstName, Label: "Contact first name", Required: true, CharLimit: 60},
		{Key: FieldLastName, Label: "Contact last name", Required: true, CharLimit: 60},
		{Key: FieldEmail, Label: "Contact email", Placeholder: "leader@example.org", Required: true, CharLimit: 120},
		{Key: FieldPhone, Label: "Contact phone", Required: true, CharLimit: 30},
		{Key: FieldAddress1, Label: "Address", CharLimit: 120},
		{Key: FieldAddress2, Label: "Address line 2", CharLimit: 120},
		{Key: FieldCity, Label: "City", CharLimit: 60},
		{Key: FieldProvince, Label: "Province", Value: "BC", CharLimit: 30},
		{Key: FieldPostalCode, Label: "Postal code", CharLimit: 10},
		{Key: FieldYouth, Label: "Estimated youth", Kind: form.KindNumber, Placeholder: "0", CharLimit: 4},
		{Key: FieldLeaders, Label: "Estimated leaders", Kind: form.KindNumber, Placeholder: "0", CharLimit: 4},
		{Key: FieldAgree, Label: "I agree to receive emails about this event", Kind: form.KindCheckbox},
	}
}

// Model is the register screen.
type Model struct {
	ctx      context.Context
	services mode.Services

	draft    *registration.Registration
	form     form.Model
	sub      workflow.Submission
	progress progress.Model
	dialog   *modal.Model

	width  int
	height int
}

// New creates an empty form.
func New(ctx context.Context, services mode.Services) Model {
	m := Model{
		ctx:      ctx,
		services: services,
		draft:    services.Registrations.New(),
		form:     form.New(formID, "Pre-register your group", "Submit", fields()),
	}
	m.syncSubmit()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Draft returns the registration being edited.
func (m Model) Draft() *registration.Registration {
	return m.draft
}

// Submission returns the submit state.
func (m Model) Submission() workflow.Submission {
	return m.sub
}

// Dialog returns the open error dialog, if any.
func (m Model) Dialog() *modal.Model {
	return m.dialog
}

// Capturing is always true: the form takes printable keys.
func (m Model) Capturing() bool {
	return true
}

// Blocking reports whether the save is in flight or its error is shown.
func (m Model) Blocking() bool {
	return m.sub.Busy() || m.dialog != nil
}

// SetSize resizes the form and any dialog.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width, m.height = width, height
	m.form.SetWidth(min(width-2, 84))
	if m.dialog != nil {
		m.dialog.SetSize(width, height)
	}
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	if done, ok := msg.(workflow.DoneMsg); ok {
		return m.finish(done)
	}

	if m.sub.Busy() {
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	if m.dialog != nil {
		switch msg := msg.(type) {
		case modal.ConfirmedMsg, modal.CancelledMsg:
			m.dialog = nil
			m.sub = m.sub.Reset()
			return m, nil
		case tea.KeyMsg, tea.MouseMsg:
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case form.ToggledMsg:
		if msg.FormID == formID && msg.Key == FieldAgree {
			m.form.SetChecked(FieldAgree, m.draft.SetAgreedToEmailTerms(msg.Checked))
			m.syncSubmit()
		}
		return m, nil
	case form.SubmitMsg:
		if msg.FormID == formID {
			return m.submit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	m.applyForm()
	return m, cmd
}

func (m *Model) applyForm() {
	d := m.draft
	d.Council = m.form.Value(FieldCouncil)
	d.GroupName = m.form.Value(FieldGroup)
	d.PackName = m.form.Value(FieldPack)
	d.ContactLeaderFirstName = m.form.Value(FieldFirstName)
	d.ContactLeaderLastName = m.form.Value(FieldLastName)
	d.ContactLeaderEmail = m.form.Value(FieldEmail)
	d.ContactLeaderPhoneNumber = m.form.Value(FieldPhone)
	d.ContactLeaderAddress = registration.Address{
		Address1:   m.form.Value(FieldAddress1),
		Address2:   m.form.Value(FieldAddress2),
		City:       m.form.Value(FieldCity),
		Province:   m.form.Value(FieldProvince),
		PostalCode: m.form.Value(FieldPostalCode),
	}
	d.EstimatedYouth = atoi(m.form.Value(FieldYouth))
	d.EstimatedLeaders = atoi(m.form.Value(FieldLeaders))
	m.syncSubmit()
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (m *Model) syncSubmit() {
	m.form.SetSubmitEnabled(workflow.CanSubmit(m.draft))
}

func (m Model) submit() (mode.Controller, tea.Cmd) {
	m.applyForm()
	if !workflow.CanSubmit(m.draft) {
		log.Debug(log.CatUI, "submit ignored", "missing", m.draft.Missing())
		return m, nil
	}
	sub, err := m.sub.Begin(workflow.OpSave)
	if err != nil {
		return m, nil
	}
	m.sub = sub
	m.progress = progress.New(SavingMessage)
	return m, tea.Batch(m.progress.Init(), workflow.Save(m.ctx, m.draft))
}

func (m Model) finish(done workflow.DoneMsg) (mode.Controller, tea.Cmd) {
	m.sub = m.sub.Finish(done)

	switch m.sub.State() {
	case workflow.Succeeded:
		saved := done.Registration
		m.draft = saved
		return m, tea.Batch(
			m.remember(saved),
			mode.Toast("Registration saved", toaster.StyleSuccess),
			mode.Navigate(mode.Registration(m.sub.Key())),
		)
	case workflow.Failed:
		d := modal.Alert(errorDialogID, ErrorTitle, m.sub.Message())
		d.SetSize(m.width, m.height)
		m.dialog = &d
	}
	return m, nil
}

// remember stores a receipt so the registration can be reopened later.
func (m Model) remember(reg *registration.Registration) tea.Cmd {
	store := m.services.Receipts
	if store == nil || reg == nil {
		return nil
	}
	ctx := m.ctx
	at := m.services.Clock.Now()
	return func() tea.Msg {
		r, err := receipts.FromRegistration(reg, at)
		if err == nil {
			err = store.Add(ctx, r)
		}
		if err != nil {
			log.ErrorErr(log.CatReceipts, "saving receipt failed", err, "key", reg.SecurityKey)
			return mode.ShowToastMsg{Message: "Could not save a local receipt", Style: toaster.StyleWarn}
		}
		return nil
	}
}

// View implements mode.Controller.
func (m Model) View() string {
	intro := styles.HintStyle.Render("Fields marked * are required. Submit unlocks once you agree to receive emails.")
	view := lipgloss.JoinVertical(lipgloss.Left, m.form.View(), intro)

	switch {
	case m.sub.Busy():
		return m.progress.Overlay(view, m.width, m.height)
	case m.dialog != nil:
		return m.dialog.Overlay(view)
	}
	return view
}
