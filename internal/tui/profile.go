package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/internal/validate"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

type profileLoadedMsg struct {
	profile *domain.Profile
	err     error
}

type profileSavedMsg struct {
	profile *domain.Profile
	err     error
}

const (
	profileFieldName = iota
	profileFieldPhone
)

// profileScreen shows the signed-in student's account and edits name and phone.
type profileScreen struct {
	api       *client.Client
	studentID string

	profile *domain.Profile
	form    *form
	loading bool
	err     string
	status  string
}

func newProfileScreen(api *client.Client, sess domain.Session) *profileScreen {
	return &profileScreen{api: api, studentID: sess.SubjectID}
}

func (m *profileScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *profileScreen) load() tea.Cmd {
	api, id := m.api, m.studentID
	return func() tea.Msg {
		p, err := api.GetProfile(context.Background(), id)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m *profileScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.profile = msg.profile

	case profileSavedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = errMessage(msg.err)
			}
			return nil
		}
		m.form = nil
		m.profile = msg.profile
		m.status = "Profile saved"

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKey(msg)
		}
		switch msg.String() {
		case "e":
			if m.profile == nil {
				return nil
			}
			m.form = newForm("Edit profile",
				formField{label: "Name", placeholder: "full name", value: m.profile.Name},
				formField{label: "Phone", placeholder: "10 digits, optional", value: m.profile.Phone},
			)
		case "r":
			m.loading = true
			return m.load()
		}
	}
	return nil
}

func (m *profileScreen) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		upd := domain.ProfileUpdate{
			Name:  m.form.value(profileFieldName),
			Phone: m.form.value(profileFieldPhone),
		}
		if fields := validate.Struct(upd); fields != nil {
			m.form.err = validate.First(fields)
			return nil
		}
		api, id := m.api, m.studentID
		return func() tea.Msg {
			p, err := api.UpdateProfile(context.Background(), id, upd)
			return profileSavedMsg{profile: p, err: err}
		}
	}
	return nil
}

func (m *profileScreen) Typing() bool { return m.form != nil }

func (m *profileScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	if m.loading && m.profile == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if m.profile == nil {
		return b.String()
	}

	phone := m.profile.Phone
	if phone == "" {
		phone = dimStyle.Render("not set")
	}
	rows := []struct{ k, v string }{
		{"Student ID", m.profile.ID},
		{"Name", m.profile.Name},
		{"Email", m.profile.Email},
		{"Phone", phone},
	}
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-11s", r.k)), normalStyle.Render(r.v))
	}
	return b.String()
}

func (m *profileScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("tab", "next field", "enter", "save", "esc", "cancel")
	}
	return helpBar("e", "edit", "r", "refresh")
}
