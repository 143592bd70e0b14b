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

type complaintsLoadedMsg struct {
	complaints []domain.Complaint
	err        error
}

type complaintChangedMsg struct {
	id   int
	what string
	err  error
}

type complaintAddedMsg struct {
	err error
}

type complaintsScreen struct {
	api       *client.Client
	role      domain.Role
	studentID string

	complaints []domain.Complaint
	cursor     int
	form       *form
	loading    bool
	err        string
	status     string
}

func newComplaintsScreen(api *client.Client, sess domain.Session) *complaintsScreen {
	return &complaintsScreen{api: api, role: sess.Role, studentID: sess.SubjectID}
}

func (m *complaintsScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *complaintsScreen) load() tea.Cmd {
	api, role, id := m.api, m.role, m.studentID
	return func() tea.Msg {
		var (
			list []domain.Complaint
			err  error
		)
		if role == domain.RoleWarden {
			list, err = api.ListComplaints(context.Background())
		} else {
			list, err = api.ListStudentComplaints(context.Background(), id)
		}
		return complaintsLoadedMsg{complaints: list, err: err}
	}
}

func (m *complaintsScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case complaintsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.complaints = msg.complaints
		if m.cursor >= len(m.complaints) {
			m.cursor = 0
		}

	case complaintAddedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = errMessage(msg.err)
			}
			return nil
		}
		m.form = nil
		m.status = "Complaint filed"
		m.loading = true
		return m.load()

	case complaintChangedMsg:
		if msg.err != nil {
			return failNotice(fmt.Sprintf("Could not update complaint #%d", msg.id), msg.err)
		}
		m.status = fmt.Sprintf("Complaint #%d %s", msg.id, msg.what)
		m.loading = true
		return m.load()

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *complaintsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "j", "k", "up", "down":
		m.cursor = moveCursor(m.cursor, len(m.complaints), key)
	case "a":
		if m.role == domain.RoleStudent {
			m.form = newForm("File a complaint",
				formField{label: "Subject", placeholder: "e.g. Fan not working"},
				formField{label: "Details", placeholder: "optional"},
			)
		}
	case "d":
		if m.role != domain.RoleStudent || m.cursor >= len(m.complaints) {
			return nil
		}
		c := m.complaints[m.cursor]
		api := m.api
		return func() tea.Msg {
			return complaintChangedMsg{id: c.ID, what: "withdrawn", err: api.DeleteComplaint(context.Background(), c.ID)}
		}
	case "s":
		if m.role != domain.RoleWarden || m.cursor >= len(m.complaints) {
			return nil
		}
		c := m.complaints[m.cursor]
		if c.Status == domain.ComplaintResolved {
			return notice(fmt.Sprintf("Complaint #%d is already resolved", c.ID))
		}
		next := c.Status.Next()
		api := m.api
		return func() tea.Msg {
			err := api.UpdateComplaintStatus(context.Background(), c.ID, next)
			return complaintChangedMsg{id: c.ID, what: "marked " + strings.ToLower(string(next)), err: err}
		}
	case "r":
		m.loading = true
		return m.load()
	}
	return nil
}

func (m *complaintsScreen) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		req := domain.AddComplaintRequest{
			StudentID:   m.studentID,
			Subject:     m.form.value(0),
			Description: m.form.value(1),
		}
		if fields := validate.Struct(req); fields != nil {
			m.form.err = validate.First(fields)
			return nil
		}
		api := m.api
		return func() tea.Msg {
			_, err := api.AddComplaint(context.Background(), req)
			return complaintAddedMsg{err: err}
		}
	}
	return nil
}

func (m *complaintsScreen) Typing() bool { return m.form != nil }

func (m *complaintsScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	if m.loading && len(m.complaints) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.complaints) == 0 {
		b.WriteString("\n " + dimStyle.Render("no complaints") + "\n")
		return b.String()
	}

	for i, c := range m.complaints {
		who := ""
		if m.role == domain.RoleWarden {
			who = normalStyle.Render(fmt.Sprintf("%-6s", c.StudentID)) + "  "
		}
		fmt.Fprintf(&b, " %s %s  %s%s  %s  %s\n",
			cursorMark(i == m.cursor),
			metaStyle.Render(fmt.Sprintf("#%-3d", c.ID)),
			who,
			statusStyle(string(c.Status)).Render(fmt.Sprintf("%-10s", label(string(c.Status)))),
			selectedStyle.Render(truncStr(c.Subject, 36)),
			metaStyle.Render(formatTime(c.CreatedAt)),
		)
		if i == m.cursor && c.Description != "" {
			b.WriteString("        " + dimStyle.Render(truncStr(oneLine(c.Description), 70)) + "\n")
		}
	}
	return b.String()
}

func (m *complaintsScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("tab", "next field", "enter", "submit", "esc", "cancel")
	}
	if m.role == domain.RoleWarden {
		return helpBar("j/k", "nav", "s", "advance status", "r", "refresh")
	}
	return helpBar("j/k", "nav", "a", "add", "d", "withdraw", "r", "refresh")
}
