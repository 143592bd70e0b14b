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

type leavesLoadedMsg struct {
	leaves []domain.Leave
	err    error
}

type leaveAppliedMsg struct {
	err error
}

type leaveReviewedMsg struct {
	id     int
	status domain.LeaveStatus
	err    error
}

const (
	leaveFieldStart = iota
	leaveFieldEnd
	leaveFieldReason
)

// leavesScreen is a student's leave history with an apply form, or the
// warden's review queue.
type leavesScreen struct {
	api       *client.Client
	role      domain.Role
	studentID string

	leaves  []domain.Leave
	cursor  int
	form    *form
	loading bool
	err     string
	status  string
}

func newLeavesScreen(api *client.Client, sess domain.Session) *leavesScreen {
	return &leavesScreen{api: api, role: sess.Role, studentID: sess.SubjectID}
}

func (m *leavesScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *leavesScreen) load() tea.Cmd {
	api, role, id := m.api, m.role, m.studentID
	return func() tea.Msg {
		var (
			leaves []domain.Leave
			err    error
		)
		if role == domain.RoleWarden {
			leaves, err = api.ListLeaves(context.Background())
		} else {
			leaves, err = api.ListStudentLeaves(context.Background(), id)
		}
		return leavesLoadedMsg{leaves: leaves, err: err}
	}
}

func (m *leavesScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case leavesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.leaves = msg.leaves
		if m.cursor >= len(m.leaves) {
			m.cursor = 0
		}

	case leaveAppliedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = errMessage(msg.err)
			}
			return nil
		}
		m.form = nil
		m.status = "Leave request sent"
		m.loading = true
		return m.load()

	case leaveReviewedMsg:
		if msg.err != nil {
			return failNotice(fmt.Sprintf("Could not update leave #%d", msg.id), msg.err)
		}
		m.status = fmt.Sprintf("Leave #%d %s", msg.id, strings.ToLower(string(msg.status)))
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

func (m *leavesScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "j", "k", "up", "down":
		m.cursor = moveCursor(m.cursor, len(m.leaves), key)
	case "a":
		if m.role == domain.RoleStudent {
			m.form = newForm("Apply for leave",
				formField{label: "From", placeholder: "YYYY-MM-DD"},
				formField{label: "To", placeholder: "YYYY-MM-DD"},
				formField{label: "Reason", placeholder: "why you will be away"},
			)
		}
	case "y":
		return m.review(domain.LeaveApproved)
	case "x":
		return m.review(domain.LeaveRejected)
	case "r":
		m.loading = true
		return m.load()
	}
	return nil
}

func (m *leavesScreen) review(status domain.LeaveStatus) tea.Cmd {
	if m.role != domain.RoleWarden || m.cursor >= len(m.leaves) {
		return nil
	}
	l := m.leaves[m.cursor]
	if l.Status != domain.LeavePending {
		return notice(fmt.Sprintf("Leave #%d is already %s", l.ID, strings.ToLower(string(l.Status))))
	}
	api := m.api
	return func() tea.Msg {
		err := api.UpdateLeaveStatus(context.Background(), l.ID, status)
		return leaveReviewedMsg{id: l.ID, status: status, err: err}
	}
}

func (m *leavesScreen) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		req := domain.ApplyLeaveRequest{
			StudentID: m.studentID,
			StartDate: m.form.value(leaveFieldStart),
			EndDate:   m.form.value(leaveFieldEnd),
			Reason:    m.form.value(leaveFieldReason),
		}
		if fields := validate.Struct(req); fields != nil {
			m.form.err = validate.First(fields)
			return nil
		}
		// ISO dates compare correctly as strings.
		if req.EndDate < req.StartDate {
			m.form.err = "endDate must not be before startDate"
			return nil
		}
		api := m.api
		return func() tea.Msg {
			_, err := api.ApplyLeave(context.Background(), req)
			return leaveAppliedMsg{err: err}
		}
	}
	return nil
}

func (m *leavesScreen) Typing() bool { return m.form != nil }

func (m *leavesScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	if m.loading && len(m.leaves) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.leaves) == 0 {
		empty := "no leave requests yet, press a to apply"
		if m.role == domain.RoleWarden {
			empty = "no leave requests"
		}
		b.WriteString("\n " + dimStyle.Render(empty) + "\n")
		return b.String()
	}

	for i, l := range m.leaves {
		who := ""
		if m.role == domain.RoleWarden {
			who = normalStyle.Render(fmt.Sprintf("%-6s", l.StudentID)) + "  "
		}
		fmt.Fprintf(&b, " %s %s  %s%s  %s  %s\n",
			cursorMark(i == m.cursor),
			metaStyle.Render(fmt.Sprintf("#%-3d", l.ID)),
			who,
			dimStyle.Render(l.StartDate+" → "+l.EndDate),
			statusStyle(string(l.Status)).Render(fmt.Sprintf("%-8s", label(string(l.Status)))),
			normalStyle.Render(truncStr(oneLine(l.Reason), 40)),
		)
	}
	return b.String()
}

func (m *leavesScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("tab", "next field", "enter", "submit", "esc", "cancel")
	}
	if m.role == domain.RoleWarden {
		return helpBar("j/k", "nav", "y", "approve", "x", "reject", "r", "refresh")
	}
	return helpBar("j/k", "nav", "a", "apply", "r", "refresh")
}
