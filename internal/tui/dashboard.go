package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// -- messages --

type dashboardData struct {
	rooms      []domain.Room
	leaves     []domain.Leave
	complaints []domain.Complaint
	notices    []domain.Notice
}

type dashboardLoadedMsg struct {
	data dashboardData
	err  error
}

// -- model --

// dashboardScreen is the landing view. Students see vacancies, their
// complaints and notices; wardens see the review queues and notices.
type dashboardScreen struct {
	api       *client.Client
	role      domain.Role
	studentID string

	data    dashboardData
	loaded  bool
	loading bool
	err     string
}

func newDashboardScreen(api *client.Client, sess domain.Session) *dashboardScreen {
	return &dashboardScreen{api: api, role: sess.Role, studentID: sess.SubjectID}
}

func (m *dashboardScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

// load fetches the three dashboard sources concurrently; any failure fails the
// whole panel so it never shows a half-loaded mix.
func (m *dashboardScreen) load() tea.Cmd {
	api, role, id := m.api, m.role, m.studentID
	return func() tea.Msg {
		var data dashboardData
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() (err error) {
			data.notices, err = api.ListNotices(ctx)
			return err
		})
		g.Go(func() (err error) {
			if role == domain.RoleWarden {
				data.complaints, err = api.ListComplaints(ctx)
			} else {
				data.complaints, err = api.ListStudentComplaints(ctx, id)
			}
			return err
		})
		g.Go(func() (err error) {
			if role == domain.RoleWarden {
				data.leaves, err = api.ListLeaves(ctx)
			} else {
				data.rooms, err = api.ListRooms(ctx, false)
			}
			return err
		})
		err := g.Wait()
		return dashboardLoadedMsg{data: data, err: err}
	}
}

func (m *dashboardScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.data = msg.data
		m.loaded = true

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m.load()
		}
	}
	return nil
}

func (m *dashboardScreen) Typing() bool { return false }

func (m *dashboardScreen) View() string {
	var b strings.Builder
	if m.loading && !m.loaded {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}

	if m.role == domain.RoleWarden {
		pending := 0
		for _, l := range m.data.leaves {
			if l.Status == domain.LeavePending {
				pending++
			}
		}
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("Leave requests awaiting review:"), warnStyle.Render(fmt.Sprint(pending)))
	} else {
		beds := 0
		for _, r := range m.data.rooms {
			beds += r.Vacancies()
		}
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("Rooms with space:"), accentStyle.Render(fmt.Sprintf("%d (%d beds)", len(m.data.rooms), beds)))
	}

	open := 0
	for _, c := range m.data.complaints {
		if c.Status != domain.ComplaintResolved {
			open++
		}
	}
	title := "Your open complaints:"
	if m.role == domain.RoleWarden {
		title = "Open complaints:"
	}
	fmt.Fprintf(&b, " %s %s\n\n", sectionHeaderStyle.Render(title), warnStyle.Render(fmt.Sprint(open)))

	b.WriteString(" " + sectionHeaderStyle.Render("Notices") + "\n")
	if len(m.data.notices) == 0 {
		b.WriteString("   " + dimStyle.Render("no notices posted") + "\n")
	}
	for i, n := range m.data.notices {
		if i == 5 {
			b.WriteString("   " + metaStyle.Render(fmt.Sprintf("+%d more", len(m.data.notices)-i)) + "\n")
			break
		}
		fmt.Fprintf(&b, "   %s  %s\n", selectedStyle.Render(truncStr(n.Title, 40)), metaStyle.Render(formatTime(n.CreatedAt)))
		if n.Description != "" {
			b.WriteString("     " + dimStyle.Render(truncStr(oneLine(n.Description), 70)) + "\n")
		}
	}
	return b.String()
}

func (m *dashboardScreen) HelpKeys() string {
	return helpBar("r", "refresh")
}
