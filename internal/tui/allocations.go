package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

type allocationsLoadedMsg struct {
	allocations []domain.Allocation
	history     bool
	err         error
}

// allocationsScreen lists who lives where, optionally with past occupants.
type allocationsScreen struct {
	api         *client.Client
	allocations []domain.Allocation
	cursor      int
	filter      domain.AllocationFilter
	history     bool
	form        *form
	loading     bool
	err         string
}

func newAllocationsScreen(api *client.Client) *allocationsScreen {
	return &allocationsScreen{api: api}
}

func (m *allocationsScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *allocationsScreen) load() tea.Cmd {
	api, filter, history := m.api, m.filter, m.history
	return func() tea.Msg {
		var (
			list []domain.Allocation
			err  error
		)
		switch {
		case history:
			list, err = api.AllocationHistory(context.Background(), filter)
		case filter == (domain.AllocationFilter{}):
			list, err = api.AllAllocations(context.Background())
		default:
			list, err = api.CurrentAllocations(context.Background(), filter)
		}
		return allocationsLoadedMsg{allocations: list, history: history, err: err}
	}
}

// parseAllocationFilter reads one free-text query: a year like 2024, a room
// number, or otherwise part of a student's name.
func parseAllocationFilter(q string) domain.AllocationFilter {
	q = strings.TrimSpace(q)
	if q == "" {
		return domain.AllocationFilter{}
	}
	if n, err := strconv.Atoi(q); err == nil {
		if len(q) == 4 && n >= 1900 && n < 2200 {
			return domain.AllocationFilter{Year: n}
		}
		return domain.AllocationFilter{RoomNo: q}
	}
	return domain.AllocationFilter{StudentName: q}
}

func describeFilter(f domain.AllocationFilter) string {
	switch {
	case f.Year > 0:
		return "year " + strconv.Itoa(f.Year)
	case f.RoomNo != "":
		return "room " + f.RoomNo
	case f.StudentName != "":
		return "name ~ " + f.StudentName
	}
	return ""
}

func (m *allocationsScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case allocationsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		if msg.history != m.history {
			return nil // superseded by a toggle
		}
		m.err = ""
		m.allocations = msg.allocations
		if m.cursor >= len(m.allocations) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		if m.form != nil {
			switch m.form.handleKey(msg) {
			case formCancelled:
				m.form = nil
			case formSubmitted:
				m.filter = parseAllocationFilter(m.form.value(0))
				m.form = nil
				m.cursor = 0
				m.loading = true
				return m.load()
			}
			return nil
		}
		switch key := msg.String(); key {
		case "j", "k", "up", "down":
			m.cursor = moveCursor(m.cursor, len(m.allocations), key)
		case "/":
			m.form = newForm("Filter allocations", formField{label: "Room, name or year", placeholder: "e.g. 201"})
		case "x":
			m.filter = domain.AllocationFilter{}
			m.loading = true
			return m.load()
		case "h":
			m.history = !m.history
			m.cursor = 0
			m.loading = true
			return m.load()
		case "r":
			m.loading = true
			return m.load()
		}
	}
	return nil
}

func (m *allocationsScreen) Typing() bool { return m.form != nil }

func (m *allocationsScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	scope := "current"
	if m.history {
		scope = "history"
	}
	if f := describeFilter(m.filter); f != "" {
		scope += " · " + f
	}
	b.WriteString(" " + dimStyle.Render(scope) + "\n")

	if m.loading && len(m.allocations) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.allocations) == 0 {
		b.WriteString("\n " + dimStyle.Render("no allocations match") + "\n")
		return b.String()
	}

	for i, a := range m.allocations {
		span := formatDate(&a.AllocatedAt) + " → "
		if a.Current() {
			span += okStyle.Render("present")
		} else {
			span += formatDate(a.VacatedAt)
		}
		fmt.Fprintf(&b, " %s %s  %s  %s  %s\n",
			cursorMark(i == m.cursor),
			selectedStyle.Render(fmt.Sprintf("%-6s", a.RoomNo)),
			normalStyle.Render(fmt.Sprintf("%-20s", truncStr(a.StudentName, 20))),
			metaStyle.Render(fmt.Sprintf("%-6s", a.StudentID)),
			dimStyle.Render(span),
		)
	}
	return b.String()
}

func (m *allocationsScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("enter", "apply", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "/", "filter", "x", "clear", "h", "history", "r", "refresh")
}
