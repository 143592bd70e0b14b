package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/internal/validate"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

type roomsLoadedMsg struct {
	rooms []domain.Room
	err   error
}

type roomDeletedMsg struct {
	roomNo string
	err    error
}

type roomCreatedMsg struct {
	room *domain.Room
	err  error
}

type roomDetailMsg struct {
	room *domain.Room
	err  error
}

const (
	roomFieldNo = iota
	roomFieldCategory
	roomFieldSize
	roomFieldFees
)

type roomsScreen struct {
	api     *client.Client
	role    domain.Role
	rooms   []domain.Room
	cursor  int
	showAll bool
	loading bool
	err     string
	status  string

	form   *form
	detail *domain.Room
}

func newRoomsScreen(api *client.Client, role domain.Role) *roomsScreen {
	// Wardens manage every room; students browse the ones with space.
	return &roomsScreen{api: api, role: role, showAll: role == domain.RoleWarden}
}

func (m *roomsScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *roomsScreen) load() tea.Cmd {
	api, showAll := m.api, m.showAll
	return func() tea.Msg {
		rooms, err := api.ListRooms(context.Background(), showAll)
		return roomsLoadedMsg{rooms: rooms, err: err}
	}
}

func (m *roomsScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case roomsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.rooms = msg.rooms
		if m.cursor >= len(m.rooms) {
			m.cursor = 0
		}

	case roomDeletedMsg:
		if msg.err != nil {
			return failNotice("Could not delete room "+msg.roomNo, msg.err)
		}
		m.status = "Room " + msg.roomNo + " deleted"
		m.loading = true
		return m.load()

	case roomCreatedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = errMessage(msg.err)
			}
			return nil
		}
		m.form = nil
		m.status = "Room " + msg.room.RoomNo + " added"
		m.loading = true
		return m.load()

	case roomDetailMsg:
		if msg.err != nil {
			return failNotice("Could not load room", msg.err)
		}
		m.detail = msg.room

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKey(msg)
		}
		if m.detail != nil {
			if k := msg.String(); k == "esc" || k == "enter" {
				m.detail = nil
				return nil
			}
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *roomsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "j", "k", "up", "down":
		m.cursor = moveCursor(m.cursor, len(m.rooms), key)
	case "a":
		m.showAll = !m.showAll
		m.cursor = 0
		m.loading = true
		return m.load()
	case "c":
		if r, ok := m.selected(); ok {
			return copyCmd(r.RoomNo, "Room number copied")
		}
	case "d":
		if m.role != domain.RoleWarden {
			return nil
		}
		if r, ok := m.selected(); ok {
			api, roomNo := m.api, r.RoomNo
			return func() tea.Msg {
				return roomDeletedMsg{roomNo: roomNo, err: api.DeleteRoom(context.Background(), roomNo)}
			}
		}
	case "n":
		if m.role == domain.RoleWarden {
			m.detail = nil
			m.form = newForm("Add room",
				formField{label: "Room no", placeholder: "e.g. 204"},
				formField{label: "Category", placeholder: "e.g. Double AC"},
				formField{label: "Size", placeholder: "beds"},
				formField{label: "Fees", placeholder: "per term, in rupees"},
			)
		}
	case "enter":
		if r, ok := m.selected(); ok {
			api, roomNo := m.api, r.RoomNo
			return func() tea.Msg {
				room, err := api.GetRoom(context.Background(), roomNo)
				return roomDetailMsg{room: room, err: err}
			}
		}
	case "r":
		m.loading = true
		return m.load()
	}
	return nil
}

func (m *roomsScreen) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		size, err := strconv.Atoi(m.form.value(roomFieldSize))
		if err != nil {
			m.form.err = "size must be a whole number"
			return nil
		}
		fees := 0
		if v := m.form.value(roomFieldFees); v != "" {
			if fees, err = strconv.Atoi(v); err != nil {
				m.form.err = "fees must be a whole number"
				return nil
			}
		}
		req := domain.CreateRoomRequest{
			RoomNo:   m.form.value(roomFieldNo),
			Category: m.form.value(roomFieldCategory),
			Size:     size,
			Fees:     fees,
		}
		if fields := validate.Struct(req); fields != nil {
			m.form.err = validate.First(fields)
			return nil
		}
		api := m.api
		return func() tea.Msg {
			room, err := api.CreateRoom(context.Background(), req)
			return roomCreatedMsg{room: room, err: err}
		}
	}
	return nil
}

func (m *roomsScreen) selected() (domain.Room, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rooms) {
		return domain.Room{}, false
	}
	return m.rooms[m.cursor], true
}

func (m *roomsScreen) Typing() bool { return m.form != nil }

func (m *roomsScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}
	if m.detail != nil {
		return roomDetailView(*m.detail)
	}

	var b strings.Builder
	scope := "rooms with space"
	if m.showAll {
		scope = "all rooms"
	}
	b.WriteString(" " + dimStyle.Render(scope))
	if m.status != "" {
		b.WriteString("  " + okStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.loading && len(m.rooms) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.rooms) == 0 {
		b.WriteString("\n " + dimStyle.Render("no rooms to show") + "\n")
		return b.String()
	}

	for i, r := range m.rooms {
		vacancy := okStyle.Render(fmt.Sprintf("%d free", r.Vacancies()))
		if r.Vacancies() == 0 {
			vacancy = errorStyle.Render("full")
		}
		fmt.Fprintf(&b, " %s %s  %s  %s  %s  %s\n",
			cursorMark(i == m.cursor),
			selectedStyle.Render(fmt.Sprintf("%-6s", r.RoomNo)),
			normalStyle.Render(fmt.Sprintf("%-14s", truncStr(r.Category, 14))),
			metaStyle.Render(fmt.Sprintf("%d/%d", r.CurrOccu, r.Size)),
			vacancy,
			dimStyle.Render(fmt.Sprintf("₹%d", r.Fees)),
		)
	}
	return b.String()
}

func roomDetailView(r domain.Room) string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Room "+r.RoomNo) + "\n\n")
	rows := []struct{ k, v string }{
		{"Category", r.Category},
		{"Occupancy", fmt.Sprintf("%d of %d", r.CurrOccu, r.Size)},
		{"Free beds", strconv.Itoa(r.Vacancies())},
		{"Fees", fmt.Sprintf("₹%d", r.Fees)},
		{"Photos", strconv.Itoa(len(r.Photos))},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-10s", row.k)), normalStyle.Render(row.v))
	}
	return b.String()
}

func (m *roomsScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("tab", "next field", "enter", "add", "esc", "cancel")
	}
	if m.detail != nil {
		return helpBar("esc", "back")
	}
	pairs := []string{"j/k", "nav", "enter", "details", "a", "all/free", "c", "copy no."}
	if m.role == domain.RoleWarden {
		pairs = append(pairs, "n", "add", "d", "delete")
	}
	return helpBar(append(pairs, "r", "refresh")...)
}
