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

type noticesLoadedMsg struct {
	notices []domain.Notice
	err     error
}

type noticeSavedMsg struct {
	id  int // zero for a new notice
	err error
}

type noticeDeletedMsg struct {
	id  int
	err error
}

type noticesScreen struct {
	api     *client.Client
	notices []domain.Notice
	cursor  int
	form    *form
	editing int // notice id the form edits, zero when creating
	loading bool
	err     string
	status  string
}

func newNoticesScreen(api *client.Client) *noticesScreen {
	return &noticesScreen{api: api}
}

func (m *noticesScreen) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *noticesScreen) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		notices, err := api.ListNotices(context.Background())
		return noticesLoadedMsg{notices: notices, err: err}
	}
}

func (m *noticesScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noticesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errMessage(msg.err)
			return nil
		}
		m.err = ""
		m.notices = msg.notices
		if m.cursor >= len(m.notices) {
			m.cursor = 0
		}

	case noticeSavedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = errMessage(msg.err)
			}
			return nil
		}
		m.form = nil
		m.status = "Notice published"
		if msg.id != 0 {
			m.status = fmt.Sprintf("Notice #%d updated", msg.id)
		}
		m.loading = true
		return m.load()

	case noticeDeletedMsg:
		if msg.err != nil {
			return failNotice(fmt.Sprintf("Could not delete notice #%d", msg.id), msg.err)
		}
		m.status = fmt.Sprintf("Notice #%d deleted", msg.id)
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

func (m *noticesScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "j", "k", "up", "down":
		m.cursor = moveCursor(m.cursor, len(m.notices), key)
	case "n":
		m.editing = 0
		m.form = noticeForm("New notice", domain.Notice{})
	case "e":
		if n, ok := m.selected(); ok {
			m.editing = n.ID
			m.form = noticeForm(fmt.Sprintf("Edit notice #%d", n.ID), n)
		}
	case "c":
		if n, ok := m.selected(); ok {
			return copyCmd(n.Title+"\n\n"+n.Description, "Notice copied to clipboard")
		}
	case "d":
		if n, ok := m.selected(); ok {
			api := m.api
			return func() tea.Msg {
				return noticeDeletedMsg{id: n.ID, err: api.DeleteNotice(context.Background(), n.ID)}
			}
		}
	case "r":
		m.loading = true
		return m.load()
	}
	return nil
}

func noticeForm(title string, n domain.Notice) *form {
	f := newForm(title,
		formField{label: "Title", placeholder: "short headline"},
		formField{label: "Body", placeholder: "what residents need to know"},
	)
	f.fields[0].value = n.Title
	f.fields[1].value = n.Description
	return f
}

func (m *noticesScreen) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		req := domain.NoticeRequest{Title: m.form.value(0), Description: m.form.value(1)}
		if fields := validate.Struct(req); fields != nil {
			m.form.err = validate.First(fields)
			return nil
		}
		api, id := m.api, m.editing
		return func() tea.Msg {
			var err error
			if id == 0 {
				_, err = api.CreateNotice(context.Background(), req)
			} else {
				err = api.UpdateNotice(context.Background(), id, req)
			}
			return noticeSavedMsg{id: id, err: err}
		}
	}
	return nil
}

func (m *noticesScreen) selected() (domain.Notice, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notices) {
		return domain.Notice{}, false
	}
	return m.notices[m.cursor], true
}

func (m *noticesScreen) Typing() bool { return m.form != nil }

func (m *noticesScreen) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	if m.loading && len(m.notices) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.notices) == 0 {
		b.WriteString("\n " + dimStyle.Render("no notices, press n to post one") + "\n")
		return b.String()
	}

	for i, n := range m.notices {
		fmt.Fprintf(&b, " %s %s  %s  %s\n",
			cursorMark(i == m.cursor),
			metaStyle.Render(fmt.Sprintf("#%-3d", n.ID)),
			selectedStyle.Render(truncStr(n.Title, 48)),
			metaStyle.Render(formatTime(n.CreatedAt)),
		)
		if i == m.cursor {
			b.WriteString("        " + dimStyle.Render(truncStr(oneLine(n.Description), 72)) + "\n")
		}
	}
	return b.String()
}

func (m *noticesScreen) HelpKeys() string {
	if m.form != nil {
		return helpBar("tab", "next field", "enter", "save", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "n", "new", "e", "edit", "c", "copy", "d", "delete", "r", "refresh")
}
