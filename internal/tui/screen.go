package tui

import (
	"errors"
	"net/http"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/pkg/client"
)

// screen is a protected view. Screens are built per session and dropped on
// logout, so nothing one session loaded survives into the next.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	HelpKeys() string
	// Typing reports whether the screen owns the keyboard (an open form).
	Typing() bool
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// failNotice reports a failed action. A 401 already produced the session
// expired notice, so it is not overwritten.
func failNotice(what string, err error) tea.Cmd {
	if err == nil || client.IsStatus(err, http.StatusUnauthorized) {
		return nil
	}
	return notice(what + ": " + errMessage(err))
}

// errMessage prefers the server's message over the wrapped error chain.
func errMessage(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

func copyCmd(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return noticeMsg{text: "Clipboard unavailable: " + err.Error()}
		}
		return noticeMsg{text: done}
	}
}
