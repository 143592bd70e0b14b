package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	full := strings.Repeat("a", maxInputLen)
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append", "Room 20", "1", "Room 201"},
		{"append accented", "caf", "é", "café"},
		{"backspace", "leave", "backspace", "leav"},
		{"backspace on empty", "", "backspace", ""},
		{"backspace drops whole rune", "hellé", "backspace", "hell"},
		{"backspace drops emoji", "ok\U0001f600", "backspace", "ok"},
		{"enter ignored", "note", "enter", "note"},
		{"arrow ignored", "note", "left", "note"},
		{"ctrl key ignored", "note", "ctrl+s", "note"},
		{"full field rejects rune", full, "b", full},
		{"full field still deletes", full, "backspace", full[:maxInputLen-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", truncStr(tt.text, 12), tt.key, truncStr(got, 12), truncStr(tt.want, 12))
			}
		})
	}
}

func TestInsertRunesPaste(t *testing.T) {
	nearlyFull := strings.Repeat("a", maxInputLen-3)
	tests := []struct {
		name  string
		start string
		paste string
		want  string
	}{
		{"into empty", "", "Fan broken", "Fan broken"},
		{"appends", "Room ", "201", "Room 201"},
		{"newlines flattened", "", "line one\r\nline two\nthree", "line one line two three"},
		{"clamped at limit", nearlyFull, "abcdef", nearlyFull + "abc"},
		{"rejected when full", nearlyFull + "xyz", "more", nearlyFull + "xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insertRunes(tt.start, []rune(tt.paste)); got != tt.want {
				t.Errorf("insertRunes = %q, want %q", truncStr(got, 20), truncStr(tt.want, 20))
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"Family function.", 40, "Family function."},
		{"hostel", 6, "hostel"},
		{"hostel portal", 5, "host…"},
		{"", 3, ""},
		{"你好世界", 3, "你好…"},
	}
	for _, tt := range tests {
		if got := truncStr(tt.s, tt.max); got != tt.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	five := "1\n2\n3\n4\n5\n"
	tests := []struct {
		name string
		max  int
		want string
	}{
		{"cuts", 3, "1\n2\n3\n"},
		{"exact", 5, five},
		{"fits", 10, five},
		{"zero means no limit", 0, five},
		{"negative means no limit", -1, five},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateToHeight(five, tt.max); got != tt.want {
				t.Errorf("truncateToHeight(_, %d) = %q, want %q", tt.max, got, tt.want)
			}
		})
	}
}

func typeInto(f *form, text string) {
	for _, r := range text {
		if r == ' ' {
			f.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		f.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestFormFocusAndSubmit(t *testing.T) {
	f := newForm("Apply", formField{label: "From"}, formField{label: "To"})

	typeInto(f, "2025-01-02")
	if got := f.handleKey(tea.KeyMsg{Type: tea.KeyEnter}); got != formEditing {
		t.Fatalf("enter on first field = %v, want formEditing", got)
	}
	if f.focus != 1 {
		t.Fatalf("focus = %d after enter, want 1", f.focus)
	}
	typeInto(f, "2025-01-05")
	if got := f.handleKey(tea.KeyMsg{Type: tea.KeyEnter}); got != formSubmitted {
		t.Fatalf("enter on last field = %v, want formSubmitted", got)
	}
	if f.value(0) != "2025-01-02" || f.value(1) != "2025-01-05" {
		t.Errorf("values = %q, %q", f.value(0), f.value(1))
	}

	f.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 0 {
		t.Errorf("shift+tab focus = %d, want 0", f.focus)
	}
	if got := f.handleKey(tea.KeyMsg{Type: tea.KeyEsc}); got != formCancelled {
		t.Errorf("esc = %v, want formCancelled", got)
	}
}

func TestFormTypingClearsError(t *testing.T) {
	f := newForm("", formField{label: "Subject"})
	f.err = "subject is a required field"
	typeInto(f, "Leaky tap")
	if f.err != "" {
		t.Errorf("err = %q after typing, want cleared", f.err)
	}
	if f.value(0) != "Leaky tap" {
		t.Errorf("value = %q", f.value(0))
	}
}

func TestFormMasksSecretFields(t *testing.T) {
	f := newForm("", formField{label: "Email"}, formField{label: "Password", secret: true})
	typeInto(f, "a@b.c")
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(f, "hunter22")

	view := f.View()
	if strings.Contains(view, "hunter22") {
		t.Errorf("password leaked into view:\n%s", view)
	}
	if !strings.Contains(view, "a@b.c") {
		t.Errorf("email missing from view:\n%s", view)
	}
	if f.rawValue(1) != "hunter22" {
		t.Errorf("rawValue = %q", f.rawValue(1))
	}
}
