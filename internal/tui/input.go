package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in a form field.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if utf8.RuneCountInString(key) == 1 {
		return insertRunes(text, []rune(key))
	}
	return text
}

// insertRunes appends typed or pasted runes, clamped to maxInputLen. Newlines
// are flattened since every field is a single line.
func insertRunes(text string, runes []rune) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if len(runes) > room {
		runes = runes[:room]
	}
	return text + strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(string(runes))
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

type formField struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

// formResult is what a keystroke did to a form.
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

// form is the small multi-field editor shared by login and the create views.
type form struct {
	title  string
	fields []formField
	focus  int
	err    string
}

func newForm(title string, fields ...formField) *form {
	return &form{title: title, fields: fields}
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].value)
}

// rawValue is the untrimmed field content, for passwords.
func (f *form) rawValue(i int) string {
	return f.fields[i].value
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
	f.err = ""
}

// handleKey edits the focused field. Tab and arrows move between fields, enter
// on the last field submits, esc cancels.
func (f *form) handleKey(msg tea.KeyMsg) formResult {
	switch msg.String() {
	case "esc":
		return formCancelled
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if f.focus < len(f.fields)-1 {
			f.focus++
			return formEditing
		}
		return formSubmitted
	default:
		fld := &f.fields[f.focus]
		switch msg.Type {
		case tea.KeySpace:
			fld.value = insertRunes(fld.value, []rune{' '})
		case tea.KeyRunes:
			fld.value = insertRunes(fld.value, msg.Runes)
		default:
			fld.value = editRune(fld.value, msg.String())
		}
	}
	f.err = ""
	return formEditing
}

func (f *form) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(" " + sectionHeaderStyle.Render(f.title) + "\n\n")
	}
	for i, fld := range f.fields {
		shown := fld.value
		if fld.secret {
			shown = strings.Repeat("•", utf8.RuneCountInString(fld.value))
		}
		prompt := dimStyle.Render(fld.label + ":")
		if i == f.focus {
			prompt = inputPromptStyle.Render(fld.label + ":")
		}
		switch {
		case shown == "" && i != f.focus:
			shown = inputPlaceholderStyle.Render(fld.placeholder)
		case i == f.focus:
			shown = normalStyle.Render(shown) + accentStyle.Render("█")
		default:
			shown = normalStyle.Render(shown)
		}
		b.WriteString("  " + prompt + " " + shown + "\n")
	}
	if f.err != "" {
		b.WriteString("\n  " + errorStyle.Render(f.err) + "\n")
	}
	return b.String()
}
