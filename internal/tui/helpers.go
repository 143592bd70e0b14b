package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// label title-cases a role or status word for display ("warden" -> "Warden").
func label(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// formatTime renders a relative timestamp for list rows.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatDate renders a calendar date, empty for the zero time.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so free text fits a row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// moveCursor clamps cursor movement for j/k style lists.
func moveCursor(cursor, n int, key string) int {
	switch key {
	case "j", "down":
		if cursor < n-1 {
			return cursor + 1
		}
	case "k", "up":
		if cursor > 0 {
			return cursor - 1
		}
	}
	return cursor
}

// cursorMark is the row prefix for the selected line.
func cursorMark(active bool) string {
	if active {
		return accentStyle.Render("▸")
	}
	return " "
}
