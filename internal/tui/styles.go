package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostelhub/hostel/internal/browser"
	"github.com/hostelhub/hostel/pkg/domain"
)

// Shimmer animation for the login banner.
type shimmerTickMsg time.Time

const shimmerInterval = 80 * time.Millisecond

// renderShimmerLogo renders "HOSTEL" as a slow wave of teal light.
func renderShimmerLogo(frame int) string {
	const text = "HOSTEL"
	n := len(text)

	var out strings.Builder
	t := float64(frame)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)*0.75 + 0.2
		if b > 1.0 {
			b = 1.0
		}

		// Deep (15, 60, 70) #0f3c46 -> bright (45, 212, 191) #2dd4bf
		r := clampByte(15 + b*(45-15))
		g := clampByte(60 + b*(212-60))
		bl := clampByte(70 + b*(191-70))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Notice bar: session expiry and other one-line messages.
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111118")).
			Background(lipgloss.Color("#d4a844")).
			Bold(true).
			Padding(0, 1)

	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleStudent: lipgloss.Color("#60a0e0"),
		domain.RoleWarden:  lipgloss.Color("#c084e0"),
	}
)

// roleBadge renders a short colored badge, e.g. "[Warden]".
func roleBadge(r domain.Role) string {
	c, ok := roleColors[r]
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + label(r.String()) + "]")
}

// statusStyle colors a leave or complaint status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case string(domain.LeaveApproved), string(domain.ComplaintResolved):
		return okStyle
	case string(domain.LeaveRejected):
		return errorStyle
	case string(domain.ComplaintProcessing):
		return accentStyle
	default:
		return warnStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one line.
func helpBar(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	page  string
}

var helpItems = []helpItem{
	{"Forgot password", browser.ForgotPasswordPage},
	{"Portal home", "/"},
}

// helpView renders the help overlay with a cursor over the portal links.
func helpView(cursor int, portalURL string) string {
	title := accentStyle.Bold(true).Render("H O S T E L")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	linkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"hostel", "Open the portal (interactive TUI)"},
		{"hostel --demo", "Open the portal against a bundled backend"},
		{"hostel login", "Sign in from the shell"},
		{"hostel logout", "End your session"},
		{"hostel whoami", "Ask the server who you are"},
		{"hostel mock", "Run the bundled backend"},
	}
	keys := []struct{ key, desc string }{
		{"1-6", "switch tab"},
		{"r", "refresh"},
		{"L", "log out"},
		{"?", "forgot password"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-16s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-16s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		name := cmdStyle.Render(fmt.Sprintf("%-16s", item.label))
		prefix := "    "
		if i == cursor {
			name = accentStyle.Bold(true).Render(fmt.Sprintf("%-16s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, name, linkStyle.Render(browser.PageURL(portalURL, item.page)))
	}
	return b.String()
}
