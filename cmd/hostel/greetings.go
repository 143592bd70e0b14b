package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostelhub/hostel/internal/browser"
)

var signedOutGreetings = [...]string{
	"The front desk is open. You are not signed in.",
	"Curfew is at ten. Signing in takes less time than that.",
	"Your room key is at reception. So is the login prompt.",
	"The warden has posted new notices. You cannot see them from out here.",
	"Leave requests do not file themselves.",
	"Someone just took the last bed in 201. Probably.",
	"The mess menu changed again. Sign in to complain about it.",
	"Reception keeps a list of who is in. You are not on it yet.",
}

var (
	brandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd4bf")).Bold(true)
	quietStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printHelp(w io.Writer, portalURL string) {
	title := brandStyle.Render("H O S T E L")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	commands := []struct{ cmd, desc string }{
		{"hostel", "Open the portal (interactive TUI)"},
		{"hostel --demo", "Open the portal against a bundled backend"},
		{"hostel login", "Sign in and remember the session"},
		{"hostel logout", "End your session"},
		{"hostel whoami", "Ask the server who you are"},
		{"hostel mock", "Run the bundled backend"},
		{"hostel --version", "Show version"},
		{"hostel help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", title)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), quietStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  %s\n", quietStyle.Render("Forgot your password? "+browser.PageURL(portalURL, browser.ForgotPasswordPage)))
	fmt.Fprintf(w, "  %s\n\n", quietStyle.Render("Settings come from HOSTEL_* variables or a .env file."))
}

func printSignedOut(w io.Writer) {
	msg := signedOutGreetings[rand.Intn(len(signedOutGreetings))]
	hint := quietStyle.Render("To sign in: hostel login")
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", brandStyle.Render("HOSTEL"), quietStyle.Italic(true).Render(msg), hint)
}
