// Package tui is the terminal hostel portal. Every view change goes through
// the session guard, and the 401 interceptor drives the UI from outside the
// event loop through a Bridge.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/internal/browser"
	"github.com/hostelhub/hostel/internal/guard"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// noticeTTL is how long a notice stays in the bar.
const noticeTTL = 6 * time.Second

// Sessions is what the app needs from the session store.
type Sessions interface {
	guard.Sessions
	guard.SessionWriter
	Invalidating() bool
}

// Options configures an App.
type Options struct {
	PortalURL string
	Logger    zerolog.Logger
}

// -- messages --

// scopedMsg tags a screen's result with the session generation that asked for
// it; results that outlive their session are dropped.
type scopedMsg struct {
	gen int
	msg tea.Msg
}

type revalidatedMsg struct {
	gen      int
	dest     guard.Destination
	decision guard.Decision
	err      error
}

type loggedOutMsg struct {
	err error
}

type noticeExpiredMsg struct {
	seq int
}

// sessionExpiryMsg fires when the mounted session's credential runs out.
type sessionExpiryMsg struct {
	gen int
}

// App is the root bubbletea model.
type App struct {
	api       *client.Client
	sessions  Sessions
	guard     *guard.Guard
	bridge    *Bridge
	log       zerolog.Logger
	portalURL string

	dest    guard.Destination
	sess    domain.Session
	gen     int
	screens map[guard.Destination]screen
	login   loginModel

	notice     string
	noticeSeq  int
	shimmering bool
	showHelp   bool
	helpCursor int
	width      int
	height     int

	openURL func(string) error
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// NewApp creates the portal. bridge must be the Navigator and Notifier the
// interceptor was built with.
func NewApp(api *client.Client, sessions Sessions, g *guard.Guard, bridge *Bridge, opts Options) *App {
	return &App{
		api:       api,
		sessions:  sessions,
		guard:     g,
		bridge:    bridge,
		log:       opts.Logger.With().Str("component", "tui").Logger(),
		portalURL: opts.PortalURL,
		login:     newLoginModel(),
		openURL:   browser.Open,
		tick:      tea.Tick,
	}
}

// Init lands on the dashboard of a restored session, or on login.
func (a *App) Init() tea.Cmd {
	start := guard.Login
	if sess, ok := a.sessions.Current(); ok {
		start = guard.DashboardFor(sess.Role)
	}
	return a.navigate(start)
}

// navigate shows dest if the guard allows it, otherwise wherever the guard
// redirects. Showing a protected view mounts it and revalidates the session.
func (a *App) navigate(dest guard.Destination) tea.Cmd {
	d := a.guard.AuthorizeRoute(dest)
	if !d.Allowed() {
		a.log.Debug().Str("requested", string(dest)).Str("decision", d.Kind.String()).Msg("redirect")
		dest = d.Target
	}
	if dest == guard.Login {
		return a.showLogin()
	}
	if dest == a.dest {
		return nil
	}

	sess, _ := a.sessions.Current()
	var expiry tea.Cmd
	if a.screens == nil || sess.SubjectID != a.sess.SubjectID || sess.Role != a.sess.Role {
		expiry = a.mountScreens(sess)
	}
	scr, ok := a.screens[dest]
	if !ok {
		return a.navigate(guard.DashboardFor(sess.Role))
	}

	a.dest = dest
	a.bridge.setCurrent(dest)
	a.showHelp = false
	a.log.Debug().Str("dest", string(dest)).Msg("navigate")
	return tea.Batch(a.scope(scr.Init()), a.revalidate(dest), expiry)
}

// showLogin drops every screen of the previous session and settles the store.
func (a *App) showLogin() tea.Cmd {
	if a.dest == guard.Login {
		a.sessions.Settle()
		return nil
	}
	a.gen++
	a.screens = nil
	a.sess = domain.Session{}
	a.sessions.Settle()
	a.login = a.login.reset()
	a.showHelp = false

	a.dest = guard.Login
	a.bridge.setCurrent(guard.Login)
	if a.shimmering {
		return nil
	}
	a.shimmering = true
	return a.shimmer()
}

func (a *App) shimmer() tea.Cmd {
	return a.tick(shimmerInterval, func(t time.Time) tea.Msg { return shimmerTickMsg(t) })
}

// mountScreens builds the views of sess and returns the timer that ends it.
func (a *App) mountScreens(sess domain.Session) tea.Cmd {
	a.gen++
	a.sess = sess
	a.screens = map[guard.Destination]screen{}
	switch sess.Role {
	case domain.RoleStudent:
		a.screens[guard.StudentDashboard] = newDashboardScreen(a.api, sess)
		a.screens[guard.StudentRooms] = newRoomsScreen(a.api, sess.Role)
		a.screens[guard.StudentLeave] = newLeavesScreen(a.api, sess)
		a.screens[guard.StudentComplaints] = newComplaintsScreen(a.api, sess)
		a.screens[guard.StudentProfile] = newProfileScreen(a.api, sess)
	case domain.RoleWarden:
		a.screens[guard.WardenDashboard] = newDashboardScreen(a.api, sess)
		a.screens[guard.WardenRooms] = newRoomsScreen(a.api, sess.Role)
		a.screens[guard.WardenLeaves] = newLeavesScreen(a.api, sess)
		a.screens[guard.WardenComplaints] = newComplaintsScreen(a.api, sess)
		a.screens[guard.WardenNotices] = newNoticesScreen(a.api)
		a.screens[guard.WardenAllocations] = newAllocationsScreen(a.api)
	}
	return a.expiryTimer(sess)
}

func (a *App) expiryTimer(sess domain.Session) tea.Cmd {
	if sess.ExpiresAt.IsZero() {
		return nil
	}
	gen := a.gen
	return a.tick(time.Until(sess.ExpiresAt), func(time.Time) tea.Msg { return sessionExpiryMsg{gen: gen} })
}

// expire clears a session that lapsed under an open view and shows login.
func (a *App) expire() tea.Cmd {
	if a.dest == guard.Login || a.guard.AuthorizeRoute(a.dest).Allowed() {
		return nil
	}
	if a.sessions.Invalidate() {
		a.log.Info().Str("dest", string(a.dest)).Msg("session expired")
		toLogin := a.navigate(guard.Login)
		return tea.Batch(notice(guard.SessionExpiredNotice), toLogin)
	}
	if a.sessions.Invalidating() {
		return nil // a redirect is already on its way
	}
	return a.navigate(a.dest)
}

func (a *App) scope(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	gen := a.gen
	return func() tea.Msg {
		return scopedMsg{gen: gen, msg: cmd()}
	}
}

func (a *App) revalidate(dest guard.Destination) tea.Cmd {
	r, ok := guard.Lookup(dest)
	if !ok || r.Public {
		return nil
	}
	g, gen := a.guard, a.gen
	return func() tea.Msg {
		d, err := g.Revalidate(context.Background(), r.Required)
		return revalidatedMsg{gen: gen, dest: dest, decision: d, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case scopedMsg:
		if msg.gen != a.gen || msg.msg == nil {
			return a, nil
		}
		return a.Update(msg.msg)

	case navigateMsg:
		return a, a.navigate(msg.dest)

	case noticeMsg:
		a.notice = msg.text
		a.noticeSeq++
		seq := a.noticeSeq
		return a, a.tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case sessionExpiryMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		if a.guard.AuthorizeRoute(a.dest).Allowed() {
			return a, a.expiryTimer(a.sess)
		}
		return a, a.expire()

	case shimmerTickMsg:
		if a.dest != guard.Login {
			a.shimmering = false
			return a, nil
		}
		a.login, _ = a.login.Update(msg)
		return a, a.shimmer()

	case loginSubmitMsg:
		return a, a.signIn(msg.req)

	case registerSubmitMsg:
		return a, a.register(msg.req)

	case registerResultMsg:
		a.login, _ = a.login.Update(msg)
		return a, nil

	case loginResultMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err != nil {
			a.log.Info().Err(msg.err).Msg("sign in failed")
			return a, nil
		}
		return a, a.navigate(guard.DashboardFor(msg.sess.Role))

	case revalidatedMsg:
		return a, a.handleRevalidated(msg)

	case loggedOutMsg:
		if msg.err != nil {
			return a, notice("Signed out. The server could not confirm, your local session is cleared.")
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// Everything else is a screen result.
	var cmds []tea.Cmd
	for _, scr := range a.screens {
		cmds = append(cmds, a.scope(scr.Update(msg)))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleRevalidated(msg revalidatedMsg) tea.Cmd {
	if msg.gen != a.gen || msg.dest != a.dest {
		return nil
	}
	if msg.err != nil {
		a.log.Warn().Err(msg.err).Str("dest", string(msg.dest)).Msg("revalidation")
	}
	if msg.decision.Allowed() {
		return nil
	}
	// A 401 went through the interceptor, which owns the notice and redirect.
	if client.IsStatus(msg.err, http.StatusUnauthorized) {
		return nil
	}
	return a.navigate(msg.decision.Target)
}

func (a *App) signIn(req client.LoginRequest) tea.Cmd {
	api, sessions := a.api, a.sessions
	return func() tea.Msg {
		sess, err := guard.SignIn(context.Background(), api, sessions, req)
		return loginResultMsg{sess: sess, err: err}
	}
}

func (a *App) register(req client.RegisterRequest) tea.Cmd {
	api, log := a.api, a.log
	return func() tea.Msg {
		err := api.Register(context.Background(), req)
		if err != nil {
			log.Info().Err(err).Msg("registration failed")
		}
		return registerResultMsg{email: req.Email, err: err}
	}
}

func (a *App) logout() tea.Cmd {
	api, sessions, bridge, log := a.api, a.sessions, a.bridge, a.log
	return func() tea.Msg {
		return loggedOutMsg{err: guard.Logout(context.Background(), api, sessions, bridge, log)}
	}
}

func (a *App) openForgotPassword() tea.Cmd {
	url := browser.PageURL(a.portalURL, browser.ForgotPasswordPage)
	open := a.openURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return noticeMsg{text: "Open " + url + " to reset your password"}
		}
		return noticeMsg{text: "Opened " + url}
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	if a.showHelp {
		switch key {
		case "j", "down":
			if a.helpCursor < len(helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			url := browser.PageURL(a.portalURL, helpItems[a.helpCursor].page)
			a.openURL(url) //nolint:errcheck // best-effort browser open
		case "q":
			return tea.Quit
		default:
			a.showHelp = false
		}
		return nil
	}

	if a.dest == guard.Login {
		if key == "esc" && a.login.signup == nil {
			return tea.Quit
		}
		if key == "?" && a.login.empty() && !a.login.busy {
			return a.openForgotPassword()
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return cmd
	}

	// Session gone under this view: quit, or finish the trip to login.
	if !a.guard.AuthorizeRoute(a.dest).Allowed() {
		if key == "q" {
			return tea.Quit
		}
		return a.expire()
	}

	scr := a.screens[a.dest]
	if scr == nil {
		return nil
	}
	if scr.Typing() {
		return a.scope(scr.Update(msg))
	}

	switch key {
	case "q":
		return tea.Quit
	case "L":
		return a.logout()
	case "?":
		return a.openForgotPassword()
	case "h":
		a.showHelp = true
		a.helpCursor = 0
		return nil
	case "tab", "shift+tab":
		return a.cycleTab(key == "tab")
	}
	if n, err := strconv.Atoi(key); err == nil {
		routes := guard.RoutesFor(a.sess.Role)
		if n >= 1 && n <= len(routes) {
			return a.navigate(routes[n-1].Dest)
		}
		return nil
	}
	return a.scope(scr.Update(msg))
}

func (a *App) cycleTab(forward bool) tea.Cmd {
	routes := guard.RoutesFor(a.sess.Role)
	for i, r := range routes {
		if r.Dest != a.dest {
			continue
		}
		next := i + 1
		if !forward {
			next = i - 1 + len(routes)
		}
		return a.navigate(routes[next%len(routes)].Dest)
	}
	return nil
}

func (a *App) View() string {
	if a.showHelp {
		return helpView(a.helpCursor, a.portalURL)
	}

	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n")

	var body, keys string
	switch {
	case a.dest == guard.Login:
		body = a.login.View()
		keys = a.login.helpKeys()
	case !a.guard.AuthorizeRoute(a.dest).Allowed():
		// The session went away under this view; show nothing it loaded.
		body = "\n " + dimStyle.Render("Signing out...") + "\n"
	default:
		if scr := a.screens[a.dest]; scr != nil {
			body = scr.View()
			keys = scr.HelpKeys()
			if !scr.Typing() {
				keys += "  " + helpBar("L", "log out", "h", "help", "q", "quit")
			}
		}
	}

	if a.height > 0 {
		body = truncateToHeight(body, a.height-5)
	}
	b.WriteString(body)

	if a.notice != "" {
		b.WriteString("\n " + noticeStyle.Render(a.notice) + "\n")
	}
	if keys != "" {
		b.WriteString("\n " + keys + "\n")
	}
	return b.String()
}

func (a *App) header() string {
	brand := accentStyle.Bold(true).Render("hostel")
	if a.dest == guard.Login || a.screens == nil {
		return " " + brand + "\n"
	}

	who := roleBadge(a.sess.Role)
	if a.sess.SubjectID != "" {
		who += " " + metaStyle.Render(a.sess.SubjectID)
	}

	var tabs []string
	for i, r := range guard.RoutesFor(a.sess.Role) {
		tab := fmt.Sprintf("%d %s", i+1, r.Title)
		if r.Dest == a.dest {
			tabs = append(tabs, selectedStyle.Render(tab))
		} else {
			tabs = append(tabs, dimStyle.Render(tab))
		}
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, " ", brand, "  ", who)
	return top + "\n " + strings.Join(tabs, metaStyle.Render("  ·  ")) + "\n"
}
