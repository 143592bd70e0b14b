package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/internal/validate"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// loginSubmitMsg carries a locally valid login request to the app.
type loginSubmitMsg struct {
	req client.LoginRequest
}

// loginResultMsg is the outcome of a sign-in attempt.
type loginResultMsg struct {
	sess domain.Session
	err  error
}

// registerSubmitMsg carries a locally valid registration to the app.
type registerSubmitMsg struct {
	req client.RegisterRequest
}

type registerResultMsg struct {
	email string
	err   error
}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	signupFieldName = iota
	signupFieldEmail
	signupFieldPassword
	signupFieldType
)

// loginModel is the one public view. The register form lives on it too.
type loginModel struct {
	form   *form
	signup *form
	status string
	busy   bool
	frame  int
}

func newLoginModel() loginModel {
	return loginModel{form: newForm("",
		formField{label: "Email", placeholder: "you@hostel.test"},
		formField{label: "Password", placeholder: "at least 6 characters", secret: true},
	)}
}

// reset clears both fields; called whenever the login view is shown again.
func (m loginModel) reset() loginModel {
	m.form.reset()
	m.signup = nil
	m.status = ""
	m.busy = false
	return m
}

// empty reports whether nothing has been typed, so single-key shortcuts apply.
func (m loginModel) empty() bool {
	return m.signup == nil && m.form.rawValue(loginFieldEmail) == "" && m.form.rawValue(loginFieldPassword) == ""
}

func newSignupForm() *form {
	return newForm("Create an account",
		formField{label: "Name", placeholder: "full name"},
		formField{label: "Email", placeholder: "you@hostel.test"},
		formField{label: "Password", placeholder: "at least 6 characters", secret: true},
		formField{label: "Account", placeholder: "Student or Warden, default Student"},
	)
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.form.err = errMessage(msg.err)
			m.form.fields[loginFieldPassword].value = ""
			m.form.focus = loginFieldPassword
		}

	case registerResultMsg:
		m.busy = false
		if m.signup == nil {
			return m, nil
		}
		if msg.err != nil {
			m.signup.err = errMessage(msg.err)
			return m, nil
		}
		m.signup = nil
		m.form.reset()
		m.form.fields[loginFieldEmail].value = msg.email
		m.form.focus = loginFieldPassword
		m.status = "Account created. Sign in to continue."

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.signup != nil {
			return m.updateSignup(msg)
		}
		if msg.String() == "ctrl+n" {
			m.signup = newSignupForm()
			m.status = ""
			return m, nil
		}
		if m.form.handleKey(msg) != formSubmitted {
			return m, nil
		}
		m.status = ""
		req := client.LoginRequest{
			Email:    m.form.value(loginFieldEmail),
			Password: m.form.rawValue(loginFieldPassword),
		}
		if fields := validate.Struct(req); fields != nil {
			m.form.err = validate.First(fields)
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg { return loginSubmitMsg{req: req} }
	}
	return m, nil
}

func (m loginModel) updateSignup(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch m.signup.handleKey(msg) {
	case formCancelled:
		m.signup = nil
	case formSubmitted:
		userType := m.signup.value(signupFieldType)
		if userType == "" {
			userType = domain.RoleStudent.UserType()
		}
		if role, err := domain.ParseRole(userType); err == nil {
			userType = role.UserType()
		}
		req := client.RegisterRequest{
			Name:     m.signup.value(signupFieldName),
			Email:    m.signup.value(signupFieldEmail),
			Password: m.signup.rawValue(signupFieldPassword),
			UserType: userType,
		}
		if fields := validate.Struct(req); fields != nil {
			m.signup.err = validate.First(fields)
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg { return registerSubmitMsg{req: req} }
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + renderShimmerLogo(m.frame) + "\n")
	if m.signup != nil {
		b.WriteString("  " + dimStyle.Render("register for the hostel portal") + "\n\n")
		b.WriteString(m.signup.View())
		if m.busy {
			b.WriteString("\n  " + dimStyle.Render("creating account...") + "\n")
		}
		return b.String()
	}
	b.WriteString("  " + dimStyle.Render("sign in to the hostel portal") + "\n\n")
	if m.status != "" {
		b.WriteString("  " + okStyle.Render(m.status) + "\n\n")
	}
	b.WriteString(m.form.View())
	if m.busy {
		b.WriteString("\n  " + dimStyle.Render("signing in...") + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	if m.signup != nil {
		return helpBar("tab", "next field", "enter", "register", "esc", "back")
	}
	pairs := []string{"tab", "next field", "enter", "sign in", "ctrl+n", "register"}
	if m.empty() {
		pairs = append(pairs, "?", "forgot password")
	}
	return helpBar(append(pairs, "esc", "quit")...)
}
