package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/events"
	"github.com/naveenspark/legends/pkg/client"
	"github.com/naveenspark/legends/pkg/domain"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

const (
	fieldEmail = iota
	fieldPassword
	numLoginFields
)

type loginResultMsg struct {
	mode loginMode
	user *domain.Identity
	err  error
}

type resetSentMsg struct {
	email string
}

// loginModel is the sign in / create account dialog. returnTo is the single
// pending redirect slot: a newer request replaces it and the next successful
// sign-in takes it.
type loginModel struct {
	ctx      context.Context
	provider *auth.Provider
	mode     loginMode
	inputs   [numLoginFields]textinput.Model
	focus    int
	pending  bool
	err      string
	notice   string
	returnTo events.Target

	// Set when the dialog is finished; the app reads and clears them.
	closed    bool
	succeeded bool
	target    events.Target
}

func newLoginModel(ctx context.Context, p *auth.Provider) loginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Width = 36

	password := textinput.New()
	password.Placeholder = "••••••••"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 36

	return loginModel{
		ctx:      ctx,
		provider: p,
		inputs:   [numLoginFields]textinput.Model{email, password},
	}
}

// open resets the dialog for a new request. The redirect slot is only
// replaced when the request names a target.
func (m loginModel) open(req events.Request) (loginModel, tea.Cmd) {
	if req.ReturnTo != events.TargetNone {
		m.returnTo = req.ReturnTo
	}
	m.closed = false
	m.succeeded = false
	m.err = ""
	m.notice = ""
	m.inputs[fieldPassword].SetValue("")
	return m.setFocus(fieldEmail)
}

func (m loginModel) setFocus(i int) (loginModel, tea.Cmd) {
	m.focus = i
	var cmd tea.Cmd
	for n := range m.inputs {
		if n == i {
			cmd = m.inputs[n].Focus()
		} else {
			m.inputs[n].Blur()
		}
	}
	return m, cmd
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		return m.handleResult(msg), nil

	case resetSentMsg:
		m.pending = false
		m.notice = fmt.Sprintf("If %s has an account, a reset link is on its way.", msg.email)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closed = true
		return m, nil
	case "tab", "down":
		return m.setFocus((m.focus + 1) % numLoginFields)
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + numLoginFields) % numLoginFields)
	case "ctrl+t":
		if !m.pending {
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.err = ""
			m.notice = ""
		}
		return m, nil
	case "ctrl+r":
		return m.resetPassword()
	case "enter":
		if m.focus == fieldEmail {
			return m.setFocus(fieldPassword)
		}
		return m.submit()
	}

	if m.pending {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) credentials() (string, string) {
	return strings.TrimSpace(m.inputs[fieldEmail].Value()), m.inputs[fieldPassword].Value()
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	email, password := m.credentials()
	if email == "" || password == "" {
		m.err = "Email and password are required"
		return m, nil
	}

	m.pending = true
	m.err = ""
	m.notice = ""
	ctx, p, mode := m.ctx, m.provider, m.mode
	return m, func() tea.Msg {
		if mode == modeRegister {
			user, err := p.SignUp(ctx, email, password)
			return loginResultMsg{mode: mode, user: user, err: err}
		}
		err := p.SignIn(ctx, email, password)
		return loginResultMsg{mode: mode, err: err}
	}
}

func (m loginModel) resetPassword() (loginModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	email, _ := m.credentials()
	if email == "" {
		m.err = "Enter your email to reset the password"
		return m, nil
	}
	m.pending = true
	m.err = ""
	ctx, p := m.ctx, m.provider
	return m, func() tea.Msg {
		p.ResetPassword(ctx, email) //nolint:errcheck // the notice is the same either way
		return resetSentMsg{email: email}
	}
}

func (m loginModel) handleResult(msg loginResultMsg) loginModel {
	m.pending = false
	if msg.err != nil {
		m.err = client.Message(msg.err)
		if m.err == "" {
			m.err = "An error occurred"
		}
		return m
	}

	if msg.mode == modeRegister && m.provider.Snapshot().Session == nil {
		email := ""
		if msg.user != nil {
			email = msg.user.Email
		}
		m.mode = modeLogin
		m.inputs[fieldPassword].SetValue("")
		m.notice = fmt.Sprintf("Account created for %s. Confirm your email, then sign in.", email)
		return m
	}

	m.succeeded = true
	m.closed = true
	m.target = m.returnTo
	if m.target == events.TargetNone {
		m.target = events.TargetDashboard
	}
	m.returnTo = events.TargetNone
	m.inputs[fieldPassword].SetValue("")
	return m
}

func (m loginModel) View() string {
	var b strings.Builder

	title, sub, action, toggle := "Sign In", "Enter your credentials to access your account", "Sign In", "Don't have an account? ctrl+t to sign up"
	if m.mode == modeRegister {
		title, sub, action, toggle = "Create Account", "Sign up for a free account to get started", "Sign Up", "Already have an account? ctrl+t to sign in"
	}

	b.WriteString(headingStyle.Render(title) + "\n")
	b.WriteString(dimStyle.Render(sub) + "\n\n")

	labels := [numLoginFields]string{"Email", "Password"}
	for i, in := range m.inputs {
		label := metaStyle.Render(labels[i])
		if i == m.focus {
			label = accentStyle.Render(labels[i])
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", label, in.View())
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n\n")
	}
	if m.notice != "" {
		b.WriteString(successStyle.Render(m.notice) + "\n\n")
	}

	if m.pending {
		b.WriteString(dimStyle.Render("Processing..."))
	} else {
		b.WriteString(goldStyle.Render("[ "+action+" ]") + "  " + metaStyle.Render("enter"))
	}
	b.WriteString("\n\n" + metaStyle.Render(toggle))
	if m.mode == modeLogin {
		b.WriteString("\n" + metaStyle.Render("Forgot your password? ctrl+r"))
	}

	return dialogStyle.Render(b.String())
}
