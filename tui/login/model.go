package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/app"
	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/tui/common"
)

// --- Messages ---

// DoneMsg is sent when authentication succeeds.
type DoneMsg struct {
	User domain.Author
}

// authResultMsg carries the outcome of a sign-in or sign-up attempt.
type authResultMsg struct {
	user domain.Author
	err  error
}

// --- Model ---

// Model holds the state for the login view.
type Model struct {
	identity app.Identity
	theme    common.Theme

	signup   bool
	focus    int // 0: email, 1: password, 2: display name (signup only)
	email    textinput.Model
	password textinput.Model
	name     textinput.Model

	busy    bool
	err     error
	spinner spinner.Model
}

// New creates a login model.
func New(identity app.Identity, theme common.Theme) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Success

	return Model{
		identity: identity,
		theme:    theme,
		email:    email,
		password: password,
		name:     name,
		spinner:  s,
	}
}

// Init returns the blink command for the focused input.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) fieldCount() int {
	if m.signup {
		return 3
	}
	return 2
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	m.email.Blur()
	m.password.Blur()
	m.name.Blur()
	switch i {
	case 0:
		return m.email.Focus()
	case 1:
		return m.password.Focus()
	default:
		return m.name.Focus()
	}
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		user := msg.user
		return m, func() tea.Msg { return DoneMsg{User: user} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % m.fieldCount())
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + m.fieldCount() - 1) % m.fieldCount())
		case "ctrl+s":
			m.signup = !m.signup
			m.err = nil
			if !m.signup && m.focus > 1 {
				return m, m.setFocus(0)
			}
			return m, nil
		case "enter":
			return m.submit()
		}

		var cmd tea.Cmd
		switch m.focus {
		case 0:
			m.email, cmd = m.email.Update(msg)
		case 1:
			m.password, cmd = m.password.Update(msg)
		default:
			m.name, cmd = m.name.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.err = domain.ErrAuthFailed
		return m, nil
	}

	m.busy = true
	m.err = nil

	identity := m.identity
	signup := m.signup
	name := strings.TrimSpace(m.name.Value())
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		var (
			user domain.Author
			err  error
		)
		if signup {
			user, err = identity.SignUp(context.Background(), email, password, name)
		} else {
			user, err = identity.SignIn(context.Background(), email, password)
		}
		return authResultMsg{user: user, err: err}
	})
}
