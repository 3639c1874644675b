package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mediorg/internal/session"
)

type authMode string

const (
	modeLogin  authMode = "login"
	modeSignup authMode = "signup"
)

type loginModel struct {
	sessions *session.Manager
	width    int
	height   int

	form   *huh.Form
	busy   bool
	errMsg string

	// Form values as pointers (survive value copies)
	mode     *authMode
	email    *string
	password *string
	name     *string
}

func newLoginModel(m *session.Manager) loginModel {
	mode := modeLogin
	email, password, name := "", "", ""
	l := loginModel{
		sessions: m,
		mode:     &mode,
		email:    &email,
		password: &password,
		name:     &name,
	}
	l.form = l.buildForm()
	return l
}

func (l loginModel) Init() tea.Cmd {
	return l.form.Init()
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l loginModel) buildForm() *huh.Form {
	mode := l.mode
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authMode]().
				Title("Welcome to mediorg").
				Options(
					huh.NewOption("Log in", modeLogin),
					huh.NewOption("Create an account", modeSignup),
				).Value(l.mode),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(l.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(l.password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Value(l.name),
		).WithHideFunc(func() bool { return *mode != modeSignup }),
	).WithShowHelp(true).WithShowErrors(true)
}

// reset clears the form for a fresh sign-in.
func (l loginModel) reset() (loginModel, tea.Cmd) {
	*l.mode = modeLogin
	*l.email = ""
	*l.password = ""
	*l.name = ""
	l.busy = false
	l.errMsg = ""
	l.form = l.buildForm()
	return l, l.form.Init()
}

// fail shows err and rebuilds the form, keeping everything but the password.
func (l loginModel) fail(err error) (loginModel, tea.Cmd) {
	l.busy = false
	l.errMsg = session.Message(err)
	*l.password = ""
	l.form = l.buildForm()
	return l, l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if l.busy {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	switch l.form.State {
	case huh.StateCompleted:
		l.busy = true
		l.errMsg = ""
		return l, l.submit()
	case huh.StateAborted:
		return l.reset()
	}
	return l, cmd
}

// submit runs the credential check off the UI goroutine; bcrypt is slow.
func (l loginModel) submit() tea.Cmd {
	mode, email, password, name := *l.mode, *l.email, *l.password, *l.name
	sessions := l.sessions
	return func() tea.Msg {
		ctx := context.Background()
		var (
			u   *session.User
			err error
		)
		if mode == modeSignup {
			u, err = sessions.Signup(ctx, email, password, name)
		} else {
			u, err = sessions.Login(ctx, email, password)
		}
		return authDoneMsg{user: u, err: err}
	}
}

func (l loginModel) view() string {
	w := l.width - 4
	if w > 72 {
		w = 72
	}

	title := titleStyle.Render("Sign in")
	sub := subtitleStyle.Render("Track water, steps and sleep in one place.")

	var body string
	if l.busy {
		body = mutedStyle.Render("Checking credentials...")
	} else {
		body = l.form.View()
	}

	rows := []string{title, sub, "", body}
	if l.errMsg != "" {
		rows = append(rows, "", errorStyle.Render(l.errMsg))
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
