package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/frame/internal/session"
	"github.com/five82/frame/internal/validate"
)

type loginMsg struct {
	session *session.Session
	err     error
}

type registerMsg struct {
	email   string
	message string
	err     error
}

type logoutMsg struct{ err error }

type passwordMsg struct {
	message string
	err     error
}

func newLoginForm() form {
	return newForm("Sign in",
		newField("email", "Email", "you@example.com", false),
		newField("password", "Password", "", true),
	)
}

func newRegisterForm() form {
	return newForm("Create account",
		newField("name", "Name", "3-25 letters, digits, _ or spaces", false),
		newField("email", "Email", "you@example.com", false),
		newField("phone", "Phone", "10 digits", false),
		newField("password", "Password", "8+ chars, mixed case, digit, symbol", true),
		newField("confirmPassword", "Confirm password", "", true),
	)
}

func loginCmd(ctx context.Context, sessions *session.Manager, f validate.LoginForm) tea.Cmd {
	return func() tea.Msg {
		s, err := sessions.Login(ctx, f)
		return loginMsg{session: s, err: err}
	}
}

func registerCmd(ctx context.Context, sessions *session.Manager, f validate.RegisterForm) tea.Cmd {
	return func() tea.Msg {
		msg, err := sessions.Register(ctx, f)
		return registerMsg{email: f.Email, message: msg, err: err}
	}
}

func logoutCmd(ctx context.Context, sessions *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: sessions.Logout(ctx)}
	}
}

func passwordCmd(ctx context.Context, sessions *session.Manager, f validate.ChangePasswordForm) tea.Cmd {
	return func() tea.Msg {
		msg, err := sessions.ChangePassword(ctx, f)
		return passwordMsg{message: msg, err: err}
	}
}

// handleAuthKey drives the login and register screens.
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleAuth):
		if m.route == session.RouteLogin {
			return m.navigate(session.RouteRegister), nil
		}
		return m.navigate(session.RouteLogin), nil
	case key.Matches(msg, m.keys.Escape) && m.route == session.RouteRegister:
		return m.navigate(session.RouteLogin), nil
	}

	if m.route == session.RouteRegister {
		f, cmd, submitted := m.register.update(msg, m.keys)
		m.register = f
		if !submitted {
			return m, cmd
		}
		req := validate.RegisterForm{
			Name:            f.value("name"),
			Email:           f.value("email"),
			Phone:           f.value("phone"),
			Password:        f.value("password"),
			ConfirmPassword: f.value("confirmPassword"),
		}
		if err := validate.Register(&req); err != nil {
			m.register.setError(err)
			return m, nil
		}
		m.register.setError(nil)
		m.register.busy = true
		return m, registerCmd(m.ctx, m.session, req)
	}

	f, cmd, submitted := m.login.update(msg, m.keys)
	m.login = f
	if !submitted {
		return m, cmd
	}
	req := validate.LoginForm{Email: f.value("email"), Password: f.value("password")}
	if err := validate.Login(&req); err != nil {
		m.login.setError(err)
		return m, nil
	}
	m.login.setError(nil)
	m.login.busy = true
	return m, loginCmd(m.ctx, m.session, req)
}

func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.login.setError(formError(msg.err, "Sign in failed."))
		return m, nil
	}
	m.login = newLoginForm()
	m.gallery.SetUser(msg.session.User)
	m = m.navigate(session.RouteGallery)
	m.cursor, m.scrollRow = 0, 0
	cmd := tea.Batch(m.toast(toastSuccess, "Welcome, "+msg.session.User.Name), m.runOp(m.gallery.Load))
	return m, cmd
}

func (m Model) handleRegister(msg registerMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.register.setError(formError(msg.err, "Could not create the account."))
		return m, nil
	}
	m.register = newRegisterForm()
	m.login.setValue("email", msg.email)
	m = m.navigate(session.RouteLogin)
	text := msg.message
	if text == "" {
		text = "Account created. Please sign in."
	}
	cmd := m.toast(toastSuccess, text)
	return m, cmd
}

// formError keeps field errors and reduces everything else to the
// service's own message.
func formError(err error, fallback string) error {
	if validate.Fields(err) != nil {
		return err
	}
	return userFacing(err, fallback)
}

func (m Model) renderAuth(height int) string {
	styles := m.theme.Styles()
	f := m.login
	other := "create an account"
	if m.route == session.RouteRegister {
		f = m.register
		other = "back to sign in"
	}
	body := strings.Join([]string{
		f.view(styles),
		"",
		styles.KeyHint.Render("enter") + styles.MutedText.Render(" submit   ") +
			styles.KeyHint.Render("ctrl+r") + styles.MutedText.Render(" "+other+"   ") +
			styles.KeyHint.Render("ctrl+c") + styles.MutedText.Render(" quit"),
	}, "\n")
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.Modal.Width(64).Render(body))
}
