package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/validate"
)

// ErrSignedOut is returned by operations that need a signed-in user.
var ErrSignedOut = errors.New("not signed in")

// CookieJar is the part of api.Client the manager needs to carry cookies
// between the HTTP client and the session file.
type CookieJar interface {
	Cookies() []*http.Cookie
	SetCookies([]*http.Cookie)
	ClearCookies()
}

// Manager owns the current session and the account operations that change it.
type Manager struct {
	users  api.UserService
	jar    CookieJar
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	current *Session
}

// NewManager builds a Manager persisting to path.
func NewManager(users api.UserService, jar CookieJar, path string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{users: users, jar: jar, path: path, logger: logger}
}

// Current returns the session in use, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Gate applies Gate to the current session.
func (m *Manager) Gate(route Route) Decision {
	return Gate(route, m.Current())
}

// Restore loads the saved session and hands its cookies to the HTTP client.
// An expired session is discarded.
func (m *Manager) Restore() (*Session, error) {
	s, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	if s != nil && !s.Authenticated(time.Now()) {
		m.logger.Info("saved session expired", zap.String("user_id", s.User.ID))
		if err := Clear(m.path); err != nil {
			return nil, err
		}
		s = nil
	}
	m.set(s)
	if s != nil {
		m.jar.SetCookies(s.HTTPCookies())
	}
	return s, nil
}

// Login validates the form, signs in and saves the session.
func (m *Manager) Login(ctx context.Context, form validate.LoginForm) (*Session, error) {
	if err := validate.Login(&form); err != nil {
		return nil, err
	}
	user, err := m.users.Login(ctx, form.Email, form.Password)
	if err != nil {
		m.logger.Warn("login failed", zap.String("email", form.Email), zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}
	s := New(user, m.jar.Cookies())
	if err := Save(m.path, s); err != nil {
		return nil, err
	}
	m.set(s)
	m.logger.Info("signed in", zap.String("user_id", user.ID))
	return s, nil
}

// Register validates the form and creates an account. It returns the
// service's message. Field errors reported by the service come back as
// validate.FieldErrors.
func (m *Manager) Register(ctx context.Context, form validate.RegisterForm) (string, error) {
	if err := validate.Register(&form); err != nil {
		return "", err
	}
	resp, err := m.users.Register(ctx, api.RegisterRequest{
		Name:     form.Name,
		Phone:    form.Phone,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if fields := api.RegisterFieldErrors(err); len(fields) > 0 {
			return "", validate.FieldErrors(fields)
		}
		m.logger.Warn("register failed", zap.String("email", form.Email), zap.Error(err))
		return "", fmt.Errorf("register: %w", err)
	}
	m.logger.Info("account created", zap.String("email", form.Email))
	return resp.Text(), nil
}

// Logout drops the local session first, then tells the service. The local
// session is gone even when the remote call fails.
func (m *Manager) Logout(ctx context.Context) error {
	clearErr := Clear(m.path)
	m.set(nil)
	err := m.users.Logout(ctx)
	m.jar.ClearCookies()
	if err != nil {
		m.logger.Warn("remote logout failed", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return clearErr
}

// ChangePassword validates the form and resets the password of the current
// user. It returns the service's message.
func (m *Manager) ChangePassword(ctx context.Context, form validate.ChangePasswordForm) (string, error) {
	s := m.Current()
	if s == nil {
		return "", ErrSignedOut
	}
	if err := validate.ChangePassword(&form); err != nil {
		return "", err
	}
	msg, err := m.users.ResetPassword(ctx, s.User.ID, form.OldPassword, form.NewPassword)
	if err != nil {
		m.logger.Warn("password change failed", zap.String("user_id", s.User.ID), zap.Error(err))
		return "", fmt.Errorf("change password: %w", err)
	}
	return msg, nil
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}
