package session

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/config"
)

// TokenCookie is the cookie the service sets on login.
const TokenCookie = "token"

// Cookie is the persisted form of an HTTP cookie.
type Cookie struct {
	Name    string    `toml:"name"`
	Value   string    `toml:"value"`
	Path    string    `toml:"path,omitempty"`
	Domain  string    `toml:"domain,omitempty"`
	Expires time.Time `toml:"expires,omitempty"`
}

// Session is the signed-in user plus what is needed to stay signed in.
type Session struct {
	User    api.User  `toml:"user"`
	Cookies []Cookie  `toml:"cookies"`
	SavedAt time.Time `toml:"saved_at"`
}

// New builds a session for user from the cookies of an HTTP client.
func New(user api.User, cookies []*http.Cookie) *Session {
	s := &Session{User: user}
	s.SetHTTPCookies(cookies)
	return s
}

// HTTPCookies converts the stored cookies for an http.CookieJar.
func (s *Session) HTTPCookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires})
	}
	return out
}

// SetHTTPCookies replaces the stored cookies.
func (s *Session) SetHTTPCookies(cookies []*http.Cookie) {
	s.Cookies = s.Cookies[:0]
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		s.Cookies = append(s.Cookies, Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires})
	}
}

// Token returns the value of the auth cookie, if present.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	for _, c := range s.Cookies {
		if c.Name == TokenCookie {
			return c.Value
		}
	}
	return ""
}

// Authenticated reports whether s holds a user whose token, when it carries
// an exp claim, has not expired at now.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.User.ID) == "" {
		return false
	}
	exp, ok := tokenExpiry(s.Token())
	if !ok {
		return true
	}
	return now.Before(exp)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client has no key and only uses it to skip requests bound to fail.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

const defaultSessionPath = "~/.local/state/frame/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session at path. A missing file yields (nil, nil).
func Load(path string) (*Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(s.User.ID) == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes s to path with owner-only permissions.
func Save(path string, s *Session) error {
	if s == nil {
		return Clear(path)
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	s.SavedAt = time.Now().UTC().Truncate(time.Second)
	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func Clear(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultSessionPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}
	return resolved, nil
}
