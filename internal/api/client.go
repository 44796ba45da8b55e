package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// ImageService defines the image operations of the remote gallery service.
// This interface is implemented by *Client and can be used for testing.
type ImageService interface {
	ListImages(ctx context.Context, userID string) ([]Image, error)
	UploadImages(ctx context.Context, req UploadRequest) (UploadResponse, error)
	EditImage(ctx context.Context, req EditRequest) (EditResponse, error)
	DeleteImage(ctx context.Context, imageID, userID string) (DeleteResult, error)
	ChangeImageOrder(ctx context.Context, updates []OrderUpdate) error
}

// UserService defines the account operations of the remote gallery service.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, email, password string) (User, error)
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, userID, oldPassword, newPassword string) (string, error)
}

// Ensure Client implements both services at compile time.
var (
	_ ImageService = (*Client)(nil)
	_ UserService  = (*Client)(nil)
)

// Client talks to the gallery HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	defaultAPIURL    = "http://127.0.0.1:8080"
	defaultUserAgent = "frame/0.1"
	defaultTimeout   = 30 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the service rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Cookies returns the cookies the service has set for the base URL.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.baseURL)
}

// SetCookies seeds the cookie jar, typically from a saved session.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.http.Jar.SetCookies(c.baseURL, cookies)
}

// ClearCookies drops every cookie held for the service.
func (c *Client) ClearCookies() {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return
	}
	c.http.Jar = jar
}

// StatusError reports an HTTP error status from the service.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Code < 400 {
		return fmt.Sprintf("api %s rejected request: %s", e.Path, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// IsUnauthorized reports whether err is a 401/403 from the service.
func IsUnauthorized(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
}

// ServerMessage extracts the service's message from err, or "" when there is none.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, body any, dest any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.send(ctx, method, rel, reader, contentType, dest)
}

func (c *Client) doMultipart(ctx context.Context, method string, rel *url.URL, build func(*multipart.Writer) error, dest any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := build(mw); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}
	return c.send(ctx, method, rel, &buf, mw.FormDataContentType(), dest)
}

func (c *Client) send(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", rel.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return &StatusError{
			Method:  method,
			Path:    rel.Path,
			Code:    resp.StatusCode,
			Message: bodyMessage(payload),
			Body:    payload,
		}
	}
	switch d := dest.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *json.RawMessage:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		*d = raw
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func bodyMessage(payload []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ""
	}
	return messageText(envelope.Message)
}

func createFilePart(mw *multipart.Writer, field string, file UploadFile) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(file.Data)
	return err
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
