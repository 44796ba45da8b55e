package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathRegister      = "/api/user/register"
	pathLogin         = "/api/user/login"
	pathLogout        = "/api/user/logout"
	pathResetPassword = "/api/user/resetPassword"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. On a rejected registration the returned error
// is a *StatusError; RegisterFieldErrors extracts per-field messages from it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	var payload UserResponse
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: pathRegister}, req, &payload); err != nil {
		return UserResponse{}, err
	}
	if !payload.Status {
		return payload, rejected(pathRegister, payload.Text())
	}
	return payload, nil
}

// RegisterFieldErrors returns the field->message map carried by a register
// rejection, or nil.
func RegisterFieldErrors(err error) map[string]string {
	var se *StatusError
	if !errors.As(err, &se) || len(se.Body) == 0 {
		return nil
	}
	var payload UserResponse
	if jsonErr := json.Unmarshal(se.Body, &payload); jsonErr != nil {
		return nil
	}
	return payload.FieldErrors()
}

// Login authenticates and returns the user. The session cookie lands in the
// client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: strings.TrimSpace(email), Password: password}
	var payload UserResponse
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: pathLogin}, body, &payload); err != nil {
		return User{}, err
	}
	if !payload.Status {
		return User{}, rejected(pathLogin, payload.Text())
	}
	if payload.Data == nil || strings.TrimSpace(payload.Data.ID) == "" {
		return User{}, fmt.Errorf("invalid login response: missing user")
	}
	return *payload.Data, nil
}

// Logout ends the server-side session and drops local cookies.
func (c *Client) Logout(ctx context.Context) error {
	defer c.ClearCookies()
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: pathLogout}, nil, nil)
}

// ResetPassword changes the password and returns the service's message.
func (c *Client) ResetPassword(ctx context.Context, userID, oldPassword, newPassword string) (string, error) {
	body := struct {
		UserID      string `json:"userId"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}{UserID: userID, OldPassword: oldPassword, NewPassword: newPassword}
	var payload UserResponse
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: pathResetPassword}, body, &payload); err != nil {
		return "", err
	}
	if !payload.Status {
		return "", rejected(pathResetPassword, payload.Text())
	}
	return payload.Text(), nil
}

func rejected(path, message string) error {
	return &StatusError{Path: path, Code: http.StatusOK, Message: message}
}
