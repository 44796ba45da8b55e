package devserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/session"
	"github.com/five82/frame/internal/validate"
)

const localUserID = "user_id"

var errEmailTaken = errors.New("email already registered")

func randomSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return secret, nil
}

// AddAccount creates an account directly, bypassing the register endpoint.
// Used to seed a demo user and by tests.
func (s *Server) AddAccount(name, email, phone, password string) (api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return api.User{}, fmt.Errorf("hash password: %w", err)
	}
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return api.User{}, errEmailTaken
	}
	acct := &account{
		user:  api.User{ID: uuid.NewString(), Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)},
		phone: phone,
		hash:  hash,
	}
	s.accounts[key] = acct
	return acct.user, nil
}

func (s *Server) accountByID(id string) *account {
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct
		}
	}
	return nil
}

func (s *Server) issueToken(userID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", errors.New("invalid token claims")
	}
	return userID, nil
}

// requireAuth checks the token cookie and stores the caller's id in locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token := c.Cookies(session.TokenCookie)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Please log in")
	}
	userID, err := s.parseToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Session expired, please log in again")
	}
	s.mu.Lock()
	known := s.accountByID(userID) != nil
	s.mu.Unlock()
	if !known {
		return fiber.NewError(fiber.StatusUnauthorized, "Please log in")
	}
	c.Locals(localUserID, userID)
	return c.Next()
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func (s *Server) register(c *fiber.Ctx) error {
	var req api.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	form := validate.RegisterForm{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.Password,
	}
	if err := validate.Register(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": validate.Fields(err)})
	}
	if _, err := s.AddAccount(form.Name, form.Email, form.Phone, form.Password); err != nil {
		if errors.Is(err, errEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  false,
				"message": map[string]string{"email": "Email is already registered"},
			})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": true, "message": "User registered successfully"})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	s.mu.Lock()
	acct := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	now := time.Now()
	token, err := s.issueToken(acct.user.ID, now)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     session.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"status": true, "message": "Login successful", "data": acct.user})
}

func (s *Server) logout(c *fiber.Ctx) error {
	c.ClearCookie(session.TokenCookie)
	return c.JSON(fiber.Map{"status": true, "message": "Logged out successfully"})
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var req struct {
		UserID      string `json:"userId"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if req.UserID != callerID(c) {
		return fiber.NewError(fiber.StatusForbidden, "You can only change your own password")
	}
	form := validate.ChangePasswordForm{OldPassword: req.OldPassword, NewPassword: req.NewPassword}
	if err := validate.ChangePassword(&form); err != nil {
		return c.JSON(fiber.Map{"status": false, "message": validate.Fields(err).First()})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accountByID(req.UserID)
	if acct == nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(form.OldPassword)) != nil {
		return c.JSON(fiber.Map{"status": false, "message": "Old password is incorrect"})
	}
	acct.hash = hash
	return c.JSON(fiber.Map{"status": true, "message": "Password updated successfully"})
}
