package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
)

const (
	defaultTokenTTL = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
	bodyLimit       = 64 << 20
)

// Options configure the mock service.
type Options struct {
	Secret   []byte        // HS256 signing key; random when empty
	TokenTTL time.Duration // lifetime of issued tokens; defaults to 24h
	Logger   *zap.Logger
}

type account struct {
	user  api.User
	phone string
	hash  []byte
}

type storedImage struct {
	api.Image
	contentType string
	data        []byte
}

// Server is an in-memory implementation of the gallery service API.
type Server struct {
	app    *fiber.App
	secret []byte
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	accounts map[string]*account // by lower-cased email
	images   map[string]*storedImage
}

// New builds the service and registers its routes.
func New(opts Options) (*Server, error) {
	secret := opts.Secret
	if len(secret) == 0 {
		var err error
		if secret, err = randomSecret(); err != nil {
			return nil, err
		}
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
		accounts: make(map[string]*account),
		images:   make(map[string]*storedImage),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "frame mock service",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		Immutable:             true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	s.app.Get("/uploads/:id", s.serveUpload)

	root := s.app.Group("/api")

	user := root.Group("/user")
	user.Post("/register", s.register)
	user.Post("/login", s.login)
	user.Post("/logout", s.logout)
	user.Post("/resetPassword", s.requireAuth, s.resetPassword)

	image := root.Group("/image", s.requireAuth)
	image.Get("/getAllImages", s.listImages)
	image.Post("/upload", s.uploadImages)
	image.Put("/edit", s.editImage)
	image.Delete("/delete/:imageId/:userId", s.deleteImage)
	image.Post("/changeImageOrder", s.changeOrder)
}

// Handler exposes the service as a net/http handler for mounting under an
// existing server.
func (s *Server) Handler() http.HandlerFunc {
	return adaptor.FiberApp(s.app)
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("mock service listening", zap.String("addr", ln.Addr().String()))
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listener(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	s.logger.Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("request_id", c.Get("X-Request-ID")),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(started)))
	return err
}

// handleError renders every error in the service's {status, message} shape.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("handler failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"status": false, "message": err.Error()})
}

// imagesOf returns userID's images in display order. Callers hold s.mu.
func (s *Server) imagesOf(userID string) []*storedImage {
	var out []*storedImage
	for _, img := range s.images {
		if img.UserID == userID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// renumber makes userID's orders contiguous from 1. Callers hold s.mu.
func (s *Server) renumber(userID string) {
	for i, img := range s.imagesOf(userID) {
		img.Order = i + 1
	}
}

func records(images []*storedImage) []api.Image {
	out := make([]api.Image, len(images))
	for i, img := range images {
		out[i] = img.Image
	}
	return out
}
