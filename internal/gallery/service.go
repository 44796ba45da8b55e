package gallery

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/state"
)

// Service applies user intents to the gallery store and keeps it consistent
// with the remote service.
type Service struct {
	images   api.ImageService
	store    *state.Store
	logger   *zap.Logger
	rollback bool
	guard    *inflight

	mu   sync.RWMutex
	user api.User
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRollback chooses the failure policy. When enabled (the default) a
// failed reorder, edit or delete restores the gallery as it was before the
// request. When disabled a failed reorder keeps the local order and delete
// waits for the service before removing anything.
func WithRollback(enabled bool) Option {
	return func(s *Service) { s.rollback = enabled }
}

// NewService wires a Service to the remote images API and the shared store.
func NewService(images api.ImageService, store *state.Store, opts ...Option) *Service {
	s := &Service{
		images:   images,
		store:    store,
		logger:   zap.NewNop(),
		rollback: true,
		guard:    newInflight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store the service mutates.
func (s *Service) Store() *state.Store {
	return s.store
}

// Optimistic reports whether edits and deletes show in the store before the
// service answers. Reorders always do.
func (s *Service) Optimistic() bool {
	return s.rollback
}

// SetUser makes user the owner of every following request.
func (s *Service) SetUser(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// User returns the signed-in user, if any.
func (s *Service) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user.ID != ""
}

// SignOut forgets the user and empties the store.
func (s *Service) SignOut() {
	s.mu.Lock()
	s.user = api.User{}
	s.mu.Unlock()
	s.store.Reset()
}

func (s *Service) owner() (string, error) {
	user, ok := s.User()
	if !ok {
		return "", ErrNotAuthenticated
	}
	return user.ID, nil
}

// Load replaces the gallery with the service listing, sorted by order.
func (s *Service) Load(ctx context.Context) Result {
	release, ok := s.guard.acquire(OpLoad)
	if !ok {
		return rejected(OpLoad, "Images are already loading.", ErrInFlight)
	}
	defer release()

	userID, err := s.owner()
	if err != nil {
		return rejected(OpLoad, "Please sign in first.", err)
	}
	if err := s.store.Load(ctx, s.images, userID); err != nil {
		s.logger.Warn("load images failed", zap.String("user_id", userID), zap.Error(err))
		return failed(OpLoad, messageFor(err, "Could not load your images."), err)
	}
	snap := s.store.Snapshot()
	s.logger.Debug("images loaded", zap.Int("count", len(snap.Images)))
	return Result{Op: OpLoad, Status: Succeeded, Images: snap.Images}
}

// Move places the image sourceID at the position currently held by targetID,
// shifting the images in between, and saves the full order. The store is
// updated before the request is sent.
func (s *Service) Move(ctx context.Context, sourceID, targetID string) Result {
	release, ok := s.guard.acquire(OpReorder)
	if !ok {
		return rejected(OpReorder, "A reorder is already being saved.", ErrInFlight)
	}
	defer release()

	if _, err := s.owner(); err != nil {
		return rejected(OpReorder, "Please sign in first.", err)
	}

	moved, ok := state.MoveByID(s.store.Snapshot().Images, sourceID, targetID)
	if !ok {
		return rejected(OpReorder, "That image is no longer in the gallery.", ErrUnknownImage)
	}
	if sourceID == targetID {
		return succeeded(OpReorder, "")
	}
	prev, version, applied := s.store.ReorderAll(moved)
	if !applied {
		return rejected(OpReorder, "The gallery changed, try the move again.", ErrUnknownImage)
	}
	updates := state.OrderUpdates(state.Renumber(moved))

	if err := s.images.ChangeImageOrder(ctx, updates); err != nil {
		s.logger.Warn("save order failed",
			zap.String("source_id", sourceID),
			zap.String("target_id", targetID),
			zap.Error(err))
		res := failed(OpReorder, messageFor(err, "Could not save the new order."), err)
		if s.rollback {
			res.RolledBack = s.undo(ctx, prev, version)
		}
		return res
	}
	s.logger.Info("order saved", zap.String("source_id", sourceID), zap.String("target_id", targetID))
	return succeeded(OpReorder, "")
}

// undo puts back prev when the store is still at version. If something else
// changed the store in the meantime the gallery is reloaded instead.
func (s *Service) undo(ctx context.Context, prev state.Snapshot, version uint64) bool {
	if s.store.RestoreIf(version, prev) {
		return true
	}
	s.logger.Info("store changed during request, reloading")
	return s.Load(ctx).OK()
}

// messageFor prefers the message the service sent over fallback.
func messageFor(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out."
	}
	return fallback
}
