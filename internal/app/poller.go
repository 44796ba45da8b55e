package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/frame/internal/gallery"
)

const (
	defaultPollInterval = 60 * time.Second
	backoffBase         = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Loader reloads the gallery. Implemented by *gallery.Service.
type Loader interface {
	Load(ctx context.Context) gallery.Result
}

// StartPoller launches a background goroutine that reloads the gallery every
// interval, backing off exponentially while loads fail. It returns a channel
// that is closed once the goroutine has exited after ctx is cancelled.
func StartPoller(ctx context.Context, loader Loader, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures = refresh(ctx, loader, failures, logger)
			wait := interval
			if failures > 0 {
				wait = calculateBackoff(failures-1, backoffBase)
			}
			timer.Reset(wait)
		}
	}()
	return done
}

// refresh runs one load and returns the updated failure count. Skipped loads
// (signed out, or a load already running) leave the count unchanged.
func refresh(ctx context.Context, loader Loader, failures int, logger *zap.Logger) int {
	res := loader.Load(ctx)
	switch {
	case res.OK():
		if failures > 0 {
			logger.Info("gallery refresh recovered", zap.Int("failures", failures))
		}
		return 0
	case res.Status == gallery.Rejected:
		if !errors.Is(res.Err, gallery.ErrInFlight) && !errors.Is(res.Err, gallery.ErrNotAuthenticated) {
			logger.Debug("gallery refresh skipped", zap.Error(res.Err))
		}
		return failures
	case ctx.Err() != nil:
		return failures
	default:
		logger.Warn("gallery refresh failed", zap.Int("failures", failures+1), zap.Error(res.Err))
		return failures + 1
	}
}

// calculateBackoff doubles base per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures < 0 {
		failures = 0
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
