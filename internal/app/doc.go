// Package app provides the orchestration layer for the Frame application.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// gallery store and service, the session manager and the UI. It is the
// composition root: every CLI command and the TUI start from Build.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Build()    │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read ~/.config/frame/config.toml
//	       ├─────> prefs.Load()           Theme, delete confirmation, columns
//	       ├─────> logging.New()          zap JSON logger to the log file
//	       ├─────> api.NewClient()        HTTP client with cookie jar
//	       ├─────> gallery.NewService()   Store + reconcilers
//	       └─────> session.Restore()      Signed-in user from disk
//
//	Run():
//	       ├─────> StartPoller()          Background reloads (optional)
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Polling Behavior
//
// When refresh_interval is non-zero the poller reloads the gallery on that
// interval. Failed loads back off exponentially from 2s, capped at 30s, and
// the normal interval resumes after the first success. A tick is skipped
// when nobody is signed in or a load is already running.
package app
