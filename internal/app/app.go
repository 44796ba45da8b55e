package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/config"
	"github.com/five82/frame/internal/gallery"
	"github.com/five82/frame/internal/logging"
	"github.com/five82/frame/internal/prefs"
	"github.com/five82/frame/internal/session"
	"github.com/five82/frame/internal/state"
	"github.com/five82/frame/internal/ui"
)

// Version is reported in the User-Agent header.
var Version = "dev"

// Options configure the Frame application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/frame/prefs.toml
	Verbose    bool
	// LogToStderr skips the log file; CLI commands use it so errors show up
	// next to their output.
	LogToStderr bool
}

// Deps is the wired object graph shared by the TUI and the CLI commands.
type Deps struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
	Client    *api.Client
	Store     *state.Store
	Gallery   *gallery.Service
	Session   *session.Manager
}

// Build loads configuration and wires every component. A saved session is
// restored so commands run as the signed-in user.
func Build(opts Options) (*Deps, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logOpts := logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: opts.Verbose}
	if opts.LogToStderr {
		logOpts.File = ""
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger.Named("api")),
		api.WithUserAgent("frame/"+Version),
	)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	svc := gallery.NewService(client, store,
		gallery.WithLogger(logger.Named("gallery")),
		gallery.WithRollback(cfg.RollbackOnFailure),
	)
	sessions := session.NewManager(client, client, cfg.SessionPath, logger.Named("session"))

	restored, err := sessions.Restore()
	if err != nil {
		logger.Warn("ignoring unreadable session", zap.String("path", cfg.SessionPath), zap.Error(err))
	}
	if restored != nil {
		svc.SetUser(restored.User)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return &Deps{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    logger,
		Client:    client,
		Store:     store,
		Gallery:   svc,
		Session:   sessions,
	}, nil
}

// Close flushes the logger.
func (d *Deps) Close() {
	if d != nil && d.Logger != nil {
		_ = d.Logger.Sync()
	}
}

// Run boots the Frame TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	deps, err := Build(opts)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pollerDone <-chan struct{}
	if deps.Config.RefreshInterval > 0 {
		pollerDone = StartPoller(ctx, deps.Gallery, deps.Config.RefreshInterval, deps.Logger.Named("poller"))
	}

	deps.Logger.Info("starting tui", zap.String("api_url", deps.Client.BaseURL()))
	err = ui.Run(ui.Options{
		Context:   ctx,
		Gallery:   deps.Gallery,
		Session:   deps.Session,
		Logger:    deps.Logger.Named("ui"),
		LogPath:   deps.Config.LogFile,
		Prefs:     deps.Prefs,
		PrefsPath: deps.PrefsPath,
		APIURL:    deps.Client.BaseURL(),
	})

	cancel()
	if pollerDone != nil {
		<-pollerDone
	}
	return err
}
