// Package cli defines the frame command tree. Without a subcommand it starts
// the terminal UI; the other commands run one gallery or account operation
// against the signed-in session and exit non-zero when it does not succeed.
package cli

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/frame/internal/app"
	"github.com/five82/frame/internal/session"
)

type globalFlags struct {
	configPath string
	prefsPath  string
	verbose    bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath:  g.configPath,
		PrefsPath:   g.prefsPath,
		Verbose:     g.verbose,
		LogToStderr: true,
	}
}

// NewRootCmd builds the frame command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Terminal client for your photo gallery",
		Long: `Frame browses, uploads, edits, deletes and reorders the images in your
photo gallery.

Run without a command to open the full-screen interface, or use one of the
commands below from scripts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(contextOrBackground(cmd.Context()), flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.config/frame/config.toml)")
	cmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/frame/prefs.toml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newTUICmd(flags),
		newLoginCmd(flags),
		newRegisterCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newPasswdCmd(flags),
		newListCmd(flags),
		newUploadCmd(flags),
		newEditCmd(flags),
		newDeleteCmd(flags),
		newMoveCmd(flags),
		newViewCmd(flags),
		newLogsCmd(flags),
		newMockServerCmd(),
	)

	return cmd
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(contextOrBackground(cmd.Context()), flags)
		},
	}
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	return app.Run(ctx, app.Options{
		ConfigPath: flags.configPath,
		PrefsPath:  flags.prefsPath,
		Verbose:    flags.verbose,
	})
}

// errSignedOut is returned by commands that need a session when there is none.
var errSignedOut = errors.New("not signed in; run `frame login` first")

// withDeps wires the application for one command and tears it down after.
func withDeps(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, deps *app.Deps) error) error {
	deps, err := app.Build(flags.options())
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(contextOrBackground(cmd.Context()), deps)
}

// requireSession fails unless the restored session is still usable.
func requireSession(deps *app.Deps) (*session.Session, error) {
	if d := deps.Session.Gate(session.RouteGallery); !d.Allow {
		return nil, errSignedOut
	}
	s := deps.Session.Current()
	if s == nil {
		return nil, errSignedOut
	}
	return s, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
