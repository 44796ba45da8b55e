package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/frame/internal/config"
	"github.com/five82/frame/internal/devserver"
	"github.com/five82/frame/internal/logging"
	"github.com/five82/frame/internal/logtail"
)

// Demo account seeded by `frame mock-server --demo`.
const (
	demoName     = "demo"
	demoEmail    = "demo@example.com"
	demoPhone    = "5551234567"
	demoPassword = "Demo#1234"
)

func newMockServerCmd() *cobra.Command {
	var (
		addr   string
		demo   bool
		level  string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory gallery service for local development",
		Long: `Runs an in-memory implementation of the gallery service. Accounts and
images live only as long as the process.

Point the client at it with FRAME_API_URL or api_url in config.toml.`,
		Example: `  frame mock-server --demo
  FRAME_API_URL=http://127.0.0.1:8080 frame login --email demo@example.com --password 'Demo#1234'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{Level: level})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv, err := devserver.New(devserver.Options{Secret: []byte(secret), Logger: logger})
			if err != nil {
				return err
			}
			if demo {
				user, err := srv.AddAccount(demoName, demoEmail, demoPhone, demoPassword)
				if err != nil {
					return fmt.Errorf("seed demo account: %w", err)
				}
				logger.Info("demo account ready", zap.String("email", user.Email), zap.String("user_id", user.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "Demo account: %s / %s\n", demoEmail, demoPassword)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Serving on http://"+addr))

			err = srv.Listen(contextOrBackground(cmd.Context()), addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "create a demo account on start")
	cmd.Flags().StringVar(&level, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("FRAME_MOCK_SECRET"), "token signing key (random when empty)")

	return cmd
}

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the client log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			raw, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No log entries in "+cfg.LogFile))
				return nil
			}
			for _, line := range logtail.FormatLines(raw) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show")

	return cmd
}
