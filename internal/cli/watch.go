package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/app"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/ui"
	"github.com/rileyhilliard/pollboard/internal/watch"
)

var watchFlags SourceFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the endpoint and show the dashboard in the terminal",
	Long: `Full-screen terminal dashboard over the same refresh loop as serve.

Keys:
  q, Ctrl+C   quit
  r           refresh now
  j/k, ↑/↓    scroll
  ?           help

Examples:
  pollboard watch
  pollboard watch --url https://example.com/api/items --interval 3s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchCommand(ctx, watchFlags)
	},
}

func init() {
	AddSourceFlags(watchCmd, &watchFlags)
	rootCmd.AddCommand(watchCmd)
}

func watchCommand(ctx context.Context, flags SourceFlags) error {
	if !ui.IsTerminal(os.Stdout) {
		return errors.New(errors.ErrExec,
			"watch needs an interactive terminal",
			"Use 'pollboard fetch' for one-off output, or 'pollboard serve' for the browser dashboard.")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	// The dashboard owns the screen, so log lines would only corrupt it.
	log := logger.Noop()
	if logger.DebugEnabled() {
		log = logger.NewEnvLogger("[pollboard]")
	}

	session, err := app.New(cfg, log, app.WithoutWidget())
	if err != nil {
		return err
	}
	return watch.Run(ctx, session)
}
