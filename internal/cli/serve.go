package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/app"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/server"
)

var (
	serveFlags  SourceFlags
	serveListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the endpoint and serve the dashboard over HTTP",
	Long: `Start the refresh loop and serve the dashboard page.

The page updates in place over a websocket after every fetch, and falls
back to polling /fragment when the socket is unavailable.

Examples:
  pollboard serve
  pollboard serve --url https://example.com/api/items --interval 5s
  pollboard serve --listen 0.0.0.0:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveCommand(ctx, serveFlags, serveListen)
	},
}

func init() {
	AddSourceFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to serve on (overrides server.listen)")
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(ctx context.Context, flags SourceFlags, listen string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	session, err := app.New(cfg, logger.NewEnvLogger("[pollboard]"))
	if err != nil {
		return err
	}

	srv := server.New(session, server.Options{})
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	return runServer(ctx, session, srv, ln)
}

// runServer runs the refresh loop and the HTTP server together. Either one
// stopping stops the other.
func runServer(ctx context.Context, session *app.Session, srv *server.Server, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- session.Run(ctx)
	}()

	serveErr := srv.Serve(ctx, ln)
	cancel()
	loopErr := <-loopDone

	if serveErr != nil {
		return serveErr
	}
	return loopErr
}
