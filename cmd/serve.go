package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/kozaktomas/face-watch/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run recognition and expose results over HTTP",
	Long: `Run the live recognition loop and serve the latest per-frame results
as JSON for out-of-process renderers.

Endpoints:
  GET /healthz      liveness check
  GET /api/results  latest per-frame recognition results
  GET /api/gallery  summary of the loaded gallery`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("source", "", "Video source: camera index or stream URL (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, g, teardown, err := buildSession(ctx, cfg, mustGetString(cmd, "source"))
	if err != nil {
		return err
	}
	defer teardown()

	server := web.NewServer(session, g, host, port)

	sessionErr := make(chan error, 1)
	go func() {
		sessionErr <- session.Run(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Serving recognition results on %s:%d (session %s)\n", host, port, session.ID())
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		fmt.Println("\nShutting down...")
	case err := <-sessionErr:
		if err != nil {
			fmt.Printf("Recognition session failed: %v\n", err)
		}
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
