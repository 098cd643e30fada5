package cmd

import (
	"context"
	"fmt"
	"time"

	"clipdesk/infrastructure/bridge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve media operations to the desktop UI over HTTP",
	Long: `Start the local HTTP bridge the desktop UI talks to.

Endpoints:
  GET  /api/health          tool availability
  POST /api/trim            {"input","output","start","duration"}
  POST /api/extract-audio   {"input","output","progress_mode"} streamed as Server-Sent Events
  POST /api/metadata        {"file_path","mode"}
  POST /api/exit            terminate the process

Example:
  clipdesk serve --listen 127.0.0.1:7311`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	addr := serveListen
	if addr == "" {
		addr = cfg.Bridge.Listen
	}

	server := bridge.NewServer(
		newMediaService(cfg, logger),
		bridge.WithLogger(logger),
		bridge.WithCheck("ffmpeg", newTrimmer(cfg, logger).VerifyInstalled),
		bridge.WithCheck("ffprobe", newProber(cfg, logger).VerifyInstalled),
	)

	return RunServe(cmd.Context(), server, addr, exitProcess)
}

// Bridge is the part of bridge.Server the serve loop drives
type Bridge interface {
	Listen(addr string) error
	Shutdown(ctx context.Context) error
	ExitRequested() <-chan struct{}
}

// RunServe listens until ctx is cancelled or the UI requests exit. An exit
// request shuts the server down and then terminates the process with status 0.
func RunServe(ctx context.Context, server Bridge, addr string, exit func(code int)) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(addr)
	}()

	exitRequested := false
	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("bridge stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case <-server.ExitRequested():
		exitRequested = true
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("bridge did not shut down cleanly", zap.Error(err))
	}

	if exitRequested {
		RunExit(exit)
	}
	return nil
}
