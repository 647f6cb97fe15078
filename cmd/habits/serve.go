// ABOUTME: CLI command for the local HTTP API and websocket live feed.
// ABOUTME: Reloads theme and profile from the config file while running.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/api"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/live"
	"github.com/harperreed/habits/internal/logger"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and live feed",
	Long: `Serve the dashboard engine over HTTP.

ENDPOINTS:

  GET  /health
  GET  /api/dashboard                     Everything the dashboard shows
  GET  /api/habits, POST /api/habits      List or create habits
  PUT  /api/habits/{id}                   {"value": 2300}
  POST /api/habits/reset
  GET  /api/meals, POST /api/meals, PATCH /api/meals/{id}
  GET  /api/notifications, POST /api/notifications/{id}/toggle
  GET  /ws                                Websocket live feed

Edits to the config file's theme and profile apply without a restart.

EXAMPLES:

  habits serve
  habits serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := live.NewHub()
		go hub.Run(ctx)
		detach := hub.Attach(dash)
		defer detach()

		go watchConfig(ctx, hub)

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.New(dash, hub).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		color.Green("✓ Serving on http://%s", addr)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case <-stop:
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server error: %w", err)
			}
		}

		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Warn("server shutdown error", "err", err)
		}
		return nil
	},
}

// watchConfig applies config file edits to the running app and pushes a
// fresh dashboard to live clients.
func watchConfig(ctx context.Context, hub *live.Hub) {
	err := config.Watch(ctx, configFile(),
		func(c *config.Config) {
			dash.ApplyConfig(c)
			logger.Info("config reloaded", "theme", c.Theme)
			hub.Publish(live.MessageTypeSnapshot, dash.Dashboard())
		},
		func(err error) {
			logger.Warn("config reload failed", "err", err)
		})
	if err != nil {
		logger.Warn("config watch stopped", "err", err)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
