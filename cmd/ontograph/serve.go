package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ontograph-ai/ontograph/server"
)

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			opts := server.Options{
				APIKey: os.Getenv("ONTOGRAPH_API_KEY"),
			}
			if origins := os.Getenv("ONTOGRAPH_CORS_ORIGINS"); origins != "" {
				for _, o := range strings.Split(origins, ",") {
					if o = strings.TrimSpace(o); o != "" {
						opts.CORSOrigins = append(opts.CORSOrigins, o)
					}
				}
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      server.New(engine, opts).Handler(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 0, // ingest responses can be long-running
				IdleTimeout:  120 * time.Second,
			}

			done := make(chan os.Signal, 1)
			signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server starting", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-done:
			}

			slog.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("server shutdown error", "error", err)
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
