package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/memorychat/internal/session"
	handler "github.com/xiaot623/gogo/memorychat/internal/transport/http"
	"github.com/xiaot623/gogo/memorychat/internal/transport/ws"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd.Context(), opts.envFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			return serve(cmd.Context(), app)
		},
	}
}

func serve(ctx context.Context, app *app) error {
	cfg := app.cfg
	logger := app.logger

	logger.Info().
		Int("port", cfg.Port).
		Str("model", cfg.OpenAIModel).
		Str("storage", cfg.StorageDriver).
		Msg("starting memorychat")

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL(), cfg.Production())
	server, err := handler.NewServer(app.service, sessions, ws.Options{
		PingInterval:   cfg.WSPingInterval(),
		WriteTimeout:   cfg.WSWriteTimeout(),
		ReadTimeout:    cfg.WSReadTimeout(),
		MaxMessageSize: cfg.WSMaxMessageBytes,
	}, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go app.sessions.RunSweeper(sweepCtx, sweepInterval, logger)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Info().Int("port", cfg.Port).Msg("server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	}

	logger.Info().Msg("shutting down memorychat")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	logger.Info().Msg("memorychat stopped")
	return nil
}
