package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-events/event-reg/internal/auth"
	"github.com/campus-events/event-reg/internal/cascade"
	"github.com/campus-events/event-reg/internal/clock"
	"github.com/campus-events/event-reg/internal/handlers"
	"github.com/campus-events/event-reg/internal/metrics"
	"github.com/campus-events/event-reg/internal/notifier"
	"github.com/campus-events/event-reg/internal/report"
	"github.com/campus-events/event-reg/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the registration HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	if a.cfg.JWTSecret == "" {
		a.logger.Warn("JWT_SECRET is not set, admin sessions cannot be issued")
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := []workflow.Option{workflow.WithObserver(m), workflow.WithLogger(a.logger)}

	session, err := notifier.NewDiscordSession(a.cfg.DiscordBotToken)
	if err != nil {
		a.logger.Warn("Discord notifier not initialized", slog.String("error", err.Error()))
	} else if session != nil && a.cfg.DiscordNotificationsChannelID != "" {
		opts = append(opts, workflow.WithNotifier(notifier.NewDiscordNotifier(session, a.cfg.DiscordNotificationsChannelID, loc)))
	}

	resolver := cascade.NewResolver(a.catalog, a.cfg.RestrictDatesToOpenWindow)
	wf := workflow.New(a.catalog, resolver, a.store, clock.System, opts...)

	r := chi.NewRouter()
	handlers.RegisterRoutes(r,
		auth.NewAuthHandler(a.cfg),
		handlers.NewRegistrationHandler(wf, m),
		handlers.NewAdminHandler(report.New(a.store, a.catalog, loc), m),
		m.Handler(),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", slog.String("port", a.cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	a.logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
