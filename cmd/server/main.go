package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/campus-events/event-reg/internal/catalog"
	"github.com/campus-events/event-reg/internal/config"
	"github.com/campus-events/event-reg/internal/database"
	"github.com/campus-events/event-reg/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "event-reg",
		Short:         "University event registration service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd(), exportCmd())
	return cmd
}

// app holds what both subcommands need once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	catalog *catalog.Catalog
	store   *store.RegistrationStore
}

func setup() (*app, error) {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		catalog: catalog.New(db, loc, logger),
		store:   store.NewRegistrationStore(db),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
