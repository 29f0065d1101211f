package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labj86/calorie-tracker/internal/config"
	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/persistence/memory"
	"github.com/labj86/calorie-tracker/internal/persistence/postgres"
	"github.com/labj86/calorie-tracker/internal/session"
	"github.com/labj86/calorie-tracker/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	// The terminal owns stdout, so only errors are logged and they go to stderr.
	log, err := logger.New("quiet")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repo domain.Repository = memory.NewRepository()
	if cfg.StorageDriver == config.StoragePostgres {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		repo = postgres.NewRepository(pool)
	}

	sessions := session.NewManager(repo, log)
	defer sessions.Close()

	s, err := sessions.Get(ctx, domain.Owner{TenantID: cfg.LocalTenantID, UserID: cfg.LocalUserID})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(tui.New(ctx, s), tea.WithAltScreen()).Run()
	return err
}
