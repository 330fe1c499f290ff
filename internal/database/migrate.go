package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/LucasNunez12345/bot-hexadec/internal/config"
	"github.com/LucasNunez12345/bot-hexadec/internal/logger"
)

// RunMigrations applies all up migrations from the configured directory.
func RunMigrations(cfg config.DatabaseConfig) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
	sourceURL := "file://" + cfg.MigrationsDir

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	start := time.Now()
	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.DB.Error("migration failed",
			slog.String("event", "db.migrate"),
			slog.String("err", upErr.Error()),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	ver, _, _ := m.Version()
	logger.DB.Info("migrations applied",
		slog.String("event", "db.migrate"),
		slog.Uint64("version", uint64(ver)),
		slog.Bool("no_change", errors.Is(upErr, migrate.ErrNoChange)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
