// Package commands implements the CLI subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"

	"github.com/wapas/voicerelay/internal/app"
)

// closeContainer releases container resources, logging instead of failing.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes both halves of the migrate instance.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close migrate instance",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}
