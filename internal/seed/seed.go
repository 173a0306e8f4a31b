// Package seed runs an administrative SQL script against the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tableadmin/internal/db"
	"tableadmin/internal/logger"
)

// ErrNoScript is returned when no seed file is configured.
var ErrNoScript = errors.New("no seed file configured")

// Run reads the script at path and sends it to the store in a single call.
// Drivers that accept several statements per call (postgres, sqlite, mysql
// with multiStatements) run it as a whole.
func Run(ctx context.Context, ex db.Executor, path string) error {
	if path == "" {
		return ErrNoScript
	}
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	if strings.TrimSpace(string(script)) == "" {
		return fmt.Errorf("seed file %s is empty", path)
	}

	logger.Info("seeding from %s (%d bytes)", path, len(script))
	if _, err := ex.Exec(ctx, string(script)); err != nil {
		return db.Wrap("seed", "", err)
	}
	return nil
}
