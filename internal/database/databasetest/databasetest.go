// Package databasetest opens migrated throwaway databases for tests.
package databasetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/fleet-tracker-go/internal/database"
)

// Open returns a fully migrated database in t's temp dir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: filepath.Join(t.TempDir(), "fleet.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrationManager(db, zerolog.Nop()).RunMigrations(ctx)
	require.NoError(t, err)
	return db
}
