package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "nested", "test.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	m := NewMigrationManager(db, zerolog.Nop())

	n, err := m.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = m.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, table := range []string{"users", "vehicles", "vehicle_trips"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestLoadMigrationsSortsAndSkipsBadNames(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"readme.sql":     {Data: []byte("-- not a migration")},
		"notes.txt":      {Data: []byte("ignored")},
	}
	m := NewMigrationManagerFS(openTemp(t), fsys, zerolog.Nop())

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_first", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	_, err := NewMigrationManager(db, zerolog.Nop()).RunMigrations(ctx)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO vehicle_trips (id, vehicle_id, status, start_time, created_at, updated_at)
		VALUES ('t1', 'missing', 'TRIP', 0, 0, 0)`)
	assert.Error(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	_, err := db.ExecContext(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO kv (k) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv (k) VALUES ('b')")
		return err
	}))
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Equal(t, 1, count)
}
