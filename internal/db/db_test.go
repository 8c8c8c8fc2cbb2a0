package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func countSnapshots(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tree_snapshots`).Scan(&n))
	return n
}

func insertSnapshot(ctx context.Context, tx DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tree_snapshots (id, cycle_id, objective_id, payload, fetched_at) VALUES (?, 1, ?, 'null', '2026-01-01T00:00:00Z')`,
		id, len(id))
	return err
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesSnapshotTable(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"tree_snapshots", "idx_tree_snapshots_key", "idx_tree_snapshots_fetched"} {
		var got string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE name = ?`, name).Scan(&got)
		require.NoError(t, err, name)
	}

	var source string
	require.NoError(t, insertSnapshot(context.Background(), db, "a"))
	require.NoError(t, db.QueryRow(`SELECT source FROM tree_snapshots WHERE id = 'a'`).Scan(&source))
	assert.Equal(t, "api", source)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	assert.FileExists(t, path)
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	db := openTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		return insertSnapshot(ctx, tx, "k1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countSnapshots(t, db))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	db := openTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := insertSnapshot(ctx, tx, "k2"); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countSnapshots(t, db))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	db := openTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			_ = insertSnapshot(ctx, tx, "k3")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countSnapshots(t, db))
}
