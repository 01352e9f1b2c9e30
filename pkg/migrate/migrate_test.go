package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnotes/skillnotes-backend/pkg/enums"
)

func TestUpCreatesStorageEntries(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrate_up?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, Up(ctx, db, enums.StorageDriverSQLite))
	// second run is a no-op
	require.NoError(t, Up(ctx, db, enums.StorageDriverSQLite))

	_, err = db.ExecContext(ctx, `INSERT INTO storage_entries (key, value) VALUES ('skillnotes-cart', '[]')`)
	require.NoError(t, err)

	version, err := Version(ctx, db, enums.StorageDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrate_unknown?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = Up(context.Background(), db, enums.StorageDriverRedis)
	assert.Error(t, err)
	assert.Error(t, Up(context.Background(), nil, enums.StorageDriverSQLite))
}
