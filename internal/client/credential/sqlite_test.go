package credential

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:credstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS credentials (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
DELETE FROM credentials;
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_GetEmpty(t *testing.T) {
	store := NewSQLiteStore(setupDB(t))

	token, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "first"))
	require.NoError(t, store.Set(ctx, "second"))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestSQLiteStore_DeleteIsIdempotent(t *testing.T) {
	store := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok"))
	require.NoError(t, store.Delete(ctx))
	require.NoError(t, store.Delete(ctx))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestSQLiteStore_TokenReadsStoredValue(t *testing.T) {
	store := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}
