package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))
	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Greater(t, applied, 0)

	// A second run finds everything recorded and applies nothing.
	require.NoError(t, Migrate(db, nil))
	var after int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after))
	assert.Equal(t, applied, after)
}

func TestMigrateCreatesChatTables(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db, nil))

	for _, table := range []string{"chat_sessions", "chat_messages"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).
			Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}
