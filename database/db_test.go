package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBUsesWalJournal(t *testing.T) {
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode;").Scan(&mode).Error)
	assert.Equal(t, "wal", strings.ToLower(mode))

	require.NoError(t, Checkpoint())
}
