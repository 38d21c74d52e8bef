package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	account := createTestAccount(t, store, "acct-1")
	txn := createTestTransaction(t, store, account.ID, "txn-1", "SHELL OIL", "-45.99", day(2024, 1, 15))

	dir := filepath.Join(t.TempDir(), "backups")
	info, err := store.Backup(ctx, dir, "before-cleanup", "manual")
	require.NoError(t, err)

	assert.Equal(t, "before-cleanup", info.ID)
	assert.Equal(t, uint(ExpectedSchemaVersion), info.SchemaVersion)
	assert.Equal(t, 1, info.RowCounts["bank_accounts"])
	assert.Equal(t, 1, info.RowCounts["bank_transactions"])
	assert.Positive(t, info.FileSize)
	assert.FileExists(t, filepath.Join(dir, "before-cleanup.meta.json"))

	restored, err := NewSQLiteStorage(info.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = restored.Close() })
	got, err := restored.GetBankTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "SHELL OIL", got.Name)

	_, err = store.Backup(ctx, dir, "before-cleanup", "again")
	assert.ErrorIs(t, err, ErrBackupExists)

	_, err = store.Backup(ctx, dir, "../escape", "")
	assert.ErrorIs(t, err, ErrInvalidBackupID)
}

func TestAutoBackupPrunes(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	dir := t.TempDir()

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, err := store.Backup(ctx, dir, "keep-me", "manual")
	require.NoError(t, err)
	for i := 0; i < MaxAutoBackups+2; i++ {
		_, err := store.AutoBackup(ctx, dir, "migrate")
		require.NoError(t, err)
	}

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, MaxAutoBackups+1)

	auto := 0
	for i, b := range backups {
		if i > 0 {
			assert.True(t, b.CreatedAt.Before(backups[i-1].CreatedAt), "newest first")
		}
		if b.Auto {
			auto++
		}
		assert.FileExists(t, b.Path)
	}
	assert.Equal(t, MaxAutoBackups, auto)
	assert.Equal(t, "keep-me", backups[len(backups)-1].ID)
}

func TestListBackups_MissingDir(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestListBackups_SkipsBadMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.meta.json"), []byte("{"), 0o600))

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Empty(t, backups)
}
