package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"

	assertlib "github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotTree(rootPath string, takenAt time.Time) *trees.DirectoryTree {
	dt := trees.NewDirectoryTree(rootPath, trees.WithTakenAt(takenAt))
	dt.Root.AddFile(".txt", "a.txt", &trees.FileMetadata{
		SizeBytes:   5,
		ModifiedAt:  1700000000,
		CreatedAt:   1700000000,
		Permissions: trees.Permissions{Mode: "0644", Readable: true, Writable: true},
		ContentType: "text/plain",
		ContentHash: "h-a",
	})
	dt.Root.FileCount = 1
	dt.Root.TotalSizeBytes = 5
	return dt
}

// TestCatalogProviderIntegration tests the actual CatalogProvider implementation
func TestCatalogProviderIntegration(t *testing.T) {
	// Create a temporary directory for the test catalog
	tempDir, err := os.MkdirTemp("", "dirsnap_test_catalog_*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Nested path exercises catalog directory creation
	catalogPath := filepath.Join(tempDir, "state", "catalog.db")

	provider, err := NewCatalogProvider(catalogPath, assertlib.NewAssertHandler())
	require.NoError(t, err)
	defer provider.Close()

	base := time.Unix(1700000000, 0).UTC()

	t.Run("SaveSnapshot", func(t *testing.T) {
		id, err := provider.SaveSnapshot(snapshotTree("/srv/data/alpha", base))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("GetSnapshot", func(t *testing.T) {
		id, err := provider.SaveSnapshot(snapshotTree("/srv/data/alpha", base.Add(time.Hour)))
		require.NoError(t, err)

		retrieved, err := provider.GetSnapshot(id)
		require.NoError(t, err)
		assert.Equal(t, id, retrieved.ID)
		assert.Equal(t, "/srv/data/alpha", retrieved.RootPath)
		assert.WithinDuration(t, base.Add(time.Hour), retrieved.TakenAt, time.Second)
		assert.Contains(t, string(retrieved.TreeState), `"alpha"`)
	})

	t.Run("GetSnapshotMissing", func(t *testing.T) {
		_, err := provider.GetSnapshot(uuid.New())
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("GetLatestSnapshot", func(t *testing.T) {
		betaID, err := provider.SaveSnapshot(snapshotTree("/srv/data/beta", base.Add(2*time.Hour)))
		require.NoError(t, err)
		alphaID, err := provider.SaveSnapshot(snapshotTree("/srv/data/alpha", base.Add(3*time.Hour)))
		require.NoError(t, err)

		// Empty root path matches any root
		latest, err := provider.GetLatestSnapshot("")
		require.NoError(t, err)
		assert.Equal(t, alphaID, latest.ID)

		latest, err = provider.GetLatestSnapshot("/srv/data/beta")
		require.NoError(t, err)
		assert.Equal(t, betaID, latest.ID)

		_, err = provider.GetLatestSnapshot("/srv/data/absent")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("ListSnapshots", func(t *testing.T) {
		snapshots, err := provider.ListSnapshots()
		require.NoError(t, err)

		// Previous subtests saved at least 4 snapshots
		assert.GreaterOrEqual(t, len(snapshots), 4)

		for i := 1; i < len(snapshots); i++ {
			assert.False(t, snapshots[i].TakenAt.After(snapshots[i-1].TakenAt),
				"snapshots should be ordered newest first")
		}
	})

	t.Run("DeleteSnapshot", func(t *testing.T) {
		id, err := provider.SaveSnapshot(snapshotTree("/srv/data/temp", base.Add(4*time.Hour)))
		require.NoError(t, err)

		deleted, err := provider.DeleteSnapshot(id)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = provider.GetSnapshot(id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)

		// Deleting again reports false without an error
		deleted, err = provider.DeleteSnapshot(id)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("RestoreSnapshot", func(t *testing.T) {
		original := snapshotTree("/srv/data/gamma", base.Add(5*time.Hour))
		docs := trees.NewDirectoryNode()
		docs.AddFile(".md", "guide.md", &trees.FileMetadata{
			SizeBytes:   12,
			ModifiedAt:  1700000000,
			CreatedAt:   1700000000,
			Permissions: trees.Permissions{Mode: "0600", Readable: true, Writable: true},
			ContentType: "text/markdown",
			ContentHash: "h-g",
		})
		docs.FileCount = 1
		docs.TotalSizeBytes = 12
		original.Root.AddSubdirectory("docs", docs)
		original.Root.TotalSizeBytes = 17

		id, err := provider.SaveSnapshot(original)
		require.NoError(t, err)

		restored, err := provider.RestoreSnapshot(id)
		require.NoError(t, err)
		assert.Equal(t, "gamma", restored.RootName)
		assert.Equal(t, "/srv/data/gamma", restored.RootPath)
		assert.WithinDuration(t, original.TakenAt, restored.TakenAt, time.Second)
		assert.Equal(t, original.Root, restored.Root)
		assert.Equal(t, 2, restored.FileCount())
	})

	t.Run("RestoreSnapshotMissing", func(t *testing.T) {
		_, err := provider.RestoreSnapshot(uuid.New())
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("Backup", func(t *testing.T) {
		// Default location is a backups directory beside the catalog file
		backupPath, err := provider.Backup("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, "state", "backups"), filepath.Dir(backupPath))

		info, err := os.Stat(backupPath)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))

		// Explicit directory wins over the default
		customDir := filepath.Join(tempDir, "custom_backups")
		backupPath, err = provider.Backup(customDir)
		require.NoError(t, err)
		assert.Equal(t, customDir, filepath.Dir(backupPath))

		_, err = os.Stat(backupPath)
		require.NoError(t, err)
	})
}
