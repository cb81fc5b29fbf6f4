package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snapshotIDPattern = regexp.MustCompile(`Snapshot ([0-9a-f-]{36}) saved to catalog`)

// TestSnapshotsLifecycle drives a snapshot through the whole catalog
// surface: save, list, show, re-export, backup, prune.
func TestSnapshotsLifecycle(t *testing.T) {
	workDir := t.TempDir()
	cfgFile := writeTestConfig(t, workDir)
	root := writeScanFixture(t)

	output, err := executeCommand(t, cfgFile, "snapshots", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No snapshots in catalog")

	output, err = executeCommand(t, cfgFile, "scan", root, "--save")
	require.NoError(t, err)
	match := snapshotIDPattern.FindStringSubmatch(output)
	require.Len(t, match, 2, "scan --save should report the new snapshot ID")
	id := match[1]

	output, err = executeCommand(t, cfgFile, "snapshots", "list")
	require.NoError(t, err)
	assert.Contains(t, output, id)
	assert.Contains(t, output, root)

	output, err = executeCommand(t, cfgFile, "snapshots", "show", id)
	require.NoError(t, err)
	assert.Contains(t, output, "Root path:   "+root)
	assert.Contains(t, output, "Files:       3")
	assert.Contains(t, output, "Directories: 1")

	output, err = executeCommand(t, cfgFile, "snapshots", "show", id, "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"id":"`+id+`"`)
	assert.Contains(t, output, `"root_path"`)
	assert.Contains(t, output, `"tree_state"`)

	// A catalogued snapshot re-exports without rescanning the directory
	reportPath := filepath.Join(workDir, "report.html")
	output, err = executeCommand(t, cfgFile, "snapshots", "show", id, "--export", reportPath, "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, output, "Snapshot re-exported to "+reportPath)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "<!DOCTYPE html>")
	assert.Contains(t, string(report), "guide.md")

	backupDir := filepath.Join(workDir, "bak")
	output, err = executeCommand(t, cfgFile, "snapshots", "backup", backupDir)
	require.NoError(t, err)
	assert.Contains(t, output, "Catalog backed up to "+backupDir)

	output, err = executeCommand(t, cfgFile, "snapshots", "prune", id)
	require.NoError(t, err)
	assert.Contains(t, output, "Snapshot "+id+" deleted")

	_, err = executeCommand(t, cfgFile, "snapshots", "prune", id)
	assert.ErrorIs(t, err, catalog.ErrSnapshotNotFound)
}

func TestSnapshotsShow_InvalidID(t *testing.T) {
	cfgFile := writeTestConfig(t, t.TempDir())

	_, err := executeCommand(t, cfgFile, "snapshots", "show", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid snapshot ID")
}

func TestSnapshotsShow_MissingSnapshot(t *testing.T) {
	cfgFile := writeTestConfig(t, t.TempDir())

	_, err := executeCommand(t, cfgFile, "snapshots", "show", "0b5e0896-3581-4762-9223-671a5b0a0c7a")
	assert.ErrorIs(t, err, catalog.ErrSnapshotNotFound)
}
