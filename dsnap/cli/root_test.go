package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config file pinning the catalog into dir, so
// tests never touch the user's real catalog.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	content := fmt.Sprintf("log_level: error\ncatalog:\n  path: %q\n",
		filepath.Join(dir, "catalog.db"))
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))
	return cfgFile
}

// executeCommand runs the root command with the given args and captures its
// combined output.
func executeCommand(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	// Viper is a singleton; clear state left by a previous execution
	viper.Reset()

	buf := new(bytes.Buffer)
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// writeScanFixture lays out a small directory tree:
//
//	root/
//	├── a.txt, b.txt (identical content)
//	└── docs/guide.md
func writeScanFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha content"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("alpha content"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "guide.md"), []byte("# guide\n"), 0o644))
	return root
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dirsnap", cmd.Use)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "dirsnap")
	assert.Contains(t, output, "snapshot")

	// Every subcommand shows up in the help listing
	for _, name := range []string{"scan", "summary", "query", "snapshots"} {
		assert.Contains(t, output, name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "dirsnap version")
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	cfgFile := writeTestConfig(t, t.TempDir())

	_, err := executeCommand(t, cfgFile, "frobnicate")
	assert.Error(t, err)
}
