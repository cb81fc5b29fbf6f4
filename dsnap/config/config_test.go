package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/dirsnap/dsnap"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	// Viper is a singleton; clear any state left by a previous test
	viper.Reset()

	// Save original directory
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	// Create temporary directory for testing
	tempDir, err := os.MkdirTemp("", "dirsnap-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	// Change to temp directory so no stray config.yaml is picked up
	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	// Change back to original directory
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}

	// Clean up temporary directory
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	// Load config without config file (should use defaults)
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "info", cfg.LogLevel)
	assert.Equal(suite.T(), -1, cfg.Scan.MaxDepth)
	assert.Equal(suite.T(), 1, cfg.Scan.HashWorkers)
	assert.Equal(suite.T(), internal.DefaultIgnoreFile, cfg.Scan.IgnoreFile)
	assert.Empty(suite.T(), cfg.Scan.Extensions)
	assert.Equal(suite.T(), "json", cfg.Export.Format)
	assert.Equal(suite.T(), "", cfg.Export.Output)
	assert.Equal(suite.T(), internal.DefaultCatalogPath, cfg.Catalog.Path)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	// Create a test config file
	configContent := `
log_level: debug

scan:
  max_depth: 3
  hash_workers: 4
  ignore_file: ".customignore"
  extensions:
    - txt
    - pdf

export:
  format: csv
  output: "out.csv"

catalog:
  path: "state/catalog.db"
`

	configFile := filepath.Join(suite.tempDir, "config.yaml")
	err := os.WriteFile(configFile, []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	// Load config from file
	cfg, err := LoadConfig(configFile)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	// Test that values were loaded from file
	assert.Equal(suite.T(), "debug", cfg.LogLevel)
	assert.Equal(suite.T(), 3, cfg.Scan.MaxDepth)
	assert.Equal(suite.T(), 4, cfg.Scan.HashWorkers)
	assert.Equal(suite.T(), ".customignore", cfg.Scan.IgnoreFile)
	assert.Equal(suite.T(), []string{"txt", "pdf"}, cfg.Scan.Extensions)
	assert.Equal(suite.T(), "csv", cfg.Export.Format)
	assert.Equal(suite.T(), "out.csv", cfg.Export.Output)
	assert.Equal(suite.T(), "state/catalog.db", cfg.Catalog.Path)
}

func (suite *ConfigTestSuite) TestLoadConfigFromWorkingDirectory() {
	// A config.yaml in the working directory is picked up without an
	// explicit path
	configContent := "log_level: warn\n"
	err := os.WriteFile(filepath.Join(suite.tempDir, "config.yaml"), []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "warn", cfg.LogLevel)

	// Unset keys still fall back to defaults
	assert.Equal(suite.T(), -1, cfg.Scan.MaxDepth)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv("DIRSNAP_LOG_LEVEL", "debug")
	suite.T().Setenv("DIRSNAP_SCAN_HASH_WORKERS", "8")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "debug", cfg.LogLevel)
	assert.Equal(suite.T(), 8, cfg.Scan.HashWorkers)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidFile() {
	// An explicit non-existent path is an error, unlike the search path case
	cfg, err := LoadConfig(filepath.Join(suite.tempDir, "missing", "config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	// Create a malformed config file
	malformedContent := `
scan:
  extensions: [unclosed bracket
`

	configFile := filepath.Join(suite.tempDir, "malformed.yaml")
	err := os.WriteFile(configFile, []byte(malformedContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestAppConfigGlobal() {
	// Test that AppConfig global variable is set after loading
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), cfg.LogLevel, AppConfig.LogLevel)
	assert.Equal(suite.T(), cfg.Catalog.Path, AppConfig.Catalog.Path)
}
