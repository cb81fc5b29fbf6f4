package dsnap

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName names the binary, the config directory, and the env prefix.
	DefaultAppName          = "dirsnap"
	DefaultConfigPath       = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultCatalogPath      = filepath.Join(DefaultConfigPath, "catalog.db")
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// DefaultIgnoreFile is looked up relative to the scan root.
	DefaultIgnoreFile = "." + DefaultAppName + "ignore"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
