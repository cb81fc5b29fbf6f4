package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/dirsnap/dsnap"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Scan     ScanConfig    `mapstructure:"scan"`
	Export   ExportConfig  `mapstructure:"export"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
}

// ScanConfig stores hierarchy builder settings.
type ScanConfig struct {
	MaxDepth    int      `mapstructure:"max_depth"`
	HashWorkers int      `mapstructure:"hash_workers"`
	IgnoreFile  string   `mapstructure:"ignore_file"`
	Extensions  []string `mapstructure:"extensions"`
}

// ExportConfig stores export settings.
type ExportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CatalogConfig stores snapshot catalog settings.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("log_level", "info")
	viper.SetDefault("scan.max_depth", -1)
	viper.SetDefault("scan.hash_workers", 1)
	viper.SetDefault("scan.ignore_file", internal.DefaultIgnoreFile)
	viper.SetDefault("scan.extensions", []string{})
	viper.SetDefault("export.format", "json")
	viper.SetDefault("export.output", "")
	viper.SetDefault("catalog.path", internal.DefaultCatalogPath)

	viper.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. scan.hash_workers becomes DIRSNAP_SCAN_HASH_WORKERS

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
