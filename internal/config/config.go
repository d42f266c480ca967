// Package config loads and validates the stride configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings.
	Config struct {
		DefaultShoe   string             `mapstructure:"default_shoe"`
		Auto          AutoConfig         `mapstructure:"auto"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Activity      ActivityConfig     `mapstructure:"activity"`
		Settings      SettingsConfig     `mapstructure:"settings"`
	}

	// AutoConfig holds auto-management settings.
	AutoConfig struct {
		InactivityThreshold time.Duration `mapstructure:"inactivity_threshold"`
		Interval            time.Duration `mapstructure:"interval"`
	}

	// NotificationConfig holds notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// ActivityConfig holds activity data source settings.
	ActivityConfig struct {
		SamplesFile string `mapstructure:"samples_file"`
	}

	// SettingsConfig holds miscellaneous settings.
	SettingsConfig struct {
		SessionCmd string `mapstructure:"cmd"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	configDir      = "stride"
	configFileName = "config.yml"
	dbFileName     = "stride.db"
	logFileName    = "stride.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the config, database, and log file locations
// from the XDG base directories. STRIDE_ENV suffixes the file names so
// that development data never mixes with real data.
func InitializePaths() {
	strideEnv := strings.TrimSpace(os.Getenv("STRIDE_ENV"))
	if strideEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", strideEnv)
		dbFileName = fmt.Sprintf("stride_%s.db", strideEnv)
		logFileName = fmt.Sprintf("stride_%s.log", strideEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}
