package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyDefaultShoe         = "default_shoe"
	keyInactivityThreshold = "auto.inactivity_threshold"
	keyAutoInterval        = "auto.interval"
	keyNotificationsOn     = "notifications.enabled"
	keySamplesFile         = "activity.samples_file"
	keySessionCmd          = "settings.cmd"
)

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return v.Unmarshal(c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return v.Unmarshal(c)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDefaultShoe, "")
	v.SetDefault(keyInactivityThreshold, "6h")
	v.SetDefault(keyAutoInterval, "5m")
	v.SetDefault(keyNotificationsOn, true)
	v.SetDefault(keySamplesFile, "")
	v.SetDefault(keySessionCmd, "")
}

// WithDefaultShoe overrides the configured default shoe.
func WithDefaultShoe(name string) Option {
	return func(c *Config) error {
		if name != "" {
			c.DefaultShoe = name
		}

		return nil
	}
}

// WithSamplesFile overrides the configured activity samples file.
func WithSamplesFile(path string) Option {
	return func(c *Config) error {
		if path != "" {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("activity samples file: %w", err)
			}

			c.Activity.SamplesFile = path
		}

		return nil
	}
}
