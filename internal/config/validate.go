package config

import "time"

var (
	minInactivityThreshold = 30 * time.Minute
	maxInactivityThreshold = 48 * time.Hour

	minAutoInterval = 10 * time.Second
	maxAutoInterval = 1 * time.Hour
)

// Validate performs validation checks on the Config struct and its
// fields.
func (c *Config) Validate() error {
	if c.Auto.InactivityThreshold < minInactivityThreshold ||
		c.Auto.InactivityThreshold > maxInactivityThreshold {
		return errInvalidThreshold.Fmt(
			minInactivityThreshold,
			maxInactivityThreshold,
		)
	}

	if c.Auto.Interval < minAutoInterval ||
		c.Auto.Interval > maxAutoInterval {
		return errInvalidInterval.Fmt(minAutoInterval, maxAutoInterval)
	}

	return nil
}
