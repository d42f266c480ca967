// Package activity defines the boundary to the device activity data
// source and the clock.
package activity

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
)

// Clock supplies the current time. It is injectable so that session and
// auto-management behaviour can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Provider supplies per-hour step and distance samples recorded on the
// device, and an authorization flag.
type Provider interface {
	// Authorized reports whether activity data may be read at all.
	Authorized() bool
	// HourlySamples returns the samples recorded on the given calendar day.
	HourlySamples(date time.Time) ([]models.HourlySample, error)
	// HasActivitySince reports whether any qualifying activity was
	// recorded after t. Used as the default recency predicate for
	// auto-closing stale sessions.
	HasActivitySince(t time.Time) (bool, error)
}

// FileProvider reads hourly samples from an exported JSON file. It stands
// in for the on-device sensor source: health data exports are dropped at
// a configured path and re-read on every query so that new exports are
// picked up without restarting.
type FileProvider struct {
	path string
}

// NewFileProvider returns a provider backed by the samples file at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Authorized reports whether the samples file is readable.
func (p *FileProvider) Authorized() bool {
	if p.path == "" {
		return false
	}

	_, err := os.Stat(p.path)

	return err == nil
}

func (p *FileProvider) load() ([]models.HourlySample, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	var samples []models.HourlySample

	err = json.Unmarshal(b, &samples)
	if err != nil {
		return nil, err
	}

	return samples, nil
}

func (p *FileProvider) HourlySamples(
	date time.Time,
) ([]models.HourlySample, error) {
	samples, err := p.load()
	if err != nil {
		return nil, err
	}

	var result []models.HourlySample

	for _, s := range samples {
		if timeutil.SameDay(s.Hour, date) {
			result = append(result, s)
		}
	}

	return result, nil
}

func (p *FileProvider) HasActivitySince(t time.Time) (bool, error) {
	samples, err := p.load()
	if err != nil {
		return false, err
	}

	for _, s := range samples {
		// a sample qualifies if any part of its hour lies after t
		if s.Steps > 0 && s.Hour.Add(time.Hour).After(t) {
			return true, nil
		}
	}

	return false, nil
}
