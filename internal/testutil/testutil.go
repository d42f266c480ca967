// Package testutil provides shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
	"github.com/demilade/stride/store"
)

// NewDB opens a Bolt store in a temporary directory that is removed when
// the test ends.
func NewDB(t *testing.T) *store.Client {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "stride.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// Clock is a settable clock.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{current: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
}

// Set jumps the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = t
}

// Provider is a scriptable activity data source.
type Provider struct {
	Auth    bool
	Samples []models.HourlySample
	Recent  bool
	Err     error
}

func (p *Provider) Authorized() bool {
	return p.Auth
}

func (p *Provider) HourlySamples(
	date time.Time,
) ([]models.HourlySample, error) {
	if p.Err != nil {
		return nil, p.Err
	}

	var result []models.HourlySample

	for _, s := range p.Samples {
		if timeutil.SameDay(s.Hour, date) {
			result = append(result, s)
		}
	}

	return result, nil
}

func (p *Provider) HasActivitySince(_ time.Time) (bool, error) {
	if p.Err != nil {
		return false, p.Err
	}

	return p.Recent, nil
}

// NewShoe persists and returns a shoe with the given name and a 500 km
// lifespan.
func NewShoe(t *testing.T, db store.DB, name string) *models.Shoe {
	t.Helper()

	shoe := &models.Shoe{
		ID:               uuid.NewString(),
		Name:             name,
		LifespanDistance: 500,
		CreatedAt:        time.Now(),
	}

	if err := db.SaveShoe(shoe); err != nil {
		t.Fatalf("saving test shoe: %v", err)
	}

	return shoe
}
