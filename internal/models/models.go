// Package models defines the records persisted by the stride data store.
package models

import (
	"time"

	"github.com/demilade/stride/internal/timeutil"
)

// Shoe is a physical item whose usage is tracked per wearing session.
type Shoe struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Archived         bool      `json:"archived"`
	Default          bool      `json:"default"`
	LifespanDistance float64   `json:"lifespan_distance"` // kilometres
	CreatedAt        time.Time `json:"created_at"`
	ArchivedAt       time.Time `json:"archived_at"`
}

// Session is a time interval during which a shoe is recorded as worn.
// A zero EndTime means the session is still active.
type Session struct {
	ID          string    `json:"id"`
	ShoeID      string    `json:"shoe_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	AutoStarted bool      `json:"auto_started"`
	AutoClosed  bool      `json:"auto_closed"`
	Distance    float64   `json:"distance"` // kilometres
	Steps       int       `json:"steps"`
}

// Active reports whether the session has not yet been closed.
func (s *Session) Active() bool {
	return s.EndTime.IsZero()
}

// Duration returns the closed session's length, or zero for an active
// session whose elapsed time is never counted until it closes.
func (s *Session) Duration() time.Duration {
	if s.Active() {
		return 0
	}

	return s.EndTime.Sub(s.StartTime)
}

// HourAttribution assigns the activity recorded in one clock hour to a
// shoe. At most one attribution exists per hour bucket.
type HourAttribution struct {
	ID        string              `json:"id"`
	Bucket    timeutil.HourBucket `json:"bucket"`
	ShoeID    string              `json:"shoe_id"`
	Steps     int                 `json:"steps"`
	Distance  float64             `json:"distance"`
	CreatedAt time.Time           `json:"created_at"`
}

// LegacyEntry is a manual or imported activity record predating the
// session model. It is only read as an aggregation fallback.
type LegacyEntry struct {
	ID        string    `json:"id"`
	ShoeID    string    `json:"shoe_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Steps     int       `json:"steps"`
	Distance  float64   `json:"distance"`
}

// HourlySample is one hour of raw activity data from the activity
// provider.
type HourlySample struct {
	Hour     time.Time `json:"hour"`
	Steps    int       `json:"steps"`
	Distance float64   `json:"distance"`
}

// EnrichedRecord is an hourly sample joined with its shoe assignment.
// ShoeID is empty when the hour is unattributed. This is the read model
// consumed by the presentation layer.
type EnrichedRecord struct {
	HourlySample

	ShoeID string `json:"shoe_id,omitempty"`
}
