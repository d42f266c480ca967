package store

import (
	"time"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
)

// DB is the database storage interface.
type DB interface {
	// SaveShoe creates or overwrites a shoe record.
	SaveShoe(shoe *models.Shoe) error
	// GetShoe returns the shoe with the given id.
	GetShoe(id string) (*models.Shoe, error)
	// ShoeByName returns the shoe with the given name.
	ShoeByName(name string) (*models.Shoe, error)
	// ListShoes returns all shoes.
	ListShoes() ([]models.Shoe, error)
	// DefaultShoe returns the designated default shoe, or nil if no
	// shoe is marked as the default.
	DefaultShoe() (*models.Shoe, error)

	// SaveSession creates or overwrites a session record.
	SaveSession(sess *models.Session) error
	// SaveSessions writes several session records in one transaction.
	SaveSessions(sessions []*models.Session) error
	// ActiveSessions returns every session without an end time.
	ActiveSessions() ([]models.Session, error)
	// SessionsFor returns all sessions recorded for a shoe.
	SessionsFor(shoeID string) ([]models.Session, error)
	// SessionsIn returns sessions started within the time bounds.
	SessionsIn(startTime, endTime time.Time) ([]models.Session, error)

	// PutAttribution creates or overwrites the attribution for its
	// hour bucket.
	PutAttribution(a *models.HourAttribution) error
	// PutAttributions writes several attributions in one transaction.
	PutAttributions(attrs []models.HourAttribution) error
	// GetAttribution returns the attribution for the bucket, or nil if
	// the bucket is unattributed.
	GetAttribution(bucket timeutil.HourBucket) (*models.HourAttribution, error)
	// DeleteAttribution removes the attribution for the bucket. Absent
	// buckets are not an error.
	DeleteAttribution(bucket timeutil.HourBucket) error
	// AttributionsFor returns all attributions assigned to a shoe.
	AttributionsFor(shoeID string) ([]models.HourAttribution, error)

	// SaveLegacyEntry stores an imported pre-session activity record.
	SaveLegacyEntry(entry *models.LegacyEntry) error
	// LegacyEntriesFor returns the imported records for a shoe.
	LegacyEntriesFor(shoeID string) ([]models.LegacyEntry, error)

	// Close ends the database connection.
	Close() error
}
