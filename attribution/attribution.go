// Package attribution owns the hour-to-shoe assignment map. Each clock
// hour holds at most one assignment; writing to an already-assigned hour
// overwrites it (last write wins, no merge).
package attribution

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/demilade/stride/activity"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
	"github.com/demilade/stride/store"
)

// Ledger records which shoe the activity of each hour is assigned to.
type Ledger struct {
	db       store.DB
	clock    activity.Clock
	provider activity.Provider
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithProvider supplies the activity source used to snapshot an hour's
// steps and distance at attribution time.
func WithProvider(p activity.Provider) Option {
	return func(l *Ledger) {
		l.provider = p
	}
}

// NewLedger returns an attribution ledger backed by db.
func NewLedger(db store.DB, clock activity.Clock, opts ...Option) *Ledger {
	l := &Ledger{
		db:    db,
		clock: clock,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Attribute assigns the hour containing t to the shoe. An existing
// assignment for the hour is overwritten. Repeated calls with the same
// arguments converge to the same state.
func (l *Ledger) Attribute(t time.Time, shoe *models.Shoe) error {
	attrs, err := l.build([]time.Time{t}, shoe)
	if err != nil {
		return err
	}

	return l.db.PutAttribution(&attrs[0])
}

// AttributeMany assigns every hour to the shoe in a single store
// transaction: either all buckets are written or none are.
func (l *Ledger) AttributeMany(times []time.Time, shoe *models.Shoe) error {
	if len(times) == 0 {
		return nil
	}

	attrs, err := l.build(times, shoe)
	if err != nil {
		return err
	}

	return l.db.PutAttributions(attrs)
}

func (l *Ledger) build(
	times []time.Time,
	shoe *models.Shoe,
) ([]models.HourAttribution, error) {
	now := l.clock.Now()

	attrs := make([]models.HourAttribution, 0, len(times))
	samples := make(map[int][]models.HourlySample)

	for _, t := range times {
		if t.IsZero() {
			return nil, ErrInvalidHour
		}

		bucket := timeutil.BucketOf(t)

		attr := models.HourAttribution{
			ID:        uuid.NewString(),
			Bucket:    bucket,
			ShoeID:    shoe.ID,
			CreatedAt: now,
		}

		attr.Steps, attr.Distance = l.sampleFor(bucket, samples)

		attrs = append(attrs, attr)
	}

	return attrs, nil
}

// sampleFor snapshots the raw activity recorded in the bucket's hour,
// caching each day's samples to avoid re-reading the provider per hour.
func (l *Ledger) sampleFor(
	bucket timeutil.HourBucket,
	cache map[int][]models.HourlySample,
) (steps int, distance float64) {
	if l.provider == nil || !l.provider.Authorized() {
		return 0, 0
	}

	day := timeutil.DayFormat(bucket.Time())

	daySamples, ok := cache[day]
	if !ok {
		var err error

		daySamples, err = l.provider.HourlySamples(bucket.Time())
		if err != nil {
			// an unreadable source leaves the snapshot at zero
			daySamples = nil
		}

		cache[day] = daySamples
	}

	for _, s := range daySamples {
		if timeutil.BucketOf(s.Hour) == bucket {
			return s.Steps, s.Distance
		}
	}

	return 0, 0
}

// Remove deletes the assignment for the hour containing t. Removing an
// unassigned hour is not an error.
func (l *Ledger) Remove(t time.Time) error {
	if t.IsZero() {
		return ErrInvalidHour
	}

	return l.db.DeleteAttribution(timeutil.BucketOf(t))
}

// RemoveMany deletes the assignment of every given hour.
func (l *Ledger) RemoveMany(times []time.Time) error {
	for _, t := range times {
		err := l.Remove(t)
		if err != nil {
			return err
		}
	}

	return nil
}

// IsAttributed reports whether the hour containing t is assigned.
func (l *Ledger) IsAttributed(t time.Time) (bool, error) {
	attr, err := l.db.GetAttribution(timeutil.BucketOf(t))
	if err != nil {
		return false, err
	}

	return attr != nil, nil
}

// For returns every assignment held by the shoe, ordered by hour.
func (l *Ledger) For(shoe *models.Shoe) ([]models.HourAttribution, error) {
	attrs, err := l.db.AttributionsFor(shoe.ID)
	if err != nil {
		return nil, err
	}

	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Bucket < attrs[j].Bucket
	})

	return attrs, nil
}

// Days returns the distinct calendar days (as yyyymmdd integers, sorted)
// on which the shoe holds at least one assignment.
func (l *Ledger) Days(shoe *models.Shoe) ([]int, error) {
	attrs, err := l.For(shoe)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})

	var days []int

	for i := range attrs {
		day := timeutil.DayFormat(attrs[i].Bucket.Time())
		if _, ok := seen[day]; ok {
			continue
		}

		seen[day] = struct{}{}

		days = append(days, day)
	}

	sort.Ints(days)

	return days, nil
}

// TotalSteps sums the steps of every assignment held by the shoe.
func (l *Ledger) TotalSteps(shoe *models.Shoe) (int, error) {
	attrs, err := l.db.AttributionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	var total int

	for i := range attrs {
		total += attrs[i].Steps
	}

	return total, nil
}

// TotalDistance sums the distance of every assignment held by the shoe.
func (l *Ledger) TotalDistance(shoe *models.Shoe) (float64, error) {
	attrs, err := l.db.AttributionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	var total float64

	for i := range attrs {
		total += attrs[i].Distance
	}

	return total, nil
}

// ApplyTo joins raw hourly samples with the ledger, attaching the
// assigned shoe of each sample's hour. The ledger is not mutated and
// every field of the input samples is preserved.
func (l *Ledger) ApplyTo(
	samples []models.HourlySample,
) ([]models.EnrichedRecord, error) {
	records := make([]models.EnrichedRecord, 0, len(samples))

	for _, sample := range samples {
		record := models.EnrichedRecord{HourlySample: sample}

		attr, err := l.db.GetAttribution(timeutil.BucketOf(sample.Hour))
		if err != nil {
			return nil, err
		}

		if attr != nil {
			record.ShoeID = attr.ShoeID
		}

		records = append(records, record)
	}

	return records, nil
}
