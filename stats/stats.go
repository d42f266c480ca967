// Package stats computes per-shoe usage metrics from sessions,
// attributions, and imported legacy entries. All computations are pure
// reads of current store state.
package stats

import (
	"time"

	"github.com/demilade/stride/attribution"
	"github.com/demilade/stride/internal/apperr"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/session"
	"github.com/demilade/stride/store"
)

// ErrBadLifespan guards wear queries against shoes persisted before
// lifespan validation existed.
var ErrBadLifespan = &apperr.Error{
	Message: "%s has a non-positive lifespan distance",
}

// Source selects which data feeds a shoe's aggregated metrics. A shoe
// with any modern data (sessions or attributions) is summed from that
// data alone; only a shoe with none falls back to its legacy entries.
// The two sources are never combined.
type Source int

const (
	SourceModern Source = iota
	SourceLegacy
)

func (s Source) String() string {
	if s == SourceLegacy {
		return "legacy"
	}

	return "sessions"
}

// Engine derives usage metrics for shoes.
type Engine struct {
	db       store.DB
	sessions *session.Store
	ledger   *attribution.Ledger
}

// NewEngine returns an aggregation engine reading from db through the
// session store and attribution ledger.
func NewEngine(
	db store.DB,
	sessions *session.Store,
	ledger *attribution.Ledger,
) *Engine {
	return &Engine{
		db:       db,
		sessions: sessions,
		ledger:   ledger,
	}
}

// Policy determines the aggregation source for the shoe: modern if any
// session or attribution exists, legacy otherwise.
func (e *Engine) Policy(shoe *models.Shoe) (Source, error) {
	count, err := e.sessions.Count(shoe)
	if err != nil {
		return SourceModern, err
	}

	if count > 0 {
		return SourceModern, nil
	}

	attrs, err := e.ledger.For(shoe)
	if err != nil {
		return SourceModern, err
	}

	if len(attrs) > 0 {
		return SourceModern, nil
	}

	return SourceLegacy, nil
}

// TotalDistance returns the shoe's accumulated distance in kilometres
// from its aggregation source.
func (e *Engine) TotalDistance(shoe *models.Shoe) (float64, error) {
	source, err := e.Policy(shoe)
	if err != nil {
		return 0, err
	}

	if source == SourceLegacy {
		entries, err := e.db.LegacyEntriesFor(shoe.ID)
		if err != nil {
			return 0, err
		}

		var total float64

		for i := range entries {
			total += entries[i].Distance
		}

		return total, nil
	}

	sessions, err := e.db.SessionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	var total float64

	for i := range sessions {
		total += sessions[i].Distance
	}

	attributed, err := e.ledger.TotalDistance(shoe)
	if err != nil {
		return 0, err
	}

	return total + attributed, nil
}

// TotalSteps returns the shoe's accumulated steps from its aggregation
// source.
func (e *Engine) TotalSteps(shoe *models.Shoe) (int, error) {
	source, err := e.Policy(shoe)
	if err != nil {
		return 0, err
	}

	if source == SourceLegacy {
		entries, err := e.db.LegacyEntriesFor(shoe.ID)
		if err != nil {
			return 0, err
		}

		var total int

		for i := range entries {
			total += entries[i].Steps
		}

		return total, nil
	}

	sessions, err := e.db.SessionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	var total int

	for i := range sessions {
		total += sessions[i].Steps
	}

	attributed, err := e.ledger.TotalSteps(shoe)
	if err != nil {
		return 0, err
	}

	return total + attributed, nil
}

// WearPercentage returns the consumed fraction of the shoe's estimated
// lifespan distance, clamped to [0, 1].
func (e *Engine) WearPercentage(shoe *models.Shoe) (float64, error) {
	if shoe.LifespanDistance <= 0 {
		return 0, ErrBadLifespan.Fmt(shoe.Name)
	}

	distance, err := e.TotalDistance(shoe)
	if err != nil {
		return 0, err
	}

	pct := distance / shoe.LifespanDistance

	if pct < 0 {
		return 0, nil
	}

	if pct > 1 {
		return 1, nil
	}

	return pct, nil
}

// RemainingDistance returns the shoe's unconsumed lifespan distance,
// floored at zero.
func (e *Engine) RemainingDistance(shoe *models.Shoe) (float64, error) {
	distance, err := e.TotalDistance(shoe)
	if err != nil {
		return 0, err
	}

	remaining := shoe.LifespanDistance - distance
	if remaining < 0 {
		return 0, nil
	}

	return remaining, nil
}

// IsActive reports whether the shoe is currently being worn.
func (e *Engine) IsActive(shoe *models.Shoe) (bool, error) {
	sess, err := e.sessions.ActiveFor(shoe)
	if err != nil {
		return false, err
	}

	return sess != nil, nil
}

// WearingTime returns the shoe's total closed session duration. An open
// session contributes nothing until it closes.
func (e *Engine) WearingTime(shoe *models.Shoe) (time.Duration, error) {
	return e.sessions.ClosedDuration(shoe)
}

// Usage bundles every metric for a shoe for the presentation layer.
type Usage struct {
	Shoe        models.Shoe
	Source      Source
	Distance    float64
	Steps       int
	WearPct     float64
	Remaining   float64
	WearingTime time.Duration
	Sessions    int
	DaysUsed    int
	Active      bool
}

// Usage computes the full metric set for the shoe.
func (e *Engine) Usage(shoe *models.Shoe) (*Usage, error) {
	u := &Usage{Shoe: *shoe}

	var err error

	u.Source, err = e.Policy(shoe)
	if err != nil {
		return nil, err
	}

	u.Distance, err = e.TotalDistance(shoe)
	if err != nil {
		return nil, err
	}

	u.Steps, err = e.TotalSteps(shoe)
	if err != nil {
		return nil, err
	}

	u.WearPct, err = e.WearPercentage(shoe)
	if err != nil {
		return nil, err
	}

	u.Remaining, err = e.RemainingDistance(shoe)
	if err != nil {
		return nil, err
	}

	u.WearingTime, err = e.WearingTime(shoe)
	if err != nil {
		return nil, err
	}

	u.Sessions, err = e.sessions.Count(shoe)
	if err != nil {
		return nil, err
	}

	days, err := e.ledger.Days(shoe)
	if err != nil {
		return nil, err
	}

	u.DaysUsed = len(days)

	u.Active, err = e.IsActive(shoe)
	if err != nil {
		return nil, err
	}

	return u, nil
}
