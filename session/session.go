// Package session owns wearing session records and enforces the
// single-active-session invariant: at most one session across the entire
// store is active at any instant, regardless of shoe.
package session

import (
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/demilade/stride/activity"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
	"github.com/demilade/stride/store"
)

// Store exposes atomic start and end transitions for wearing sessions.
type Store struct {
	mu       sync.Mutex
	db       store.DB
	clock    activity.Clock
	provider activity.Provider
	hookCmd  string
	logger   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithProvider supplies the activity source used to derive a session's
// distance and steps when it closes.
func WithProvider(p activity.Provider) Option {
	return func(s *Store) {
		s.provider = p
	}
}

// WithHook sets a command executed after every successful session
// transition.
func WithHook(cmd string) Option {
	return func(s *Store) {
		s.hookCmd = cmd
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore returns a session store backed by db.
func NewStore(db store.DB, clock activity.Clock, opts ...Option) *Store {
	s := &Store{
		db:     db,
		clock:  clock,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start begins a new wearing session for the shoe. Any currently active
// session for any other shoe is ended first, so that at most one session
// is active across the store. The check, the ending of other sessions,
// and the creation of the new session execute under a single lock.
func (s *Store) Start(
	shoe *models.Shoe,
	autoStarted bool,
) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.start(shoe, autoStarted)
}

// End closes the active session for the shoe, stamping its end time and
// deriving its distance and steps from the activity source.
func (s *Store) End(shoe *models.Shoe, autoClosed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.end(shoe, autoClosed)
}

// Toggle ends the shoe's session if one is active, and starts one
// otherwise.
func (s *Store) Toggle(shoe *models.Shoe) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.activeFor(shoe.ID)
	if err != nil {
		return nil, err
	}

	if active != nil {
		return nil, s.end(shoe, false)
	}

	return s.start(shoe, false)
}

func (s *Store) start(
	shoe *models.Shoe,
	autoStarted bool,
) (*models.Session, error) {
	if shoe.Archived {
		return nil, ErrShoeArchived.Fmt(shoe.Name)
	}

	active, err := s.db.ActiveSessions()
	if err != nil {
		return nil, err
	}

	for i := range active {
		if active[i].ShoeID == shoe.ID {
			return nil, ErrSessionAlreadyActive.Fmt(shoe.Name)
		}
	}

	now := s.clock.Now()

	records := make([]*models.Session, 0, len(active)+1)

	for i := range active {
		ended := active[i]
		s.close(&ended, now, false)
		records = append(records, &ended)
	}

	sess := &models.Session{
		ID:          uuid.NewString(),
		ShoeID:      shoe.ID,
		StartTime:   now,
		AutoStarted: autoStarted,
	}
	records = append(records, sess)

	err = s.db.SaveSessions(records)
	if err != nil {
		return nil, err
	}

	s.runHook()

	return sess, nil
}

func (s *Store) end(shoe *models.Shoe, autoClosed bool) error {
	active, err := s.activeFor(shoe.ID)
	if err != nil {
		return err
	}

	if active == nil {
		return ErrNoActiveSession.Fmt(shoe.Name)
	}

	s.close(active, s.clock.Now(), autoClosed)

	err = s.db.SaveSession(active)
	if err != nil {
		return err
	}

	s.runHook()

	return nil
}

// close stamps the session's end time and accumulates its distance and
// steps from the activity source. A provider failure leaves the metrics
// at zero rather than blocking the close.
func (s *Store) close(
	sess *models.Session,
	now time.Time,
	autoClosed bool,
) {
	sess.EndTime = now
	sess.AutoClosed = autoClosed

	if s.provider == nil || !s.provider.Authorized() {
		return
	}

	distance, steps, err := s.accumulate(sess.StartTime, sess.EndTime)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sess.ID).
			Msg("could not derive session metrics from activity source")

		return
	}

	sess.Distance = distance
	sess.Steps = steps
}

// accumulate sums the hourly samples whose hour overlaps [start, end].
func (s *Store) accumulate(
	start, end time.Time,
) (distance float64, steps int, err error) {
	for day := timeutil.RoundToStart(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		samples, err := s.provider.HourlySamples(day)
		if err != nil {
			return 0, 0, err
		}

		for _, sample := range samples {
			if sample.Hour.Add(time.Hour).Before(start) ||
				sample.Hour.After(end) {
				continue
			}

			distance += sample.Distance
			steps += sample.Steps
		}
	}

	return distance, steps, nil
}

func (s *Store) activeFor(shoeID string) (*models.Session, error) {
	active, err := s.db.ActiveSessions()
	if err != nil {
		return nil, err
	}

	for i := range active {
		if active[i].ShoeID == shoeID {
			return &active[i], nil
		}
	}

	return nil, nil
}

// Active returns every active session. Under the store invariant the
// result holds at most one element.
func (s *Store) Active() ([]models.Session, error) {
	return s.db.ActiveSessions()
}

// ActiveFor returns the shoe's active session, or nil if none exists.
func (s *Store) ActiveFor(shoe *models.Shoe) (*models.Session, error) {
	return s.activeFor(shoe.ID)
}

// On returns the sessions started on the given calendar day.
func (s *Store) On(date time.Time) ([]models.Session, error) {
	return s.db.SessionsIn(
		timeutil.RoundToStart(date),
		timeutil.RoundToEnd(date),
	)
}

// Count returns the number of sessions recorded for the shoe.
func (s *Store) Count(shoe *models.Shoe) (int, error) {
	sessions, err := s.db.SessionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	return len(sessions), nil
}

// ClosedDuration sums the durations of the shoe's closed sessions. A
// currently active session contributes nothing until it closes.
func (s *Store) ClosedDuration(shoe *models.Shoe) (time.Duration, error) {
	sessions, err := s.db.SessionsFor(shoe.ID)
	if err != nil {
		return 0, err
	}

	var total time.Duration

	for i := range sessions {
		total += sessions[i].Duration()
	}

	return total, nil
}

// runHook executes the configured session command. Hook failures are
// logged, never returned.
func (s *Store) runHook() {
	if s.hookCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(s.hookCmd)
	if err != nil {
		s.logger.Warn().Err(err).Msg("unable to parse session_cmd option")
		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	err = cmd.Run()
	if err != nil {
		s.logger.Warn().Err(err).Msg("session_cmd failed")
	}
}
