// Package auto runs the periodic session management policy: closing
// sessions that outlived their activity and starting the default shoe
// when activity is recorded with nothing worn.
package auto

import (
	"context"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/demilade/stride/activity"
	"github.com/demilade/stride/session"
	"github.com/demilade/stride/store"
)

// DefaultInactivityThreshold closes sessions that have seen no activity
// for this long. Overridable in config.
const DefaultInactivityThreshold = 6 * time.Hour

// RecencyFunc reports whether qualifying activity was recorded after the
// given time. The heuristic is deliberately pluggable; the default
// delegates to the activity provider.
type RecencyFunc func(since time.Time) (bool, error)

// Notifier delivers a desktop notification for an automatic transition.
type Notifier func(title, body string) error

// Controller periodically applies the auto-management policy on top of
// the session store.
type Controller struct {
	sessions   *session.Store
	db         store.DB
	provider   activity.Provider
	clock      activity.Clock
	logger     zerolog.Logger
	inactivity time.Duration
	recent     RecencyFunc
	notify     Notifier

	ticking chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithInactivityThreshold overrides the stale-session threshold.
func WithInactivityThreshold(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.inactivity = d
		}
	}
}

// WithRecencyFunc replaces the activity recency predicate.
func WithRecencyFunc(fn RecencyFunc) Option {
	return func(c *Controller) {
		c.recent = fn
	}
}

// WithNotifier enables desktop notifications for auto transitions.
func WithNotifier(fn Notifier) Option {
	return func(c *Controller) {
		c.notify = fn
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// DesktopNotifier posts transitions as system notifications.
func DesktopNotifier(title, body string) error {
	return beeep.Notify(title, body, "")
}

// NewController returns an auto-management controller.
func NewController(
	sessions *session.Store,
	db store.DB,
	provider activity.Provider,
	clock activity.Clock,
	opts ...Option,
) *Controller {
	c := &Controller{
		sessions:   sessions,
		db:         db,
		provider:   provider,
		clock:      clock,
		logger:     zerolog.Nop(),
		inactivity: DefaultInactivityThreshold,
		ticking:    make(chan struct{}, 1),
	}

	c.recent = provider.HasActivitySince

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tick runs one pass of the policy. A tick that would overlap a
// still-running one is skipped: the read-then-decide-then-write sequence
// spans several store calls, so overlapping passes could double-apply
// transitions even though each store call is itself serialized.
func (c *Controller) Tick() {
	select {
	case c.ticking <- struct{}{}:
	default:
		c.logger.Debug().Msg("skipping tick: previous tick still running")
		return
	}

	defer func() { <-c.ticking }()

	now := c.clock.Now()

	c.CloseInactive(now)
	c.StartDefault(now)
}

// Run ticks the policy every interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Tick()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// CloseInactive ends every active session that exceeded the inactivity
// threshold with no qualifying activity since it started. A failure on
// one session is logged and does not prevent checking the rest.
func (c *Controller) CloseInactive(now time.Time) {
	active, err := c.sessions.Active()
	if err != nil {
		c.logger.Error().Err(err).Msg("could not read active sessions")
		return
	}

	for i := range active {
		sess := active[i]

		if now.Sub(sess.StartTime) <= c.inactivity {
			continue
		}

		recent, err := c.recent(sess.StartTime)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("session_id", sess.ID).
				Msg("recency check failed")

			continue
		}

		if recent {
			continue
		}

		shoe, err := c.db.GetShoe(sess.ShoeID)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("session_id", sess.ID).
				Msg("could not resolve session shoe")

			continue
		}

		err = c.sessions.End(shoe, true)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("shoe", shoe.Name).
				Msg("could not auto-close session")

			continue
		}

		c.logger.Info().
			Str("shoe", shoe.Name).
			Time("started", sess.StartTime).
			Msg("auto-closed inactive session")

		c.sendNotification(
			"Session closed",
			shoe.Name+" was put away automatically",
		)
	}
}

// StartDefault starts a session for the default shoe when activity was
// recorded today, nothing is currently worn, and no session has been
// started today.
func (c *Controller) StartDefault(now time.Time) {
	active, err := c.sessions.Active()
	if err != nil {
		c.logger.Error().Err(err).Msg("could not read active sessions")
		return
	}

	if len(active) > 0 {
		return
	}

	if !c.provider.Authorized() {
		return
	}

	moved, err := c.activityToday(now)
	if err != nil {
		c.logger.Error().Err(err).Msg("could not read today's activity")
		return
	}

	if !moved {
		return
	}

	today, err := c.sessions.On(now)
	if err != nil {
		c.logger.Error().Err(err).Msg("could not read today's sessions")
		return
	}

	if len(today) > 0 {
		return
	}

	shoe, err := c.db.DefaultShoe()
	if err != nil {
		c.logger.Error().Err(err).Msg("could not resolve default shoe")
		return
	}

	if shoe == nil {
		return
	}

	_, err = c.sessions.Start(shoe, true)
	if err != nil {
		// losing the race against a direct user action is fine; the
		// policy is re-evaluated next tick
		c.logger.Warn().
			Err(err).
			Str("shoe", shoe.Name).
			Msg("could not auto-start session")

		return
	}

	c.logger.Info().Str("shoe", shoe.Name).Msg("auto-started session")

	c.sendNotification(
		"Session started",
		shoe.Name+" is now tracking today's activity",
	)
}

func (c *Controller) activityToday(now time.Time) (bool, error) {
	samples, err := c.provider.HourlySamples(now)
	if err != nil {
		return false, err
	}

	for _, s := range samples {
		if s.Steps > 0 {
			return true, nil
		}
	}

	return false, nil
}

func (c *Controller) sendNotification(title, body string) {
	if c.notify == nil {
		return
	}

	err := c.notify(title, body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("notification failed")
	}
}
