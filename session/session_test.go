package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/testutil"
	"github.com/demilade/stride/session"
	"github.com/demilade/stride/store"
)

func newStore(
	t *testing.T,
	opts ...session.Option,
) (*session.Store, store.DB, *testutil.Clock) {
	t.Helper()

	db := testutil.NewDB(t)
	clock := testutil.NewClock(
		time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	)

	return session.NewStore(db, clock, opts...), db, clock
}

func TestStartEndsEveryOtherSession(t *testing.T) {
	sessions, db, clock := newStore(t)

	shoeA := testutil.NewShoe(t, db, "Pegasus 41")
	shoeB := testutil.NewShoe(t, db, "Vaporfly 3")

	if _, err := sessions.Start(shoeB, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(30 * time.Minute)

	started, err := sessions.Start(shoeA, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := sessions.Active()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(active) != 1 {
		t.Fatalf("expected exactly one active session, got %d", len(active))
	}

	if active[0].ID != started.ID {
		t.Fatal("expected the new session to be the sole active one")
	}

	closed, err := db.SessionsFor(shoeB.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(closed) != 1 {
		t.Fatalf("expected one session for the ended shoe, got %d", len(closed))
	}

	if closed[0].Active() {
		t.Fatal("expected the other shoe's session to be ended")
	}

	if closed[0].AutoClosed {
		t.Fatal("expected a session ended by a new start to not be auto-closed")
	}

	if !closed[0].EndTime.Equal(clock.Now()) {
		t.Fatalf(
			"expected end time %v, got %v",
			clock.Now(),
			closed[0].EndTime,
		)
	}
}

func TestStartArchivedShoe(t *testing.T) {
	sessions, db, _ := newStore(t)

	shoe := testutil.NewShoe(t, db, "Retired")
	shoe.Archived = true

	if err := db.SaveShoe(shoe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := sessions.Start(shoe, false)
	if !errors.Is(err, session.ErrShoeArchived) {
		t.Fatalf("expected ErrShoeArchived, got %v", err)
	}
}

func TestStartTwiceSameShoe(t *testing.T) {
	sessions, db, _ := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := sessions.Start(shoe, false)
	if !errors.Is(err, session.ErrSessionAlreadyActive) {
		t.Fatalf("expected ErrSessionAlreadyActive, got %v", err)
	}
}

func TestEndWithoutActiveSession(t *testing.T) {
	sessions, db, _ := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	err := sessions.End(shoe, false)
	if !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestEndStampsAutoClosed(t *testing.T) {
	sessions, db, clock := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Hour)

	if err := sessions.End(shoe, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := db.SessionsFor(shoe.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(all) != 1 || !all[0].AutoClosed {
		t.Fatalf("expected one auto-closed session, got %+v", all)
	}
}

func TestToggle(t *testing.T) {
	sessions, db, clock := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	started, err := sessions.Toggle(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if started == nil {
		t.Fatal("expected toggle to start a session")
	}

	clock.Advance(10 * time.Minute)

	stopped, err := sessions.Toggle(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stopped != nil {
		t.Fatal("expected toggle to end the session")
	}

	active, err := sessions.ActiveFor(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if active != nil {
		t.Fatal("expected no active session after the second toggle")
	}
}

func TestClosedDurationExcludesActiveSession(t *testing.T) {
	sessions, db, clock := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Hour)

	if err := sessions.End(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Minute)

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(30 * time.Minute)

	total, err := sessions.ClosedDuration(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if total != time.Hour {
		t.Fatalf(
			"expected only the closed hour to count, got %v",
			total,
		)
	}
}

func TestCloseDerivesMetricsFromProvider(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	provider := &testutil.Provider{
		Auth: true,
		Samples: []models.HourlySample{
			{Hour: start, Steps: 3000, Distance: 2.5},
			{Hour: start.Add(time.Hour), Steps: 3000, Distance: 2.5},
			// outside the session window
			{Hour: start.Add(6 * time.Hour), Steps: 9000, Distance: 8},
		},
	}

	sessions, db, clock := newStore(t, session.WithProvider(provider))

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(2 * time.Hour)

	if err := sessions.End(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := db.SessionsFor(shoe.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(all) != 1 {
		t.Fatalf("expected one session, got %d", len(all))
	}

	if all[0].Steps != 6000 {
		t.Fatalf("expected 6000 steps, got %d", all[0].Steps)
	}

	if all[0].Distance != 5.0 {
		t.Fatalf("expected 5.0 km, got %v", all[0].Distance)
	}
}

func TestSessionsOnDay(t *testing.T) {
	sessions, db, clock := newStore(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	if _, err := sessions.Start(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Hour)

	if err := sessions.End(shoe, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today, err := sessions.On(time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(today) != 1 {
		t.Fatalf("expected one session today, got %d", len(today))
	}

	yesterday, err := sessions.On(
		time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(yesterday) != 0 {
		t.Fatalf("expected no sessions yesterday, got %d", len(yesterday))
	}
}
