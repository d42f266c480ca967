package attribution_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/demilade/stride/attribution"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/testutil"
	"github.com/demilade/stride/internal/timeutil"
	"github.com/demilade/stride/store"
)

func newLedger(
	t *testing.T,
	opts ...attribution.Option,
) (*attribution.Ledger, store.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	clock := testutil.NewClock(
		time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
	)

	return attribution.NewLedger(db, clock, opts...), db
}

func TestAttributeLastWriteWins(t *testing.T) {
	ledger, db := newLedger(t)

	shoe1 := testutil.NewShoe(t, db, "Pegasus 41")
	shoe2 := testutil.NewShoe(t, db, "Vaporfly 3")

	hour := time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)

	if err := ledger.Attribute(hour, shoe1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.Attribute(hour, shoe2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attr, err := db.GetAttribution(timeutil.BucketOf(hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attr == nil || attr.ShoeID != shoe2.ID {
		t.Fatalf("expected the bucket to belong to %s, got %+v", shoe2.Name, attr)
	}

	orphaned, err := ledger.For(shoe1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(orphaned) != 0 {
		t.Fatalf("expected no attributions left for %s", shoe1.Name)
	}
}

func TestAttributeIsIdempotent(t *testing.T) {
	ledger, db := newLedger(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")
	hour := time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := ledger.Attribute(hour, shoe); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	attrs, err := ledger.For(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(attrs) != 1 {
		t.Fatalf("expected exactly one attribution, got %d", len(attrs))
	}
}

func TestAttributeZeroTime(t *testing.T) {
	ledger, db := newLedger(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	err := ledger.Attribute(time.Time{}, shoe)
	if !errors.Is(err, attribution.ErrInvalidHour) {
		t.Fatalf("expected ErrInvalidHour, got %v", err)
	}
}

func TestRemoveAbsentBucket(t *testing.T) {
	ledger, _ := newLedger(t)

	err := ledger.Remove(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected removing an absent bucket to succeed, got %v", err)
	}
}

func TestAttributeManySnapshotsSamples(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	provider := &testutil.Provider{
		Auth: true,
		Samples: []models.HourlySample{
			{Hour: day.Add(9 * time.Hour), Steps: 600, Distance: 0.5},
			{Hour: day.Add(14 * time.Hour), Steps: 1000, Distance: 0.8},
		},
	}

	ledger, db := newLedger(t, attribution.WithProvider(provider))

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	hours := []time.Time{
		day.Add(9*time.Hour + 12*time.Minute),
		day.Add(14*time.Hour + 40*time.Minute),
		day.Add(16 * time.Hour), // no sample recorded
	}

	if err := ledger.AttributeMany(hours, shoe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps, err := ledger.TotalSteps(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if steps != 1600 {
		t.Fatalf("expected 1600 attributed steps, got %d", steps)
	}

	distance, err := ledger.TotalDistance(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if distance != 1.3 {
		t.Fatalf("expected 1.3 attributed km, got %v", distance)
	}

	days, err := ledger.Days(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]int{20240310}, days); diff != "" {
		t.Fatalf("days mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributeManyZeroTimeWritesNothing(t *testing.T) {
	ledger, db := newLedger(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	hours := []time.Time{
		time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		{},
	}

	err := ledger.AttributeMany(hours, shoe)
	if !errors.Is(err, attribution.ErrInvalidHour) {
		t.Fatalf("expected ErrInvalidHour, got %v", err)
	}

	attrs, err := ledger.For(shoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(attrs) != 0 {
		t.Fatal("expected the batch to be rejected as a whole")
	}
}

func TestIsAttributed(t *testing.T) {
	ledger, db := newLedger(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")
	hour := time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)

	ok, err := ledger.IsAttributed(hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatal("expected the hour to be unattributed")
	}

	if err := ledger.Attribute(hour, shoe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// any time in the same hour resolves to the same bucket
	ok, err = ledger.IsAttributed(
		time.Date(2024, 3, 10, 14, 59, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ok {
		t.Fatal("expected the hour to be attributed")
	}
}

func TestApplyToPreservesSamples(t *testing.T) {
	ledger, db := newLedger(t)

	shoe := testutil.NewShoe(t, db, "Pegasus 41")

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	if err := ledger.Attribute(day.Add(9*time.Hour), shoe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	samples := []models.HourlySample{
		{Hour: day.Add(9 * time.Hour), Steps: 600, Distance: 0.5},
		{Hour: day.Add(10 * time.Hour), Steps: 1200, Distance: 1.1},
	}

	records, err := ledger.ApplyTo(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.EnrichedRecord{
		{HourlySample: samples[0], ShoeID: shoe.ID},
		{HourlySample: samples[1]},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}
