package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/sebdah/goldie/v2"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/report"
	"github.com/demilade/stride/stats"
)

func init() {
	pterm.DisableStyling()
}

func TestDayView(t *testing.T) {
	var buf bytes.Buffer

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	records := []models.EnrichedRecord{
		{
			HourlySample: models.HourlySample{
				Hour:     date.Add(9 * time.Hour),
				Steps:    600,
				Distance: 0.52,
			},
			ShoeID: "shoe-1",
		},
		{
			HourlySample: models.HourlySample{
				Hour:     date.Add(14 * time.Hour),
				Steps:    1000,
				Distance: 0.8,
			},
		},
	}

	names := map[string]string{"shoe-1": "Pegasus 41"}

	report.Day(&buf, date, records, names)

	g := goldie.New(t)
	g.Assert(t, "day_view", buf.Bytes())
}

func TestDayViewEmpty(t *testing.T) {
	var buf bytes.Buffer

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	report.Day(&buf, date, nil, nil)

	g := goldie.New(t)
	g.Assert(t, "day_view_empty", buf.Bytes())
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer

	usages := []*stats.Usage{
		{
			Shoe: models.Shoe{
				Name:             "Vaporfly 3",
				LifespanDistance: 400,
			},
			Source:      stats.SourceLegacy,
			Distance:    120,
			Steps:       150000,
			WearPct:     0.3,
			Remaining:   280,
			WearingTime: 90 * time.Minute,
			Sessions:    12,
			DaysUsed:    8,
		},
		{
			Shoe: models.Shoe{
				Name:             "Pegasus 41",
				LifespanDistance: 640,
			},
			Source: stats.SourceModern,
			Active: true,
		},
	}

	report.Usage(&buf, usages)

	out := buf.String()

	// natural ordering puts Pegasus before Vaporfly
	if strings.Index(out, "Pegasus 41") > strings.Index(out, "Vaporfly 3") {
		t.Fatal("expected shoes to be ordered by name")
	}

	for _, want := range []string{
		"● worn now",
		"Source:    legacy",
		"Source:    sessions",
		"120.00 km of 400.00 km (30.0% worn)",
		"Remaining: 280.00 km",
		"Sessions:  12 (8 days with assigned hours)",
		"1 hour 30 minutes",
		"Time worn: 0 minutes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestSessions(t *testing.T) {
	var buf bytes.Buffer

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := []models.Session{
		{
			ShoeID:      "shoe-1",
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
			Distance:    5.2,
			Steps:       6400,
			AutoStarted: true,
			AutoClosed:  true,
		},
		{
			ShoeID:    "shoe-1",
			StartTime: start.Add(2 * time.Hour),
		},
	}

	report.Sessions(&buf, sessions, map[string]string{"shoe-1": "Pegasus 41"})

	out := buf.String()

	for _, want := range []string{
		"Pegasus 41",
		"Mar 10 09:00",
		"started, closed",
		"active",
		"5.20",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestSessionsEmpty(t *testing.T) {
	var buf bytes.Buffer

	report.Sessions(&buf, nil, nil)

	if !strings.Contains(buf.String(), "No sessions found") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestShoes(t *testing.T) {
	var buf bytes.Buffer

	shoes := []models.Shoe{
		{Name: "Vaporfly 3", LifespanDistance: 400, Archived: true},
		{Name: "Pegasus 41", LifespanDistance: 640, Default: true},
	}

	report.Shoes(&buf, shoes)

	out := buf.String()

	for _, want := range []string{"Pegasus 41", "640", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestShoesEmpty(t *testing.T) {
	var buf bytes.Buffer

	report.Shoes(&buf, nil)

	if !strings.Contains(buf.String(), "No shoes yet") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
