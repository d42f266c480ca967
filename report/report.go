// Package report renders usage metrics, session lists, and day views for
// the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hako/durafmt"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/stats"
)

const (
	unassignedMark = "-"
	wornNowMark    = "● worn now"
)

// Usage renders one block of metrics per shoe, ordered naturally by
// name.
func Usage(w io.Writer, usages []*stats.Usage) {
	sort.SliceStable(usages, func(i, j int) bool {
		return natural.Less(usages[i].Shoe.Name, usages[j].Shoe.Name)
	})

	for i, u := range usages {
		if i > 0 {
			fmt.Fprintln(w)
		}

		header := u.Shoe.Name
		if u.Active {
			header += "  " + wornNowMark
		}

		fmt.Fprintln(w, pterm.Bold.Sprint(header))
		fmt.Fprintf(w, "  Source:    %s\n", u.Source)
		fmt.Fprintf(
			w,
			"  Distance:  %.2f km of %.2f km (%.1f%% worn)\n",
			u.Distance,
			u.Shoe.LifespanDistance,
			u.WearPct*100, //nolint:gomnd // fraction to percent
		)
		fmt.Fprintf(w, "  Remaining: %.2f km\n", u.Remaining)
		fmt.Fprintf(w, "  Steps:     %d\n", u.Steps)
		fmt.Fprintf(
			w,
			"  Sessions:  %d (%d days with assigned hours)\n",
			u.Sessions,
			u.DaysUsed,
		)
		fmt.Fprintf(w, "  Time worn: %s\n", formatDuration(u.WearingTime))
	}
}

// Day renders the enriched hourly records of a single day. names maps
// shoe ids to display names.
func Day(
	w io.Writer,
	date time.Time,
	records []models.EnrichedRecord,
	names map[string]string,
) {
	fmt.Fprintf(w, "Activity for %s\n\n", date.Format("January 02, 2006"))

	if len(records) == 0 {
		fmt.Fprintln(w, "No activity recorded")
		return
	}

	fmt.Fprintf(w, "%-6s %7s %10s  %s\n", "Hour", "Steps", "Distance", "Shoe")

	for _, r := range records {
		shoe := unassignedMark
		if r.ShoeID != "" {
			if name, ok := names[r.ShoeID]; ok {
				shoe = name
			} else {
				shoe = r.ShoeID
			}
		}

		fmt.Fprintf(
			w,
			"%-6s %7d %7.2f km  %s\n",
			r.Hour.Format("15:04"),
			r.Steps,
			r.Distance,
			shoe,
		)
	}
}

// Sessions renders a table of sessions.
func Sessions(
	w io.Writer,
	sessions []models.Session,
	names map[string]string,
) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found")
		return
	}

	data := [][]string{
		{"#", "Shoe", "Start", "End", "Distance (km)", "Steps", "Auto"},
	}

	for i := range sessions {
		sess := sessions[i]

		end := "active"
		if !sess.Active() {
			end = sess.EndTime.Format("Jan 02 15:04")
		}

		auto := ""

		if sess.AutoStarted {
			auto = "started"
		}

		if sess.AutoClosed {
			if auto != "" {
				auto += ", "
			}

			auto += "closed"
		}

		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			names[sess.ShoeID],
			sess.StartTime.Format("Jan 02 15:04"),
			end,
			fmt.Sprintf("%.2f", sess.Distance),
			fmt.Sprintf("%d", sess.Steps),
			auto,
		})
	}

	printTable(w, data)
}

// Shoes renders a table of shoes ordered naturally by name.
func Shoes(w io.Writer, shoes []models.Shoe) {
	if len(shoes) == 0 {
		fmt.Fprintln(w, "No shoes yet. Add one with: stride shoe add")
		return
	}

	sort.SliceStable(shoes, func(i, j int) bool {
		return natural.Less(shoes[i].Name, shoes[j].Name)
	})

	data := [][]string{
		{"Name", "Lifespan (km)", "Default", "Archived"},
	}

	for i := range shoes {
		shoe := shoes[i]

		mark := func(b bool) string {
			if b {
				return "yes"
			}

			return ""
		}

		data = append(data, []string{
			shoe.Name,
			fmt.Sprintf("%.0f", shoe.LifespanDistance),
			mark(shoe.Default),
			mark(shoe.Archived),
		})
	}

	printTable(w, data)
}

func printTable(w io.Writer, data [][]string) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to render table: %s", err.Error())
		return
	}

	fmt.Fprintln(w, str)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0 minutes"
	}

	//nolint:gomnd // limit to first 2 units
	return durafmt.Parse(d).LimitToUnit("hours").LimitFirstN(2).String()
}
