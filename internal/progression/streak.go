// Package progression holds the pure progression rules: streak arithmetic,
// growth stages, the badge catalog, and the item store price table. Nothing
// here touches the database or the clock; callers pass dates in.
package progression

import (
	"sort"
	"time"
)

// PointsPerJournal is granted for every accepted submission.
const PointsPerJournal = 10

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// AdvanceResult is the outcome of advancing a streak by one submission.
type AdvanceResult struct {
	Streak         int
	FreezeConsumed bool
	// FrozenDate is the missed day a freezer bridged, zero unless
	// FreezeConsumed is set.
	FrozenDate time.Time
}

// AdvanceStreak computes the streak after a submission on today. lastDate is
// the previous journal day (nil for a first-ever entry). A gap of exactly one
// missed day is bridged when a freezer is available; the bridged day counts
// toward the streak. Any wider gap, or a one-day gap with no freezer, resets
// the streak to 1 since today itself counts.
func AdvanceStreak(lastDate *time.Time, current, freezers int, today time.Time) AdvanceResult {
	today = Day(today)

	if lastDate == nil {
		return AdvanceResult{Streak: 1}
	}

	switch gap := DaysBetween(*lastDate, today); {
	case gap <= 0:
		// Same day resubmission is blocked by the ledger before we get
		// here; keep the streak unchanged.
		return AdvanceResult{Streak: current}
	case gap == 1:
		return AdvanceResult{Streak: current + 1}
	case gap == 2 && freezers > 0:
		return AdvanceResult{
			Streak:         current + 2,
			FreezeConsumed: true,
			FrozenDate:     Day(*lastDate).AddDate(0, 0, 1),
		}
	default:
		return AdvanceResult{Streak: 1}
	}
}

// RecomputeStreak re-derives the streak from the full set of qualifying days
// (journal days plus freezer-bridged days). It counts the consecutive run
// ending at today, or at yesterday if today has no qualifying day yet; an
// older run is broken and yields 0.
func RecomputeStreak(qualifying []time.Time, today time.Time) int {
	if len(qualifying) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(qualifying))
	for _, d := range qualifying {
		days[Day(d)] = true
	}

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today = Day(today)
	last := dates[0]
	if DaysBetween(last, today) > 1 {
		return 0
	}

	streak := 1
	for cursor := last.AddDate(0, 0, -1); days[cursor]; cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
