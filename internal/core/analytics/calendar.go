// Package analytics is the pure computation layer of the engine: streak and
// completion statistics, goal progression, behavioral insights, habit
// suggestions, and chain progress. Every entry point is a deterministic
// function of a habit snapshot and an explicit "now"; nothing here performs
// I/O or holds hidden state, so results are recomputed on demand instead of
// cached.
package analytics

import (
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

const dayKeyLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, truncating. Negative when b
// precedes a. Both dates are re-anchored as civil dates in UTC before
// subtracting, so a span crossing a DST transition still counts whole days.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// completedDays de-duplicates completions onto calendar days in loc. The
// persistence layer does not guarantee one completion per day, so every
// streak and rate computation starts from this set.
func completedDays(completions []*domain.HabitCompletion, loc *time.Location) map[string]bool {
	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[dayKey(c.Date.In(loc))] = true
	}
	return days
}

// dayValues accumulates recorded values per calendar day in loc.
func dayValues(completions []*domain.HabitCompletion, loc *time.Location) map[string]float64 {
	values := make(map[string]float64, len(completions))
	for _, c := range completions {
		values[dayKey(c.Date.In(loc))] += c.Value
	}
	return values
}

// activeWindow reports, for the inclusive day range [from, to], how many
// days are non-rest for the habit and how many of those were completed.
// The same rest-day-aware loop backs completion rates in statistics, the
// adaptive goal window, and insight patterns.
func activeWindow(h *domain.Habit, completed map[string]bool, from, to time.Time) (activeDays, completedCount int) {
	for d := startOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if h.IsRestDay(d) {
			continue
		}
		activeDays++
		if completed[dayKey(d)] {
			completedCount++
		}
	}
	return activeDays, completedCount
}

// clamp01 bounds a ratio to [0, 1]; denominator guards elsewhere ensure we
// never divide by zero.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
