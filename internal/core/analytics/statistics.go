package analytics

import (
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

// Calculate derives streaks, completion rate, and today's progress for one
// habit from its completion snapshot. "now" is caller-supplied; all calendar
// arithmetic happens in its location.
func Calculate(h *domain.Habit, now time.Time) domain.HabitStatistics {
	loc := now.Location()
	completed := completedDays(h.Completions, loc)
	values := dayValues(h.Completions, loc)

	today := startOfDay(now)
	goal := EffectiveGoal(h, now)
	todayValue := values[dayKey(today)]

	completedToday := completed[dayKey(today)]
	if h.IsGoalMeasured() && goal > 0 {
		completedToday = todayValue >= goal
	}

	floor := streakFloor(h, loc)

	stats := domain.HabitStatistics{
		HabitID:          h.ID,
		IsCompletedToday: completedToday,
		CurrentStreak:    currentStreak(h, completed, today, floor),
		LongestStreak:    longestStreak(h, completed, today, floor),
		CompletionRate:   completionRate(h, completed, today, loc),
		TodayValue:       todayValue,
		TotalCompletions: len(completed),
	}

	if h.IsGoalMeasured() && goal > 0 {
		stats.TodayProgress = clamp01(todayValue / goal)
	} else if completed[dayKey(today)] {
		stats.TodayProgress = 1.0
	}

	return stats
}

// streakFloor bounds backward day iteration: nothing before the habit
// existed (or before its earliest completion, whichever is older) can be
// part of a streak.
func streakFloor(h *domain.Habit, loc *time.Location) time.Time {
	floor := startOfDay(h.CreatedAt.In(loc))
	for _, c := range h.Completions {
		if d := startOfDay(c.Date.In(loc)); d.Before(floor) {
			floor = d
		}
	}
	return floor
}

// currentStreak counts consecutive completed days ending at the most recent
// completed day (today, or yesterday for a still-open streak). Completed
// days always count; uncompleted rest days are skipped without breaking the
// run, so configuring a rest day never shortens an existing streak.
func currentStreak(h *domain.Habit, completed map[string]bool, today, floor time.Time) int {
	d := today
	if !completed[dayKey(d)] {
		// The streak may still be open: today is unfinished, so anchor at
		// yesterday, stepping over any uncompleted rest days in between.
		d = d.AddDate(0, 0, -1)
		for !d.Before(floor) && h.IsRestDay(d) && !completed[dayKey(d)] {
			d = d.AddDate(0, 0, -1)
		}
	}

	streak := 0
	for !d.Before(floor) {
		switch {
		case completed[dayKey(d)]:
			streak++
		case h.IsRestDay(d):
			// neither breaks nor extends
		default:
			return streak
		}
		d = d.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak is the maximum historical run under the same rest-day-aware
// adjacency rule as currentStreak.
func longestStreak(h *domain.Habit, completed map[string]bool, today, floor time.Time) int {
	best, run := 0, 0
	for d := floor; !d.After(today); d = d.AddDate(0, 0, 1) {
		switch {
		case completed[dayKey(d)]:
			run++
			if run > best {
				best = run
			}
		case h.IsRestDay(d):
			// gap tolerated
		default:
			run = 0
		}
	}
	return best
}

// completionRate is completed non-rest days over non-rest days across the
// habit's lifetime (createdAt through today inclusive). A habit created
// today has a 1-day window; an all-rest window yields 0, never an error.
func completionRate(h *domain.Habit, completed map[string]bool, today time.Time, loc *time.Location) float64 {
	created := startOfDay(h.CreatedAt.In(loc))
	if created.After(today) {
		return 0
	}

	active, done := activeWindow(h, completed, created, today)
	if active == 0 {
		return 0
	}
	return clamp01(float64(done) / float64(active))
}
