package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

const (
	maxInsights = 15

	streakHighlightDays  = 7
	streakUrgentDays     = 30
	streakAtRiskDays     = 3
	nearRecordGap        = 3
	nearRecordMinStreak  = 5
	patternWindowDays    = 30
	bestWeekdayThreshold = 0.60
	weekendGapThreshold  = 0.15

	weekImprovedThreshold  = 0.10
	weekSurgedThreshold    = 0.25
	weekDeclinedThreshold  = 0.20
	habitImprovedThreshold = 0.50
	habitImprovedMinCount  = 3

	perfectRateThreshold = 0.80
)

var completionMilestones = []int{5000, 2500, 1000, 500, 250, 100, 50}
var milestoneBandWidth = 50
var streakMilestones = map[int]bool{30: true, 60: true, 90: true, 180: true, 365: true}
var ageMilestones = map[int]bool{30: true, 90: true, 180: true, 365: true}

var weekdayNames = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// GenerateInsights scans all habits and returns the ranked list of
// behavioral observations, capped at 15 and sorted descending by priority.
// Ties keep insertion order, so the same snapshot and "now" always produce
// an identical ordered list.
func GenerateInsights(habits []*domain.Habit, now time.Time) []domain.Insight {
	if len(habits) == 0 {
		return []domain.Insight{{
			Type:       domain.InsightTypeMotivation,
			Title:      "Start your first habit",
			Message:    "Add a habit to begin building your streaks",
			Priority:   domain.PriorityHigh,
			IsPositive: true,
			Actionable: true,
		}}
	}

	stats := make(map[string]domain.HabitStatistics, len(habits))
	for _, h := range habits {
		stats[h.ID] = Calculate(h, now)
	}

	var insights []domain.Insight
	insights = append(insights, streakInsights(habits, stats, now)...)
	insights = append(insights, patternInsights(habits, now)...)
	insights = append(insights, milestoneInsights(habits, stats, now)...)
	insights = append(insights, improvementInsights(habits, now)...)
	insights = append(insights, motivationInsights(habits, stats, now)...)

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	return insights
}

func streakInsights(habits []*domain.Habit, stats map[string]domain.HabitStatistics, now time.Time) []domain.Insight {
	var insights []domain.Insight

	var best *domain.Habit
	bestStreak := 0
	for _, h := range habits {
		if s := stats[h.ID].CurrentStreak; s > bestStreak {
			bestStreak = s
			best = h
		}
	}

	if best != nil && bestStreak >= streakHighlightDays {
		priority := domain.PriorityHigh
		if bestStreak >= streakUrgentDays {
			priority = domain.PriorityUrgent
		}
		value := float64(bestStreak)
		insights = append(insights, domain.Insight{
			Type:           domain.InsightTypeStreak,
			Title:          fmt.Sprintf("%d-day streak", bestStreak),
			Message:        fmt.Sprintf("%s is on a %d-day run. Keep it alive!", best.Name, bestStreak),
			Priority:       priority,
			RelatedHabitID: best.ID,
			Value:          &value,
			IsPositive:     true,
		})
	}

	loc := now.Location()
	yesterday := dayKey(startOfDay(now).AddDate(0, 0, -1))

	for _, h := range habits {
		s := stats[h.ID]

		if s.CurrentStreak > streakAtRiskDays && !s.IsCompletedToday && completedDays(h.Completions, loc)[yesterday] {
			value := float64(s.CurrentStreak)
			insights = append(insights, domain.Insight{
				Type:           domain.InsightTypeStreak,
				Title:          "Streak at risk",
				Message:        fmt.Sprintf("Complete %s today to keep your %d-day streak", h.Name, s.CurrentStreak),
				Priority:       domain.PriorityUrgent,
				RelatedHabitID: h.ID,
				Value:          &value,
				IsPositive:     false,
				Actionable:     true,
			})
		}

		gap := s.LongestStreak - s.CurrentStreak
		if gap > 0 && gap <= nearRecordGap && s.CurrentStreak >= nearRecordMinStreak {
			insights = append(insights, domain.Insight{
				Type:           domain.InsightTypeStreak,
				Title:          "Record within reach",
				Message:        fmt.Sprintf("%d more days and %s beats its all-time record", gap, h.Name),
				Priority:       domain.PriorityHigh,
				RelatedHabitID: h.ID,
				IsPositive:     true,
				Actionable:     true,
			})
		}
	}

	return insights
}

// patternInsights aggregates completions by weekday over the trailing 30
// days (or since creation if shorter), skipping per-habit rest days, summed
// across habits.
func patternInsights(habits []*domain.Habit, now time.Time) []domain.Insight {
	loc := now.Location()
	today := startOfDay(now)
	windowStart := today.AddDate(0, 0, -(patternWindowDays - 1))

	var byWeekday [8]domain.DayOfWeekStats

	for _, h := range habits {
		completed := completedDays(h.Completions, loc)
		from := windowStart
		if created := startOfDay(h.CreatedAt.In(loc)); created.After(from) {
			from = created
		}

		for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
			if h.IsRestDay(d) {
				continue
			}
			wd := int(d.Weekday()) + 1
			byWeekday[wd].Weekday = wd
			byWeekday[wd].Possible++
			if completed[dayKey(d)] {
				byWeekday[wd].Completions++
			}
		}
	}

	var insights []domain.Insight

	bestDay := 0
	bestRate := 0.0
	weekendDone, weekendPossible := 0, 0
	weekdayDone, weekdayPossible := 0, 0

	for wd := 1; wd <= 7; wd++ {
		st := byWeekday[wd]
		if st.Possible == 0 {
			continue
		}
		rate := float64(st.Completions) / float64(st.Possible)
		if rate > bestRate {
			bestRate = rate
			bestDay = wd
		}
		if wd == 1 || wd == 7 {
			weekendDone += st.Completions
			weekendPossible += st.Possible
		} else {
			weekdayDone += st.Completions
			weekdayPossible += st.Possible
		}
	}

	if bestDay != 0 && bestRate > bestWeekdayThreshold {
		value := bestRate
		insights = append(insights, domain.Insight{
			Type:       domain.InsightTypePattern,
			Title:      fmt.Sprintf("%ss are your day", weekdayNames[bestDay]),
			Message:    fmt.Sprintf("You complete %.0f%% of your habits on %ss", bestRate*100, weekdayNames[bestDay]),
			Priority:   domain.PriorityMedium,
			Value:      &value,
			IsPositive: true,
		})
	}

	if weekendPossible > 0 && weekdayPossible > 0 {
		weekendRate := float64(weekendDone) / float64(weekendPossible)
		weekdayRate := float64(weekdayDone) / float64(weekdayPossible)
		diff := weekendRate - weekdayRate

		if diff > weekendGapThreshold {
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypePattern,
				Title:      "Weekend warrior",
				Message:    "You are noticeably more consistent on weekends",
				Priority:   domain.PriorityMedium,
				IsPositive: true,
			})
		} else if -diff > weekendGapThreshold {
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypePattern,
				Title:      "Weekday rhythm",
				Message:    "Your weekday routine is stronger than your weekends",
				Priority:   domain.PriorityMedium,
				IsPositive: true,
			})
		}
	}

	return insights
}

func milestoneInsights(habits []*domain.Habit, stats map[string]domain.HabitStatistics, now time.Time) []domain.Insight {
	var insights []domain.Insight

	total := 0
	for _, h := range habits {
		total += stats[h.ID].TotalCompletions
	}

	for _, m := range completionMilestones {
		if total >= m && total < m+milestoneBandWidth {
			priority := domain.PriorityMedium
			if m >= 500 {
				priority = domain.PriorityHigh
			}
			value := float64(total)
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypeMilestone,
				Title:      fmt.Sprintf("%d completions!", m),
				Message:    fmt.Sprintf("You have logged %d habit completions in total", total),
				Priority:   priority,
				Value:      &value,
				IsPositive: true,
			})
			break
		}
	}

	for _, h := range habits {
		if streak := stats[h.ID].CurrentStreak; streakMilestones[streak] {
			value := float64(streak)
			insights = append(insights, domain.Insight{
				Type:           domain.InsightTypeMilestone,
				Title:          fmt.Sprintf("%d days strong", streak),
				Message:        fmt.Sprintf("%s just hit a %d-day streak milestone", h.Name, streak),
				Priority:       domain.PriorityUrgent,
				RelatedHabitID: h.ID,
				Value:          &value,
				IsPositive:     true,
			})
		}
	}

	return insights
}

// isoWeekTotal counts completed calendar days falling in the ISO week of
// ref.
func isoWeekTotal(h *domain.Habit, ref time.Time, loc *time.Location) int {
	year, week := ref.ISOWeek()
	count := 0
	for day := range completedDays(h.Completions, loc) {
		t, err := time.ParseInLocation(dayKeyLayout, day, loc)
		if err != nil {
			continue
		}
		if y, w := t.ISOWeek(); y == year && w == week {
			count++
		}
	}
	return count
}

func improvementInsights(habits []*domain.Habit, now time.Time) []domain.Insight {
	loc := now.Location()
	lastWeekRef := now.AddDate(0, 0, -7)

	thisWeek, lastWeek := 0, 0
	perHabitThis := make(map[string]int, len(habits))
	perHabitLast := make(map[string]int, len(habits))

	for _, h := range habits {
		tw := isoWeekTotal(h, now, loc)
		lw := isoWeekTotal(h, lastWeekRef, loc)
		perHabitThis[h.ID] = tw
		perHabitLast[h.ID] = lw
		thisWeek += tw
		lastWeek += lw
	}

	var insights []domain.Insight

	if lastWeek > 0 {
		change := float64(thisWeek-lastWeek) / float64(lastWeek)

		if change > weekImprovedThreshold {
			priority := domain.PriorityMedium
			if change > weekSurgedThreshold {
				priority = domain.PriorityHigh
			}
			value := change
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypeImprovement,
				Title:      "Momentum building",
				Message:    fmt.Sprintf("Completions are up %.0f%% over last week", change*100),
				Priority:   priority,
				Value:      &value,
				IsPositive: true,
			})
		} else if -change > weekDeclinedThreshold {
			value := change
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypeImprovement,
				Title:      "Slower week",
				Message:    fmt.Sprintf("Completions are down %.0f%% from last week. A small win today turns it around", -change*100),
				Priority:   domain.PriorityMedium,
				Value:      &value,
				IsPositive: false,
				Actionable: true,
			})
		}
	}

	for _, h := range habits {
		tw, lw := perHabitThis[h.ID], perHabitLast[h.ID]
		if lw == 0 || tw < habitImprovedMinCount {
			continue
		}
		if change := float64(tw-lw) / float64(lw); change > habitImprovedThreshold {
			value := change
			insights = append(insights, domain.Insight{
				Type:           domain.InsightTypeImprovement,
				Title:          fmt.Sprintf("%s is taking off", h.Name),
				Message:        fmt.Sprintf("%s improved %.0f%% over last week", h.Name, change*100),
				Priority:       domain.PriorityMedium,
				RelatedHabitID: h.ID,
				Value:          &value,
				IsPositive:     true,
			})
		}
	}

	return insights
}

func motivationInsights(habits []*domain.Habit, stats map[string]domain.HabitStatistics, now time.Time) []domain.Insight {
	var insights []domain.Insight

	allDone := true
	var rateSum float64
	for _, h := range habits {
		s := stats[h.ID]
		if !s.IsCompletedToday {
			allDone = false
		}
		rateSum += s.CompletionRate
	}

	if allDone {
		insights = append(insights, domain.Insight{
			Type:       domain.InsightTypeMotivation,
			Title:      "Perfect day",
			Message:    "Every habit is done for today. Enjoy it!",
			Priority:   domain.PriorityHigh,
			IsPositive: true,
		})
	}

	if avg := rateSum / float64(len(habits)); avg > perfectRateThreshold {
		value := avg
		insights = append(insights, domain.Insight{
			Type:       domain.InsightTypeMotivation,
			Title:      "Remarkable consistency",
			Message:    fmt.Sprintf("Your average completion rate is %.0f%%", avg*100),
			Priority:   domain.PriorityMedium,
			Value:      &value,
			IsPositive: true,
		})
	}

	for _, h := range habits {
		if age := daysBetween(h.CreatedAt, now); ageMilestones[age] {
			value := float64(age)
			insights = append(insights, domain.Insight{
				Type:           domain.InsightTypeMotivation,
				Title:          fmt.Sprintf("%d days of %s", age, h.Name),
				Message:        fmt.Sprintf("You have been tracking %s for %d days", h.Name, age),
				Priority:       domain.PriorityMedium,
				RelatedHabitID: h.ID,
				Value:          &value,
				IsPositive:     true,
			})
		}
	}

	return insights
}
