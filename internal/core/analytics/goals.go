package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

// Adaptive adjustment thresholds. Adjustments are proposed, never applied
// automatically; applying one is an explicit caller action.
const (
	adaptiveWindowDays      = 7
	increaseRateThreshold   = 0.90
	increaseValueFactor     = 1.10
	increaseStepFactor      = 0.15
	decreaseRateThreshold   = 0.50
	decreaseMinCompletions  = 3
	decreaseStepFactor      = 0.20
	decreaseFloorFactor     = 0.50
	likelyIncreaseThreshold = 0.80
)

// EffectiveGoal resolves the goal actually in force today under the habit's
// progression mode.
func EffectiveGoal(h *domain.Habit, now time.Time) float64 {
	switch h.GoalProgression {
	case domain.ProgressionRampUp:
		if h.GoalIncrementIntervalDays <= 0 {
			return h.InitialGoal
		}
		days := daysBetween(h.CreatedAt, now)
		if days < 0 {
			days = 0
		}
		goal := h.InitialGoal + float64(days/h.GoalIncrementIntervalDays)*h.GoalIncrement
		if h.DailyGoal != nil && goal > *h.DailyGoal {
			goal = *h.DailyGoal
		}
		return goal
	default:
		// fixed and adaptive both run on the stored daily goal; adaptive
		// only differs in how that value evolves.
		if h.DailyGoal != nil {
			return *h.DailyGoal
		}
		return h.InitialGoal
	}
}

// adaptiveWindow summarizes the trailing 7 calendar days: rest-day-aware
// completion rate, number of completed days, and the average recorded value
// on those days.
func adaptiveWindow(h *domain.Habit, now time.Time) (rate float64, completions int, avgValue float64) {
	loc := now.Location()
	completed := completedDays(h.Completions, loc)
	values := dayValues(h.Completions, loc)

	today := startOfDay(now)
	from := today.AddDate(0, 0, -(adaptiveWindowDays - 1))

	active, done := activeWindow(h, completed, from, today)
	if active > 0 {
		rate = float64(done) / float64(active)
	}

	var sum float64
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		if completed[dayKey(d)] {
			completions++
			sum += values[dayKey(d)]
		}
	}
	if completions > 0 {
		avgValue = sum / float64(completions)
	}

	return rate, completions, avgValue
}

// CheckAdaptiveAdjustment proposes a goal change for an adaptive habit based
// on the trailing week. A nil result means "no adjustment", which is the
// normal outcome, not an error.
func CheckAdaptiveAdjustment(h *domain.Habit, now time.Time) *domain.GoalAdjustmentSuggestion {
	if h.GoalProgression != domain.ProgressionAdaptive {
		return nil
	}

	currentGoal := EffectiveGoal(h, now)
	if currentGoal <= 0 {
		return nil
	}

	rate, completions, avg := adaptiveWindow(h, now)

	if rate > increaseRateThreshold && avg > increaseValueFactor*currentGoal {
		step := math.Min(increaseStepFactor*currentGoal, avg-currentGoal)
		return &domain.GoalAdjustmentSuggestion{
			HabitID:        h.ID,
			Type:           domain.AdjustmentIncrease,
			CurrentGoal:    currentGoal,
			SuggestedGoal:  currentGoal + step,
			CompletionRate: rate,
			AverageValue:   avg,
			Reason:         fmt.Sprintf("You averaged %.0f this week, well above your goal of %.0f", avg, currentGoal),
		}
	}

	if rate < decreaseRateThreshold && completions >= decreaseMinCompletions {
		suggested := currentGoal * (1 - decreaseStepFactor)

		floorBase := h.InitialGoal
		if floorBase <= 0 {
			floorBase = currentGoal
		}
		if floor := decreaseFloorFactor * floorBase; suggested < floor {
			suggested = floor
		}

		return &domain.GoalAdjustmentSuggestion{
			HabitID:        h.ID,
			Type:           domain.AdjustmentDecrease,
			CurrentGoal:    currentGoal,
			SuggestedGoal:  suggested,
			CompletionRate: rate,
			AverageValue:   avg,
			Reason:         "A smaller goal could help you rebuild consistency",
		}
	}

	return nil
}

// ProgressionInfo derives the display summary for a habit's goal state:
// the effective goal, and for ramp-up habits the countdown to the next
// increment, or for adaptive habits a qualitative outlook from the trailing
// week.
func ProgressionInfo(h *domain.Habit, now time.Time) domain.GoalProgressionInfo {
	info := domain.GoalProgressionInfo{
		HabitID:       h.ID,
		Progression:   h.GoalProgression,
		EffectiveGoal: EffectiveGoal(h, now),
	}

	switch h.GoalProgression {
	case domain.ProgressionRampUp:
		if h.GoalIncrementIntervalDays <= 0 {
			info.Message = "Goal stays at its starting value"
			return info
		}

		if h.DailyGoal != nil && info.EffectiveGoal >= *h.DailyGoal {
			info.Message = "Goal has reached its ceiling"
			return info
		}

		days := daysBetween(h.CreatedAt, now)
		if days < 0 {
			days = 0
		}
		until := h.GoalIncrementIntervalDays - days%h.GoalIncrementIntervalDays
		next := info.EffectiveGoal + h.GoalIncrement
		if h.DailyGoal != nil && next > *h.DailyGoal {
			next = *h.DailyGoal
		}

		info.DaysUntilNextChange = &until
		info.NextGoal = &next
		info.Message = fmt.Sprintf("Goal increases to %.0f in %d days", next, until)

	case domain.ProgressionAdaptive:
		rate, _, _ := adaptiveWindow(h, now)
		switch {
		case rate > likelyIncreaseThreshold:
			info.Message = "Strong week, your goal will likely increase"
		case rate < decreaseRateThreshold:
			info.Message = "Tough week, your goal will likely decrease"
		default:
			info.Message = "Your goal is holding steady"
		}

	default:
		info.Message = "Fixed goal"
	}

	return info
}
