package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoapps/habitpulse-engine/internal/core/analytics"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

func findInsight(insights []domain.Insight, title string) *domain.Insight {
	for i := range insights {
		if insights[i].Title == title {
			return &insights[i]
		}
	}
	return nil
}

func TestGenerateInsights_Empty(t *testing.T) {
	t.Run("Edge Case: no habits yields a single starter insight", func(t *testing.T) {
		insights := analytics.GenerateInsights(nil, testNow)

		require.Len(t, insights, 1)
		assert.Equal(t, domain.PriorityHigh, insights[0].Priority)
		assert.True(t, insights[0].IsPositive)
		assert.True(t, insights[0].Actionable)
	})
}

func TestGenerateInsights_Streaks(t *testing.T) {
	t.Run("Success: best streak of a week is highlighted", func(t *testing.T) {
		h := habitWithCompletions("Read", day(-30),
			day(0), day(-1), day(-2), day(-3), day(-4), day(-5), day(-6), day(-7))

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		streak := findInsight(insights, "8-day streak")
		require.NotNil(t, streak)
		assert.Equal(t, domain.PriorityHigh, streak.Priority)
		assert.Equal(t, h.ID, streak.RelatedHabitID)
	})

	t.Run("Success: month-long streak is urgent", func(t *testing.T) {
		var days []time.Time
		for i := 0; i < 31; i++ {
			days = append(days, day(-i))
		}
		h := habitWithCompletions("Read", day(-40), days...)

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		streak := findInsight(insights, "31-day streak")
		require.NotNil(t, streak)
		assert.Equal(t, domain.PriorityUrgent, streak.Priority)
	})

	t.Run("Success: unfinished today with a live streak is at risk", func(t *testing.T) {
		h := habitWithCompletions("Read", day(-30),
			day(-1), day(-2), day(-3), day(-4), day(-5))

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		risk := findInsight(insights, "Streak at risk")
		require.NotNil(t, risk)
		assert.Equal(t, domain.PriorityUrgent, risk.Priority)
		assert.True(t, risk.Actionable)
		assert.False(t, risk.IsPositive)
	})

	t.Run("Success: closing in on the record is actionable", func(t *testing.T) {
		h := habitWithCompletions("Read", day(-40),
			// current run of 6, historical best of 8
			day(0), day(-1), day(-2), day(-3), day(-4), day(-5),
			day(-20), day(-21), day(-22), day(-23), day(-24), day(-25), day(-26), day(-27))

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		record := findInsight(insights, "Record within reach")
		require.NotNil(t, record)
		assert.Equal(t, domain.PriorityHigh, record.Priority)
	})
}

func TestGenerateInsights_Milestones(t *testing.T) {
	t.Run("Success: total completions crossing a band", func(t *testing.T) {
		var days []time.Time
		for i := 0; i < 52; i++ {
			days = append(days, day(-i*2)) // every other day, no streak noise
		}
		h := habitWithCompletions("Read", day(-110), days...)

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		milestone := findInsight(insights, "50 completions!")
		require.NotNil(t, milestone)
		assert.Equal(t, domain.PriorityMedium, milestone.Priority)
	})

	t.Run("Success: exact streak milestone is urgent", func(t *testing.T) {
		var days []time.Time
		for i := 0; i < 30; i++ {
			days = append(days, day(-i))
		}
		h := habitWithCompletions("Read", day(-40), days...)

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		milestone := findInsight(insights, "30 days strong")
		require.NotNil(t, milestone)
		assert.Equal(t, domain.PriorityUrgent, milestone.Priority)
	})
}

func TestGenerateInsights_Improvement(t *testing.T) {
	t.Run("Success: strong week over week growth", func(t *testing.T) {
		// testNow falls in ISO week Mon Jun 10 - Sun Jun 16.
		h := habitWithCompletions("Read", day(-30),
			day(-1), day(-2), day(-3), day(-4), day(-5), // five this week
			day(-8), day(-11)) // two last week

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		momentum := findInsight(insights, "Momentum building")
		require.NotNil(t, momentum)
		assert.Equal(t, domain.PriorityHigh, momentum.Priority)

		habitSurge := findInsight(insights, "Read is taking off")
		require.NotNil(t, habitSurge)
	})

	t.Run("Success: decline is flagged as actionable", func(t *testing.T) {
		h := habitWithCompletions("Read", day(-30),
			day(-2), // one this week
			day(-9), day(-10), day(-11), day(-12), day(-13)) // five last week

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		slower := findInsight(insights, "Slower week")
		require.NotNil(t, slower)
		assert.True(t, slower.Actionable)
		assert.False(t, slower.IsPositive)
	})
}

func TestGenerateInsights_Motivation(t *testing.T) {
	t.Run("Success: all habits done today", func(t *testing.T) {
		h1 := habitWithCompletions("Read", day(-5), day(0))
		h2 := habitWithCompletions("Gym", day(-5), day(0))

		insights := analytics.GenerateInsights([]*domain.Habit{h1, h2}, testNow)

		perfect := findInsight(insights, "Perfect day")
		require.NotNil(t, perfect)
		assert.Equal(t, domain.PriorityHigh, perfect.Priority)
	})

	t.Run("Success: habit age milestone", func(t *testing.T) {
		h := habitWithCompletions("Read", day(-30), day(0))

		insights := analytics.GenerateInsights([]*domain.Habit{h}, testNow)

		age := findInsight(insights, "30 days of Read")
		require.NotNil(t, age)
		assert.Equal(t, domain.PriorityMedium, age.Priority)
	})
}

func TestGenerateInsights_Ordering(t *testing.T) {
	snapshot := func() []*domain.Habit {
		h1 := habitWithCompletions("Read", day(-30),
			day(0), day(-1), day(-2), day(-3), day(-4), day(-5), day(-6), day(-7))
		h2 := habitWithCompletions("Gym", day(-30), day(-1), day(-2), day(-3), day(-4))
		return []*domain.Habit{h1, h2}
	}

	t.Run("Success: sorted descending by priority, capped at 15", func(t *testing.T) {
		insights := analytics.GenerateInsights(snapshot(), testNow)

		require.NotEmpty(t, insights)
		assert.LessOrEqual(t, len(insights), 15)
		for i := 1; i < len(insights); i++ {
			assert.GreaterOrEqual(t, insights[i-1].Priority, insights[i].Priority)
		}
	})

	t.Run("Success: identical snapshot and now produce an identical list", func(t *testing.T) {
		first := analytics.GenerateInsights(snapshot(), testNow)
		second := analytics.GenerateInsights(snapshot(), testNow)

		assert.Equal(t, first, second)
	})
}
