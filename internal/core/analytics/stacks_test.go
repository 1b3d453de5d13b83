package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoapps/habitpulse-engine/internal/core/analytics"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

func chainOf(stackID string, habits ...*domain.Habit) *domain.HabitStack {
	stack := &domain.HabitStack{
		ID:       stackID,
		UserID:   "u1",
		Name:     "Morning Routine",
		IsActive: true,
	}
	for i, h := range habits {
		order := i
		h.StackID = &stack.ID
		h.StackOrder = &order
		stack.HabitOrder = append(stack.HabitOrder, h.ID)
	}
	return stack
}

func TestBuildStackProgress(t *testing.T) {
	t.Run("Success: first and third of four done leaves the second up next", func(t *testing.T) {
		h1 := habitWithCompletions("Wake Up", day(-10), day(0))
		h2 := habitWithCompletions("Stretch", day(-10))
		h3 := habitWithCompletions("Shower", day(-10), day(0))
		h4 := habitWithCompletions("Journal", day(-10))
		habits := []*domain.Habit{h1, h2, h3, h4}
		stack := chainOf("s1", habits...)

		progress := analytics.BuildStackProgress(stack, habits, testNow)

		assert.Equal(t, 2, progress.CompletedCount)
		assert.Equal(t, 4, progress.TotalCount)
		assert.InDelta(t, 0.5, progress.Progress(), 0.001)
		assert.False(t, progress.IsComplete())

		current := progress.CurrentItem()
		require.NotNil(t, current)
		assert.Equal(t, h2.ID, current.HabitID)
	})

	t.Run("Success: complete chain has no current item", func(t *testing.T) {
		h1 := habitWithCompletions("Wake Up", day(-10), day(0))
		h2 := habitWithCompletions("Stretch", day(-10), day(0))
		habits := []*domain.Habit{h1, h2}
		stack := chainOf("s1", habits...)

		progress := analytics.BuildStackProgress(stack, habits, testNow)

		assert.True(t, progress.IsComplete())
		assert.Nil(t, progress.CurrentItem())
	})

	t.Run("Edge Case: deleted member is dropped, order preserved", func(t *testing.T) {
		h1 := habitWithCompletions("Wake Up", day(-10), day(0))
		h2 := habitWithCompletions("Stretch", day(-10))
		stack := chainOf("s1", h1, h2)
		stack.HabitOrder = []string{h1.ID, "gone", h2.ID}

		progress := analytics.BuildStackProgress(stack, []*domain.Habit{h1, h2}, testNow)

		require.Len(t, progress.Items, 2)
		assert.Equal(t, h1.ID, progress.Items[0].HabitID)
		assert.Equal(t, h2.ID, progress.Items[1].HabitID)
		assert.Equal(t, 2, progress.TotalCount)
	})

	t.Run("Edge Case: empty chain reports zero progress", func(t *testing.T) {
		stack := &domain.HabitStack{ID: "s1", UserID: "u1", Name: "Empty"}

		progress := analytics.BuildStackProgress(stack, nil, testNow)

		assert.Equal(t, 0, progress.TotalCount)
		assert.Equal(t, 0.0, progress.Progress())
		assert.False(t, progress.IsComplete())
		assert.Nil(t, progress.CurrentItem())
	})
}

func TestCanAddToStack(t *testing.T) {
	t.Run("Success: free habit can join", func(t *testing.T) {
		stack := &domain.HabitStack{ID: "s1", HabitOrder: []string{"other"}}
		h := plainHabit("Read")

		assert.True(t, analytics.CanAddToStack(stack, h))
	})

	t.Run("Edge Case: habit in another stack is rejected", func(t *testing.T) {
		otherID := "s2"
		stack := &domain.HabitStack{ID: "s1"}
		h := plainHabit("Read")
		h.StackID = &otherID

		assert.False(t, analytics.CanAddToStack(stack, h))
	})

	t.Run("Edge Case: existing member cannot join twice", func(t *testing.T) {
		h := plainHabit("Read")
		stack := &domain.HabitStack{ID: "s1", HabitOrder: []string{h.ID}}
		h.StackID = &stack.ID

		assert.False(t, analytics.CanAddToStack(stack, h))
	})
}

func TestStackMove(t *testing.T) {
	t.Run("Success: member shifts forward and the rest slide", func(t *testing.T) {
		stack := &domain.HabitStack{ID: "s1", HabitOrder: []string{"a", "b", "c", "d"}}

		require.NoError(t, stack.Move(3, 0))

		assert.Equal(t, []string{"d", "a", "b", "c"}, stack.HabitOrder)
	})

	t.Run("Edge Case: out-of-range indices are rejected", func(t *testing.T) {
		stack := &domain.HabitStack{ID: "s1", HabitOrder: []string{"a", "b"}}

		assert.ErrorIs(t, stack.Move(0, 2), domain.ErrInvalidStackMove)
		assert.ErrorIs(t, stack.Move(-1, 0), domain.ErrInvalidStackMove)
	})
}

func TestSuggestStackCombinations(t *testing.T) {
	t.Run("Success: overlapping histories pair up", func(t *testing.T) {
		shared := []struct{ offset int }{{0}, {-1}, {-2}, {-3}, {-4}, {-5}}

		a := habitWithCompletions("Read", day(-40))
		b := habitWithCompletions("Journal", day(-40))
		for _, d := range shared {
			a.Completions = append(a.Completions, &domain.HabitCompletion{
				ID: "a" + day(d.offset).Format("2006-01-02"), HabitID: a.ID, Date: day(d.offset), Value: 1,
			})
			b.Completions = append(b.Completions, &domain.HabitCompletion{
				ID: "b" + day(d.offset).Format("2006-01-02"), HabitID: b.ID, Date: day(d.offset), Value: 1,
			})
		}
		// One unshared day keeps similarity just below perfect.
		b.Completions = append(b.Completions, &domain.HabitCompletion{
			ID: "b-extra", HabitID: b.ID, Date: day(-10), Value: 1,
		})
		loner := habitWithCompletions("Gym", day(-40), day(-20))

		combos := analytics.SuggestStackCombinations([]*domain.Habit{a, b, loner}, testNow)

		require.Len(t, combos, 1)
		assert.Equal(t, a.ID, combos[0].HabitAID)
		assert.Equal(t, b.ID, combos[0].HabitBID)
		assert.InDelta(t, 6.0/7.0, combos[0].Similarity, 0.001)
	})

	t.Run("Edge Case: stacked habits are excluded from mining", func(t *testing.T) {
		a := habitWithCompletions("Read", day(-40), day(0), day(-1), day(-2))
		b := habitWithCompletions("Journal", day(-40), day(0), day(-1), day(-2))
		chainOf("s1", a, b)

		combos := analytics.SuggestStackCombinations([]*domain.Habit{a, b}, testNow)

		assert.Empty(t, combos)
	})

	t.Run("Edge Case: old overlap outside the window does not count", func(t *testing.T) {
		a := habitWithCompletions("Read", day(-90), day(-40), day(-41), day(-42))
		b := habitWithCompletions("Journal", day(-90), day(-40), day(-41), day(-42))

		combos := analytics.SuggestStackCombinations([]*domain.Habit{a, b}, testNow)

		assert.Empty(t, combos)
	})
}
