package analytics

import (
	"sort"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

const (
	combinationWindowDays = 30
	combinationSimilarity = 0.50
)

// BuildStackProgress resolves a chain's habit IDs against the snapshot,
// preserving declared order and dropping members that no longer exist, and
// tags each with today's completion state.
func BuildStackProgress(stack *domain.HabitStack, habits []*domain.Habit, now time.Time) domain.StackProgress {
	byID := make(map[string]*domain.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	progress := domain.StackProgress{StackID: stack.ID}

	for i, id := range stack.HabitOrder {
		h, ok := byID[id]
		if !ok {
			continue
		}

		done := Calculate(h, now).IsCompletedToday
		progress.Items = append(progress.Items, domain.StackItem{
			HabitID:     h.ID,
			Name:        h.Name,
			Icon:        h.Icon,
			Color:       h.Color,
			Order:       i,
			IsCompleted: done,
		})
		progress.TotalCount++
		if done {
			progress.CompletedCount++
		}
	}

	return progress
}

// CanAddToStack checks membership rules: a habit cannot join while it
// belongs to another stack, and cannot join the same stack twice.
func CanAddToStack(stack *domain.HabitStack, h *domain.Habit) bool {
	if h.StackID != nil && *h.StackID != stack.ID {
		return false
	}
	return !stack.Contains(h.ID)
}

// SuggestStackCombinations mines completion correlation: for every pair of
// unstacked habits it computes the Jaccard similarity of their completed-day
// sets over the trailing 30 days and returns pairs above 0.50, sorted
// descending. Quadratic in habit count, which stays in the tens.
func SuggestStackCombinations(habits []*domain.Habit, now time.Time) []domain.StackCombination {
	loc := now.Location()
	today := startOfDay(now)
	windowStart := today.AddDate(0, 0, -(combinationWindowDays - 1))

	unstacked := make([]*domain.Habit, 0, len(habits))
	daySets := make(map[string]map[string]bool)

	for _, h := range habits {
		if h.StackID != nil {
			continue
		}
		unstacked = append(unstacked, h)

		days := make(map[string]bool)
		for day := range completedDays(h.Completions, loc) {
			t, err := time.ParseInLocation(dayKeyLayout, day, loc)
			if err != nil {
				continue
			}
			if !t.Before(windowStart) && !t.After(today) {
				days[day] = true
			}
		}
		daySets[h.ID] = days
	}

	var combos []domain.StackCombination

	for i := 0; i < len(unstacked); i++ {
		for j := i + 1; j < len(unstacked); j++ {
			a, b := unstacked[i], unstacked[j]
			sim := jaccard(daySets[a.ID], daySets[b.ID])
			if sim > combinationSimilarity {
				combos = append(combos, domain.StackCombination{
					HabitAID:   a.ID,
					HabitBID:   b.ID,
					HabitAName: a.Name,
					HabitBName: b.Name,
					Similarity: sim,
				})
			}
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Similarity > combos[j].Similarity
	})

	return combos
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for day := range a {
		if b[day] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
