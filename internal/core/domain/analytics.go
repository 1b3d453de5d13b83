package domain

// Value objects produced by the analytics engine. Computed fresh on every
// call, never persisted, safe to render or flatten into widget snapshots
// without re-invoking the engine.

type HabitStatistics struct {
	HabitID          string  `json:"habit_id"`
	IsCompletedToday bool    `json:"is_completed_today"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	CompletionRate   float64 `json:"completion_rate"`
	TodayProgress    float64 `json:"today_progress"`
	TodayValue       float64 `json:"today_value"`
	TotalCompletions int     `json:"total_completions"`
}

type DayOfWeekStats struct {
	// Weekday is 1-7 with Sunday=1.
	Weekday     int     `json:"weekday"`
	Completions int     `json:"completions"`
	Possible    int     `json:"possible"`
	Rate        float64 `json:"rate"`
}

type WeeklyComparison struct {
	ThisWeekTotal int     `json:"this_week_total"`
	LastWeekTotal int     `json:"last_week_total"`
	ChangePercent float64 `json:"change_percent"`
}

const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

type GoalAdjustmentSuggestion struct {
	HabitID        string  `json:"habit_id"`
	Type           string  `json:"type"`
	CurrentGoal    float64 `json:"current_goal"`
	SuggestedGoal  float64 `json:"suggested_goal"`
	CompletionRate float64 `json:"completion_rate"`
	AverageValue   float64 `json:"average_value"`
	Reason         string  `json:"reason"`
}

type GoalProgressionInfo struct {
	HabitID             string   `json:"habit_id"`
	Progression         string   `json:"progression"`
	EffectiveGoal       float64  `json:"effective_goal"`
	NextGoal            *float64 `json:"next_goal,omitempty"`
	DaysUntilNextChange *int     `json:"days_until_next_change,omitempty"`
	Message             string   `json:"message"`
}

const (
	InsightTypeStreak      = "streak"
	InsightTypePattern     = "pattern"
	InsightTypeMilestone   = "milestone"
	InsightTypeImprovement = "improvement"
	InsightTypeMotivation  = "motivation"
)

// InsightPriority is ordinal: higher dominates when sorting.
type InsightPriority int

const (
	PriorityLow InsightPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func (p InsightPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	}
	return "unknown"
}

type Insight struct {
	Type           string          `json:"type"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Detail         string          `json:"detail,omitempty"`
	Priority       InsightPriority `json:"priority"`
	RelatedHabitID string          `json:"related_habit_id,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	IsPositive     bool            `json:"is_positive"`
	Actionable     bool            `json:"actionable"`
}

type HabitSuggestion struct {
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	Color          string   `json:"color"`
	Category       string   `json:"category"`
	Reason         string   `json:"reason"`
	DetailedReason string   `json:"detailed_reason,omitempty"`
	RelatedTo      []string `json:"related_to,omitempty"`
	Priority       int      `json:"priority"`
}

type StackItem struct {
	HabitID     string `json:"habit_id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
	IsCompleted bool   `json:"is_completed"`
}

type StackProgress struct {
	StackID        string      `json:"stack_id"`
	Items          []StackItem `json:"items"`
	CompletedCount int         `json:"completed_count"`
	TotalCount     int         `json:"total_count"`
}

// Progress returns completed/total, 0 for an empty chain.
func (p StackProgress) Progress() float64 {
	if p.TotalCount == 0 {
		return 0
	}
	return float64(p.CompletedCount) / float64(p.TotalCount)
}

func (p StackProgress) IsComplete() bool {
	return p.TotalCount > 0 && p.CompletedCount == p.TotalCount
}

// CurrentItem returns the first incomplete item in chain order, nil when the
// chain is complete or empty.
func (p StackProgress) CurrentItem() *StackItem {
	for i := range p.Items {
		if !p.Items[i].IsCompleted {
			return &p.Items[i]
		}
	}
	return nil
}

// StackCombination is a pair of unstacked habits whose completion histories
// overlap enough to suggest chaining them.
type StackCombination struct {
	HabitAID   string  `json:"habit_a_id"`
	HabitBID   string  `json:"habit_b_id"`
	HabitAName string  `json:"habit_a_name"`
	HabitBName string  `json:"habit_b_name"`
	Similarity float64 `json:"similarity"`
}
