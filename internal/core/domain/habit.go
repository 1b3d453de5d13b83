package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidRestDays    = errors.New("invalid rest days (must be 1-7, Sunday=1)")
	ErrInvalidGoal        = errors.New("goal cannot be negative")
	ErrInvalidIncrement   = errors.New("goal increment interval must be positive")
	ErrInvalidHabitType   = errors.New("invalid habit type (must be manual, sleep, water, or calories)")
	ErrInvalidProgression = errors.New("invalid goal progression (must be fixed, rampUp, or adaptive)")
	ErrHabitConflict      = errors.New("habit version conflict")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	HabitTypeManual   = "manual"
	HabitTypeSleep    = "sleep"
	HabitTypeWater    = "water"
	HabitTypeCalories = "calories"

	ProgressionFixed    = "fixed"
	ProgressionRampUp   = "rampUp"
	ProgressionAdaptive = "adaptive"

	DefaultIcon = "circle"
	MaxNameLen  = 100
)

// Habit is a tracked behavior. Completions is a read-only snapshot attached
// by the service layer before the analytics engine runs; it is never written
// back through this struct.
type Habit struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Icon   string `json:"icon" db:"icon"`
	Color  string `json:"color" db:"color"`

	HabitType  string `json:"habit_type" db:"habit_type"`
	DataSource string `json:"data_source,omitempty" db:"data_source"`

	DailyGoal                 *float64 `json:"daily_goal,omitempty" db:"daily_goal"`
	InitialGoal               float64  `json:"initial_goal" db:"initial_goal"`
	GoalProgression           string   `json:"goal_progression" db:"goal_progression"`
	GoalIncrement             float64  `json:"goal_increment" db:"goal_increment"`
	GoalIncrementIntervalDays int      `json:"goal_increment_interval_days" db:"goal_increment_interval_days"`

	// RestDays holds weekday numbers 1-7 with Sunday=1. Rest days are
	// excluded from streak adjacency and completion-rate denominators.
	RestDays []int `json:"rest_days,omitempty" db:"-"`

	LastGoalAdjustment *time.Time `json:"last_goal_adjustment,omitempty" db:"last_goal_adjustment"`

	StackID    *string `json:"stack_id,omitempty" db:"stack_id"`
	StackOrder *int    `json:"stack_order,omitempty" db:"stack_order"`

	Completions []*HabitCompletion `json:"completions,omitempty" db:"-"`

	// Denormalized by the streak worker for widget exporters; the engine
	// always recomputes from completions and never reads these.
	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func normalizeRestDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var unique []int
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Ints(unique)
	return unique
}

func validateHabit(name, hType, progression, color string, initialGoal float64, dailyGoal *float64, incrementInterval int, restDays []int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrHabitNameTooLong
	}

	switch hType {
	case HabitTypeManual, HabitTypeSleep, HabitTypeWater, HabitTypeCalories:
	default:
		return ErrInvalidHabitType
	}

	switch progression {
	case ProgressionFixed, ProgressionRampUp, ProgressionAdaptive:
	default:
		return ErrInvalidProgression
	}

	if initialGoal < 0 {
		return ErrInvalidGoal
	}
	if dailyGoal != nil && *dailyGoal < 0 {
		return ErrInvalidGoal
	}
	if incrementInterval < 0 {
		return ErrInvalidIncrement
	}

	for _, d := range restDays {
		if d < 1 || d > 7 {
			return ErrInvalidRestDays
		}
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	return nil
}

type HabitParams struct {
	Name                      string
	Icon                      string
	Color                     string
	HabitType                 string
	DataSource                string
	DailyGoal                 *float64
	InitialGoal               float64
	GoalProgression           string
	GoalIncrement             float64
	GoalIncrementIntervalDays int
	RestDays                  []int
}

func NewHabit(userID string, p HabitParams) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if p.HabitType == "" {
		p.HabitType = HabitTypeManual
	}
	if p.GoalProgression == "" {
		p.GoalProgression = ProgressionFixed
	}
	if p.GoalProgression == ProgressionRampUp && p.GoalIncrementIntervalDays < 1 {
		return nil, ErrInvalidIncrement
	}

	if err := validateHabit(p.Name, p.HabitType, p.GoalProgression, p.Color, p.InitialGoal, p.DailyGoal, p.GoalIncrementIntervalDays, p.RestDays); err != nil {
		return nil, err
	}

	icon := p.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	return &Habit{
		ID:                        uuid.New().String(),
		UserID:                    userID,
		Name:                      strings.TrimSpace(p.Name),
		Icon:                      icon,
		Color:                     p.Color,
		HabitType:                 p.HabitType,
		DataSource:                p.DataSource,
		DailyGoal:                 p.DailyGoal,
		InitialGoal:               p.InitialGoal,
		GoalProgression:           p.GoalProgression,
		GoalIncrement:             p.GoalIncrement,
		GoalIncrementIntervalDays: p.GoalIncrementIntervalDays,
		RestDays:                  normalizeRestDays(p.RestDays),
		Version:                   1,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}, nil
}

func (h *Habit) Update(p HabitParams) error {
	if p.HabitType == "" {
		p.HabitType = h.HabitType
	}
	if p.GoalProgression == "" {
		p.GoalProgression = h.GoalProgression
	}
	if p.GoalProgression == ProgressionRampUp && p.GoalIncrementIntervalDays < 1 {
		return ErrInvalidIncrement
	}

	if err := validateHabit(p.Name, p.HabitType, p.GoalProgression, p.Color, p.InitialGoal, p.DailyGoal, p.GoalIncrementIntervalDays, p.RestDays); err != nil {
		return err
	}

	icon := p.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	h.Name = strings.TrimSpace(p.Name)
	h.Icon = icon
	h.Color = p.Color
	h.HabitType = p.HabitType
	h.DataSource = p.DataSource
	h.DailyGoal = p.DailyGoal
	h.InitialGoal = p.InitialGoal
	h.GoalProgression = p.GoalProgression
	h.GoalIncrement = p.GoalIncrement
	h.GoalIncrementIntervalDays = p.GoalIncrementIntervalDays
	h.RestDays = normalizeRestDays(p.RestDays)
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// IsGoalMeasured reports whether completions for this habit carry a numeric
// value measured against a goal. Externally-synced habits are always
// goal-measured; manual habits only when a daily goal is set.
func (h *Habit) IsGoalMeasured() bool {
	return h.HabitType != HabitTypeManual || h.DailyGoal != nil
}

// IsRestDay reports whether the weekday of t (1-7, Sunday=1) is configured
// as a rest day for this habit.
func (h *Habit) IsRestDay(t time.Time) bool {
	day := int(t.Weekday()) + 1
	for _, d := range h.RestDays {
		if d == day {
			return true
		}
	}
	return false
}

// ApplyGoalAdjustment is the only engine-driven mutation in the system: it
// assigns the suggested goal and stamps the adjustment time. Invoked
// explicitly by the caller, never automatically.
func (h *Habit) ApplyGoalAdjustment(suggestedGoal float64, now time.Time) {
	g := suggestedGoal
	h.DailyGoal = &g
	t := now
	h.LastGoalAdjustment = &t
	h.UpdatedAt = now.UTC()
}

func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) AssignToStack(stackID string, order int) {
	h.StackID = &stackID
	h.StackOrder = &order
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) ClearStack() {
	h.StackID = nil
	h.StackOrder = nil
	h.UpdatedAt = time.Now().UTC()
}
