package services

import (
	"context"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/analytics"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

// AnalyticsService assembles the in-memory snapshot (habits with their
// completions attached) and runs the pure engine over it. Every read here is
// computed fresh; ApplyGoalAdjustment is the single write path.
type AnalyticsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	stackRepo      domain.StackRepository
	dismissals     domain.DismissalStore
	catalog        []analytics.HabitTemplate
}

func NewAnalyticsService(
	habitRepo domain.HabitRepository,
	completionRepo domain.CompletionRepository,
	stackRepo domain.StackRepository,
	dismissals domain.DismissalStore,
) *AnalyticsService {
	return &AnalyticsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		stackRepo:      stackRepo,
		dismissals:     dismissals,
		catalog:        analytics.DefaultCatalog,
	}
}

// snapshot loads the user's habits and attaches completions in one pass, two
// queries total regardless of habit count.
func (s *AnalyticsService) snapshot(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]*domain.HabitCompletion)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	for _, h := range habits {
		h.Completions = byHabit[h.ID]
	}

	return habits, nil
}

func (s *AnalyticsService) habitWithCompletions(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	completions, err := s.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	habit.Completions = completions

	return habit, nil
}

func (s *AnalyticsService) GetStatistics(ctx context.Context, habitID, userID string, now time.Time) (domain.HabitStatistics, error) {
	habit, err := s.habitWithCompletions(ctx, habitID, userID)
	if err != nil {
		return domain.HabitStatistics{}, err
	}

	return analytics.Calculate(habit, now), nil
}

func (s *AnalyticsService) GetAllStatistics(ctx context.Context, userID string, now time.Time) (map[string]domain.HabitStatistics, error) {
	habits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]domain.HabitStatistics, len(habits))
	for _, h := range habits {
		stats[h.ID] = analytics.Calculate(h, now)
	}

	return stats, nil
}

func (s *AnalyticsService) GetInsights(ctx context.Context, userID string, now time.Time) ([]domain.Insight, error) {
	habits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analytics.GenerateInsights(habits, now), nil
}

func (s *AnalyticsService) GetSuggestions(ctx context.Context, userID string, now time.Time) ([]domain.HabitSuggestion, error) {
	habits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	dismissed, err := s.dismissals.ListDismissed(ctx, userID)
	if err != nil {
		return nil, err
	}

	engine := analytics.NewSuggestionEngine(s.catalog, dismissed)
	return engine.Suggest(habits, now), nil
}

func (s *AnalyticsService) DismissSuggestion(ctx context.Context, userID, name string) error {
	return s.dismissals.Dismiss(ctx, userID, name)
}

func (s *AnalyticsService) ResetDismissed(ctx context.Context, userID string) error {
	return s.dismissals.Reset(ctx, userID)
}

func (s *AnalyticsService) GetProgressionInfo(ctx context.Context, habitID, userID string, now time.Time) (domain.GoalProgressionInfo, error) {
	habit, err := s.habitWithCompletions(ctx, habitID, userID)
	if err != nil {
		return domain.GoalProgressionInfo{}, err
	}

	return analytics.ProgressionInfo(habit, now), nil
}

// CheckGoalAdjustment runs the adaptive heuristic without mutating anything;
// nil means no change is warranted.
func (s *AnalyticsService) CheckGoalAdjustment(ctx context.Context, habitID, userID string, now time.Time) (*domain.GoalAdjustmentSuggestion, error) {
	habit, err := s.habitWithCompletions(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	return analytics.CheckAdaptiveAdjustment(habit, now), nil
}

// ApplyGoalAdjustment persists an accepted suggestion. Callers pass the goal
// they were shown; the engine never applies anything on its own.
func (s *AnalyticsService) ApplyGoalAdjustment(ctx context.Context, habitID, userID string, suggestedGoal float64, now time.Time) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	if suggestedGoal <= 0 {
		return nil, domain.ErrInvalidGoal
	}

	habit.ApplyGoalAdjustment(suggestedGoal, now)

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *AnalyticsService) GetStackProgress(ctx context.Context, stackID, userID string, now time.Time) (domain.StackProgress, error) {
	stack, err := s.stackRepo.GetByID(ctx, stackID)
	if err != nil {
		return domain.StackProgress{}, err
	}
	if stack.UserID != userID {
		return domain.StackProgress{}, domain.ErrStackNotFound
	}

	habits, err := s.snapshot(ctx, userID)
	if err != nil {
		return domain.StackProgress{}, err
	}

	return analytics.BuildStackProgress(stack, habits, now), nil
}

func (s *AnalyticsService) GetStackCombinations(ctx context.Context, userID string, now time.Time) ([]domain.StackCombination, error) {
	habits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analytics.SuggestStackCombinations(habits, now), nil
}
