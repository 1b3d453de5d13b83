package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

type HabitService struct {
	repo domain.HabitRepository
}

func NewHabitService(repo domain.HabitRepository) *HabitService {
	return &HabitService{
		repo: repo,
	}
}

type CreateHabitInput struct {
	UserID string
	domain.HabitParams
}

type UpdateHabitInput struct {
	ID      string
	UserID  string
	Version int

	Name       string
	Icon       string
	Color      string
	HabitType  string
	DataSource string

	DailyGoal                 *float64
	InitialGoal               *float64
	GoalProgression           string
	GoalIncrement             *float64
	GoalIncrementIntervalDays *int
	RestDays                  []int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, input.HabitParams)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

// Update merges the provided fields over the stored habit. Empty strings and
// nil numerics keep the existing value; RestDays replaces wholesale when
// non-nil so a client can clear the schedule with an empty slice.
func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	params := domain.HabitParams{
		Name:                      mergeString(input.Name, habit.Name),
		Icon:                      mergeString(input.Icon, habit.Icon),
		Color:                     mergeString(input.Color, habit.Color),
		HabitType:                 mergeString(input.HabitType, habit.HabitType),
		DataSource:                mergeString(input.DataSource, habit.DataSource),
		DailyGoal:                 habit.DailyGoal,
		InitialGoal:               habit.InitialGoal,
		GoalProgression:           mergeString(input.GoalProgression, habit.GoalProgression),
		GoalIncrement:             habit.GoalIncrement,
		GoalIncrementIntervalDays: habit.GoalIncrementIntervalDays,
		RestDays:                  habit.RestDays,
	}

	if input.DailyGoal != nil {
		params.DailyGoal = input.DailyGoal
	}
	if input.InitialGoal != nil {
		params.InitialGoal = *input.InitialGoal
	}
	if input.GoalIncrement != nil {
		params.GoalIncrement = *input.GoalIncrement
	}
	if input.GoalIncrementIntervalDays != nil {
		params.GoalIncrementIntervalDays = *input.GoalIncrementIntervalDays
	}
	if input.RestDays != nil {
		params.RestDays = input.RestDays
	}

	if err := habit.Update(params); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
