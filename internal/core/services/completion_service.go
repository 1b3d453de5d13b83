package services

import (
	"context"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/workers"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type CreateCompletionInput struct {
	HabitID      string
	UserID       string
	Date         time.Time
	Value        float64
	IsAutoSynced bool
}

type UpdateCompletionInput struct {
	ID      string
	UserID  string
	Value   float64
	Version int
}

func (s *CompletionService) Create(ctx context.Context, input CreateCompletionInput) (*domain.HabitCompletion, error) {
	completion := domain.NewHabitCompletion(input.HabitID, input.UserID, input.Date, input.Value, input.IsAutoSynced)

	if err := completion.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, completion.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != completion.UserID {
		return nil, domain.ErrUnauthorized
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	s.worker.Enqueue(completion.HabitID)

	return completion, nil
}

func (s *CompletionService) Update(ctx context.Context, input UpdateCompletionInput) (*domain.HabitCompletion, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrCompletionConflict
	}
	if input.Value < 0 {
		return nil, domain.ErrCompletionNegative
	}

	existing.Value = input.Value
	existing.Version++
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.HabitID)

	return existing, nil
}

func (s *CompletionService) GetByID(ctx context.Context, id string, userID string) (*domain.HabitCompletion, error) {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if completion.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return completion, nil
}

func (s *CompletionService) ListByHabitID(ctx context.Context, habitID string, userID string) ([]*domain.HabitCompletion, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByHabitID(ctx, habitID)
}

func (s *CompletionService) Delete(ctx context.Context, id string, userID string) error {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if completion.UserID != userID {
		return domain.ErrUnauthorized
	}

	habitID := completion.HabitID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}

func (s *CompletionService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.HabitCompletion, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
