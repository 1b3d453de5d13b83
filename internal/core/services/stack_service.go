package services

import (
	"context"

	"github.com/lumoapps/habitpulse-engine/internal/core/analytics"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

type StackService struct {
	repo      domain.StackRepository
	habitRepo domain.HabitRepository
}

func NewStackService(repo domain.StackRepository, habitRepo domain.HabitRepository) *StackService {
	return &StackService{
		repo:      repo,
		habitRepo: habitRepo,
	}
}

type CreateStackInput struct {
	UserID string
	Name   string
	Icon   string
	Color  string
}

type UpdateStackInput struct {
	ID      string
	UserID  string
	Version int

	Name                  string
	Icon                  string
	Color                 string
	IsActive              *bool
	NotifyOnChainProgress *bool
}

func (s *StackService) Create(ctx context.Context, input CreateStackInput) (*domain.HabitStack, error) {
	stack, err := domain.NewHabitStack(input.UserID, input.Name, input.Icon, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, stack); err != nil {
		return nil, err
	}

	return stack, nil
}

func (s *StackService) GetByID(ctx context.Context, id string, userID string) (*domain.HabitStack, error) {
	stack, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stack.UserID != userID {
		return nil, domain.ErrStackNotFound
	}
	return stack, nil
}

func (s *StackService) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitStack, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *StackService) Update(ctx context.Context, input UpdateStackInput) (*domain.HabitStack, error) {
	stack, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && stack.Version != input.Version {
		return nil, domain.ErrStackConflict
	}

	stack.Name = mergeString(input.Name, stack.Name)
	stack.Icon = mergeString(input.Icon, stack.Icon)
	stack.Color = mergeString(input.Color, stack.Color)
	if input.IsActive != nil {
		stack.IsActive = *input.IsActive
	}
	if input.NotifyOnChainProgress != nil {
		stack.NotifyOnChainProgress = *input.NotifyOnChainProgress
	}

	if err := s.repo.Update(ctx, stack); err != nil {
		return nil, err
	}

	return stack, nil
}

// AddHabit appends a habit to the end of the chain. A habit belongs to at
// most one stack; membership is stored on both sides and this is the only
// place the two are written together.
func (s *StackService) AddHabit(ctx context.Context, stackID, habitID, userID string) (*domain.HabitStack, error) {
	stack, err := s.GetByID(ctx, stackID, userID)
	if err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	if !analytics.CanAddToStack(stack, habit) {
		return nil, domain.ErrHabitAlreadyInStack
	}

	stack.Append(habitID)
	if err := s.repo.Update(ctx, stack); err != nil {
		return nil, err
	}

	habit.AssignToStack(stack.ID, len(stack.HabitOrder)-1)
	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return stack, nil
}

func (s *StackService) RemoveHabit(ctx context.Context, stackID, habitID, userID string) (*domain.HabitStack, error) {
	stack, err := s.GetByID(ctx, stackID, userID)
	if err != nil {
		return nil, err
	}

	if err := stack.Remove(habitID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, stack); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err == nil && habit.UserID == userID {
		habit.ClearStack()
		if err := s.habitRepo.Update(ctx, habit); err != nil {
			return nil, err
		}
	}

	return s.restampOrders(ctx, stack)
}

// Reorder moves the member at index from to index to and restamps every
// member's StackOrder to match the new chain.
func (s *StackService) Reorder(ctx context.Context, stackID, userID string, from, to int) (*domain.HabitStack, error) {
	stack, err := s.GetByID(ctx, stackID, userID)
	if err != nil {
		return nil, err
	}

	if err := stack.Move(from, to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, stack); err != nil {
		return nil, err
	}

	return s.restampOrders(ctx, stack)
}

func (s *StackService) restampOrders(ctx context.Context, stack *domain.HabitStack) (*domain.HabitStack, error) {
	for i, habitID := range stack.HabitOrder {
		habit, err := s.habitRepo.GetByID(ctx, habitID)
		if err != nil {
			continue
		}
		if habit.StackOrder != nil && *habit.StackOrder == i {
			continue
		}
		habit.AssignToStack(stack.ID, i)
		if err := s.habitRepo.Update(ctx, habit); err != nil {
			return nil, err
		}
	}
	return stack, nil
}

// Delete removes the stack and detaches every member; member habits survive.
func (s *StackService) Delete(ctx context.Context, id string, userID string) error {
	stack, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	for _, habitID := range stack.HabitOrder {
		habit, err := s.habitRepo.GetByID(ctx, habitID)
		if err != nil {
			continue
		}
		habit.ClearStack()
		if err := s.habitRepo.Update(ctx, habit); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}
