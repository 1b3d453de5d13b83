package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/services"
	"github.com/lumoapps/habitpulse-engine/internal/core/workers"
)

func newCompletionFixture(t *testing.T) (*services.CompletionService, *MockHabitRepo, *MockCompletionRepo, *domain.Habit) {
	t.Helper()

	habitRepo := NewMockHabitRepo()
	completionRepo := NewMockCompletionRepo()
	worker := workers.NewStreakWorker(habitRepo, completionRepo)
	svc := services.NewCompletionService(completionRepo, habitRepo, worker)

	habit, err := domain.NewHabit("user-1", domain.HabitParams{Name: "Read"})
	require.NoError(t, err)
	require.NoError(t, habitRepo.Create(context.Background(), habit))

	return svc, habitRepo, completionRepo, habit
}

func TestCompletionService_Create(t *testing.T) {
	t.Run("Success: Should record a completion for an owned habit", func(t *testing.T) {
		svc, _, repo, habit := newCompletionFixture(t)

		created, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			Date:    time.Now(),
			Value:   1,
		})

		assert.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, habit.ID, created.HabitID)
		assert.NotNil(t, repo.store[created.ID])
	})

	t.Run("Success: multiple completions on one day are all stored", func(t *testing.T) {
		svc, _, repo, habit := newCompletionFixture(t)
		today := time.Now()

		for i := 0; i < 3; i++ {
			_, err := svc.Create(context.Background(), services.CreateCompletionInput{
				HabitID: habit.ID,
				UserID:  "user-1",
				Date:    today,
				Value:   500,
			})
			assert.NoError(t, err)
		}

		assert.Len(t, repo.store, 3)
	})

	t.Run("Fail: Security - habit belongs to someone else", func(t *testing.T) {
		svc, _, _, habit := newCompletionFixture(t)

		_, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID,
			UserID:  "user-2",
			Date:    time.Now(),
			Value:   1,
		})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Fail: negative value is rejected", func(t *testing.T) {
		svc, _, _, habit := newCompletionFixture(t)

		_, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			Date:    time.Now(),
			Value:   -5,
		})

		assert.ErrorIs(t, err, domain.ErrCompletionNegative)
	})
}

func TestCompletionService_Update(t *testing.T) {
	t.Run("Success: value change bumps the version", func(t *testing.T) {
		svc, _, _, habit := newCompletionFixture(t)
		created, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now(), Value: 1,
		})
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), services.UpdateCompletionInput{
			ID:      created.ID,
			UserID:  "user-1",
			Value:   2,
			Version: 1,
		})

		assert.NoError(t, err)
		assert.Equal(t, 2.0, updated.Value)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Optimistic Locking: stale version is rejected", func(t *testing.T) {
		svc, _, repo, habit := newCompletionFixture(t)
		created, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now(), Value: 1,
		})
		require.NoError(t, err)
		repo.store[created.ID].Version = 3

		_, err = svc.Update(context.Background(), services.UpdateCompletionInput{
			ID:      created.ID,
			UserID:  "user-1",
			Value:   2,
			Version: 1,
		})

		assert.ErrorIs(t, err, domain.ErrCompletionConflict)
	})
}

func TestCompletionService_Delete(t *testing.T) {
	t.Run("Success: soft delete hides the completion", func(t *testing.T) {
		svc, _, repo, habit := newCompletionFixture(t)
		created, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now(), Value: 1,
		})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), created.ID, "user-1")

		assert.NoError(t, err)
		_, err = svc.GetByID(context.Background(), created.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrCompletionNotFound)
		assert.NotNil(t, repo.store[created.ID].DeletedAt)
	})

	t.Run("Fail: Security - cannot delete someone else's completion", func(t *testing.T) {
		svc, _, _, habit := newCompletionFixture(t)
		created, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now(), Value: 1,
		})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), created.ID, "user-2")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestCompletionService_List(t *testing.T) {
	t.Run("Success: lists only the habit's live completions", func(t *testing.T) {
		svc, _, _, habit := newCompletionFixture(t)
		first, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now(), Value: 1,
		})
		require.NoError(t, err)
		second, err := svc.Create(context.Background(), services.CreateCompletionInput{
			HabitID: habit.ID, UserID: "user-1", Date: time.Now().AddDate(0, 0, -1), Value: 1,
		})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(context.Background(), second.ID, "user-1"))

		list, err := svc.ListByHabitID(context.Background(), habit.ID, "user-1")

		assert.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID, list[0].ID)
	})
}
