package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrUnauthorized  = errors.New("resource does not belong to user")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit and, by ownership, its completions.
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] returns only the deltas occurring after a specific date.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks persists the denormalized streak columns written by the
	// background worker; widget exporters read these without running the engine.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CompletionRepository interface {
	Create(ctx context.Context, completion *HabitCompletion) error
	GetByID(ctx context.Context, id string) (*HabitCompletion, error)
	Update(ctx context.Context, completion *HabitCompletion) error
	Delete(ctx context.Context, id string, userID string) error

	// ListByHabitID returns every live completion for one habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*HabitCompletion, error)

	// ListByUserID returns every live completion across the user's habits,
	// used to assemble the analytics snapshot in one pass.
	ListByUserID(ctx context.Context, userID string) ([]*HabitCompletion, error)

	// GetChanges [SYNC] returns only the deltas occurring after a specific date.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*HabitCompletion, error)
}

type StackRepository interface {
	Create(ctx context.Context, stack *HabitStack) error
	GetByID(ctx context.Context, id string) (*HabitStack, error)
	ListByUserID(ctx context.Context, userID string) ([]*HabitStack, error)
	Update(ctx context.Context, stack *HabitStack) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// DismissalStore is the one piece of cross-call engine state: the set of
// suggestion names the user has dismissed. A small key-value surface so the
// engine itself stays free of ambient global state.
type DismissalStore interface {
	Dismiss(ctx context.Context, userID, name string) error
	IsDismissed(ctx context.Context, userID, name string) (bool, error)
	ListDismissed(ctx context.Context, userID string) ([]string, error)
	Reset(ctx context.Context, userID string) error
}
