package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

// In-memory implementations backing tests and single-node deployments
// without Postgres. Semantics mirror the SQL adapters: soft deletes, clones
// on the way out, version bump on update.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	clone := *h
	clone.RestDays = append([]int(nil), h.RestDays...)
	clone.Completions = nil
	return &clone
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if habit.Version == 0 {
		habit.Version = 1
	}
	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			habits = append(habits, cloneHabit(h))
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if habit.Version != existing.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	h.DeletedAt = &now
	h.UpdatedAt = now
	h.Version++
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var changes []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			changes = append(changes, cloneHabit(h))
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})

	return changes, nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
	return nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.HabitCompletion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[string]*domain.HabitCompletion),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, completion *domain.HabitCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *completion
	r.store[completion.ID] = &clone
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.HabitCompletion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *InMemoryCompletionRepository) Update(ctx context.Context, completion *domain.HabitCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[completion.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrCompletionNotFound
	}
	if completion.Version != existing.Version+1 {
		return domain.ErrCompletionConflict
	}

	clone := *completion
	r.store[completion.ID] = &clone
	return nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.store[id]
	if !ok || c.UserID != userID || c.DeletedAt != nil {
		return domain.ErrCompletionNotFound
	}

	now := time.Now().UTC()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.Version++
	return nil
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitCompletion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.HabitCompletion
	for _, c := range r.store {
		if c.HabitID == habitID && c.DeletedAt == nil {
			clone := *c
			list = append(list, &clone)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})

	return list, nil
}

func (r *InMemoryCompletionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitCompletion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.HabitCompletion
	for _, c := range r.store {
		if c.UserID == userID && c.DeletedAt == nil {
			clone := *c
			list = append(list, &clone)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})

	return list, nil
}

func (r *InMemoryCompletionRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.HabitCompletion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var changes []*domain.HabitCompletion
	for _, c := range r.store {
		if c.UserID == userID && c.UpdatedAt.After(since) {
			clone := *c
			changes = append(changes, &clone)
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})

	return changes, nil
}

type InMemoryStackRepository struct {
	store map[string]*domain.HabitStack

	mu sync.RWMutex
}

func NewInMemoryStackRepository() *InMemoryStackRepository {
	return &InMemoryStackRepository{
		store: make(map[string]*domain.HabitStack),
	}
}

func cloneStack(s *domain.HabitStack) *domain.HabitStack {
	clone := *s
	clone.HabitOrder = append([]string(nil), s.HabitOrder...)
	return &clone
}

func (r *InMemoryStackRepository) Create(ctx context.Context, stack *domain.HabitStack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stack.Version == 0 {
		stack.Version = 1
	}
	r.store[stack.ID] = cloneStack(stack)
	return nil
}

func (r *InMemoryStackRepository) GetByID(ctx context.Context, id string) (*domain.HabitStack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[id]
	if !ok || s.DeletedAt != nil {
		return nil, domain.ErrStackNotFound
	}
	return cloneStack(s), nil
}

func (r *InMemoryStackRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitStack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stacks []*domain.HabitStack
	for _, s := range r.store {
		if s.UserID == userID && s.DeletedAt == nil {
			stacks = append(stacks, cloneStack(s))
		}
	}

	sort.Slice(stacks, func(i, j int) bool {
		return stacks[i].CreatedAt.Before(stacks[j].CreatedAt)
	})

	return stacks, nil
}

func (r *InMemoryStackRepository) Update(ctx context.Context, stack *domain.HabitStack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[stack.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrStackNotFound
	}
	if stack.Version != existing.Version {
		return domain.ErrStackConflict
	}

	stack.Version++
	stack.UpdatedAt = time.Now().UTC()
	r.store[stack.ID] = cloneStack(stack)
	return nil
}

func (r *InMemoryStackRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.store[id]
	if !ok || s.DeletedAt != nil {
		return domain.ErrStackNotFound
	}

	now := time.Now().UTC()
	s.DeletedAt = &now
	s.UpdatedAt = now
	s.Version++
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.store, id)
	return nil
}

// InMemoryDismissalStore keeps dismissed suggestion names per user. Used when
// Redis is not configured.
type InMemoryDismissalStore struct {
	dismissed map[string]map[string]bool

	mu sync.RWMutex
}

func NewInMemoryDismissalStore() *InMemoryDismissalStore {
	return &InMemoryDismissalStore{
		dismissed: make(map[string]map[string]bool),
	}
}

func (s *InMemoryDismissalStore) Dismiss(ctx context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dismissed[userID] == nil {
		s.dismissed[userID] = make(map[string]bool)
	}
	s.dismissed[userID][name] = true
	return nil
}

func (s *InMemoryDismissalStore) IsDismissed(ctx context.Context, userID, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dismissed[userID][name], nil
}

func (s *InMemoryDismissalStore) ListDismissed(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name := range s.dismissed[userID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *InMemoryDismissalStore) Reset(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.dismissed, userID)
	return nil
}
