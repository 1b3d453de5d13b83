package services_test

import (
	"context"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

type MockHabitRepo struct {
	store         map[string]*domain.Habit
	simulateError error
}

func NewMockHabitRepo() *MockHabitRepo {
	return &MockHabitRepo{
		store: make(map[string]*domain.Habit),
	}
}

func (m *MockHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if habit.Version == 0 {
		habit.Version = 1
	}
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (m *MockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	habit.Version++
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockHabitRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	h, ok := m.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	now := time.Now().UTC()
	h.DeletedAt = &now
	h.Version++
	h.UpdatedAt = now
	return nil
}

func (m *MockHabitRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	var changes []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			clone := *h
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

func (m *MockHabitRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	h, ok := m.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
	return nil
}

type MockCompletionRepo struct {
	store         map[string]*domain.HabitCompletion
	simulateError error
}

func NewMockCompletionRepo() *MockCompletionRepo {
	return &MockCompletionRepo{
		store: make(map[string]*domain.HabitCompletion),
	}
}

func (m *MockCompletionRepo) Create(ctx context.Context, c *domain.HabitCompletion) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *c
	m.store[c.ID] = &clone
	return nil
}

func (m *MockCompletionRepo) GetByID(ctx context.Context, id string) (*domain.HabitCompletion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockCompletionRepo) Update(ctx context.Context, c *domain.HabitCompletion) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[c.ID]; !ok {
		return domain.ErrCompletionNotFound
	}
	clone := *c
	m.store[c.ID] = &clone
	return nil
}

func (m *MockCompletionRepo) Delete(ctx context.Context, id string, userID string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	c, ok := m.store[id]
	if !ok || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	return nil
}

func (m *MockCompletionRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitCompletion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.HabitCompletion
	for _, c := range m.store {
		if c.HabitID == habitID && c.DeletedAt == nil {
			clone := *c
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockCompletionRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitCompletion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.HabitCompletion
	for _, c := range m.store {
		if c.UserID == userID && c.DeletedAt == nil {
			clone := *c
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockCompletionRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.HabitCompletion, error) {
	var changes []*domain.HabitCompletion
	for _, c := range m.store {
		if c.UserID == userID && c.UpdatedAt.After(since) {
			clone := *c
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

type MockStackRepo struct {
	store         map[string]*domain.HabitStack
	simulateError error
}

func NewMockStackRepo() *MockStackRepo {
	return &MockStackRepo{
		store: make(map[string]*domain.HabitStack),
	}
}

func cloneStack(s *domain.HabitStack) *domain.HabitStack {
	clone := *s
	clone.HabitOrder = append([]string(nil), s.HabitOrder...)
	return &clone
}

func (m *MockStackRepo) Create(ctx context.Context, stack *domain.HabitStack) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.store[stack.ID] = cloneStack(stack)
	return nil
}

func (m *MockStackRepo) GetByID(ctx context.Context, id string) (*domain.HabitStack, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return nil, domain.ErrStackNotFound
	}
	return cloneStack(s), nil
}

func (m *MockStackRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitStack, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.HabitStack
	for _, s := range m.store {
		if s.UserID == userID && s.DeletedAt == nil {
			list = append(list, cloneStack(s))
		}
	}
	return list, nil
}

func (m *MockStackRepo) Update(ctx context.Context, stack *domain.HabitStack) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[stack.ID]; !ok {
		return domain.ErrStackNotFound
	}
	stack.Version++
	m.store[stack.ID] = cloneStack(stack)
	return nil
}

func (m *MockStackRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	s, ok := m.store[id]
	if !ok {
		return domain.ErrStackNotFound
	}
	now := time.Now().UTC()
	s.DeletedAt = &now
	return nil
}

type MockDismissalStore struct {
	dismissed map[string]map[string]bool
}

func NewMockDismissalStore() *MockDismissalStore {
	return &MockDismissalStore{
		dismissed: make(map[string]map[string]bool),
	}
}

func (m *MockDismissalStore) Dismiss(ctx context.Context, userID, name string) error {
	if m.dismissed[userID] == nil {
		m.dismissed[userID] = make(map[string]bool)
	}
	m.dismissed[userID][name] = true
	return nil
}

func (m *MockDismissalStore) IsDismissed(ctx context.Context, userID, name string) (bool, error) {
	return m.dismissed[userID][name], nil
}

func (m *MockDismissalStore) ListDismissed(ctx context.Context, userID string) ([]string, error) {
	var names []string
	for name := range m.dismissed[userID] {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockDismissalStore) Reset(ctx context.Context, userID string) error {
	delete(m.dismissed, userID)
	return nil
}

type MockUserRepo struct {
	store         map[string]*domain.User
	simulateError error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		store: make(map[string]*domain.User),
	}
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, exists := m.store[user.ID]; exists {
		return domain.ErrEmailAlreadyExists
	}
	for _, u := range m.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.store, id)
	return nil
}
