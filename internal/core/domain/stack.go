package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStackNotFound       = errors.New("stack not found")
	ErrStackNameEmpty      = errors.New("stack name cannot be empty")
	ErrStackConflict       = errors.New("stack version conflict")
	ErrHabitAlreadyInStack = errors.New("habit already belongs to a stack")
	ErrHabitNotInStack     = errors.New("habit is not a member of this stack")
	ErrInvalidStackMove    = errors.New("invalid stack reorder indices")
)

// MinStackSize is the smallest structurally valid chain.
const MinStackSize = 2

// HabitStack is an ordered chain of habit identifiers meant to be completed
// together. Member habits point back via Habit.StackID / Habit.StackOrder.
type HabitStack struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Icon   string `json:"icon" db:"icon"`
	Color  string `json:"color" db:"color"`

	HabitOrder []string `json:"habit_order" db:"-"`

	IsActive              bool `json:"is_active" db:"is_active"`
	NotifyOnChainProgress bool `json:"notify_on_chain_progress" db:"notify_on_chain_progress"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewHabitStack(userID, name, icon, color string) (*HabitStack, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrStackNameEmpty
	}
	if color != "" && !colorRegex.MatchString(color) {
		return nil, ErrInvalidColor
	}
	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	return &HabitStack{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Name:                  strings.TrimSpace(name),
		Icon:                  icon,
		Color:                 color,
		IsActive:              true,
		NotifyOnChainProgress: true,
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// IsValid reports whether the stack has enough members to form a chain.
func (s *HabitStack) IsValid() bool {
	return len(s.HabitOrder) >= MinStackSize
}

func (s *HabitStack) Contains(habitID string) bool {
	for _, id := range s.HabitOrder {
		if id == habitID {
			return true
		}
	}
	return false
}

func (s *HabitStack) Append(habitID string) {
	s.HabitOrder = append(s.HabitOrder, habitID)
	s.UpdatedAt = time.Now().UTC()
}

func (s *HabitStack) Remove(habitID string) error {
	for i, id := range s.HabitOrder {
		if id == habitID {
			s.HabitOrder = append(s.HabitOrder[:i], s.HabitOrder[i+1:]...)
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrHabitNotInStack
}

// Move relocates the member at index from to index to, shifting the rest.
func (s *HabitStack) Move(from, to int) error {
	n := len(s.HabitOrder)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrInvalidStackMove
	}
	if from == to {
		return nil
	}

	id := s.HabitOrder[from]
	rest := append(s.HabitOrder[:from:from], s.HabitOrder[from+1:]...)
	reordered := make([]string, 0, n)
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, id)
	reordered = append(reordered, rest[to:]...)

	s.HabitOrder = reordered
	s.UpdatedAt = time.Now().UTC()
	return nil
}
