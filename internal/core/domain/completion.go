package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCompletion   = errors.New("invalid habit completion data")
	ErrCompletionNotFound  = errors.New("completion not found")
	ErrCompletionConflict  = errors.New("completion version conflict")
	ErrCompletionNegative  = errors.New("completion value cannot be negative")
	ErrCompletionNoHabitID = errors.New("habit_id is required")
)

// HabitCompletion records one completion of a habit on a given calendar day.
// Multiple rows may exist for the same day; the analytics layer
// de-duplicates by calendar day rather than assuming uniqueness here.
type HabitCompletion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Date         time.Time `json:"date" db:"date"`
	Value        float64   `json:"value" db:"value"`
	IsAutoSynced bool      `json:"is_auto_synced" db:"is_auto_synced"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewHabitCompletion(habitID, userID string, date time.Time, value float64, autoSynced bool) *HabitCompletion {
	now := time.Now().UTC()

	return &HabitCompletion{
		ID:           uuid.New().String(),
		HabitID:      habitID,
		UserID:       userID,
		Date:         date,
		Value:        value,
		IsAutoSynced: autoSynced,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *HabitCompletion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return ErrCompletionNoHabitID
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if c.Value < 0 {
		return ErrCompletionNegative
	}
	if c.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
