package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var restDays pq.Int64Array

	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Icon, &h.Color,
		&h.HabitType, &h.DataSource,
		&h.DailyGoal, &h.InitialGoal, &h.GoalProgression,
		&h.GoalIncrement, &h.GoalIncrementIntervalDays,
		&restDays, &h.LastGoalAdjustment,
		&h.StackID, &h.StackOrder,
		&h.CurrentStreak, &h.LongestStreak,
		&h.Version, &h.DeletedAt, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, d := range restDays {
		h.RestDays = append(h.RestDays, int(d))
	}

	return &h, nil
}

func restDaysArray(days []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (
            id, user_id, name, icon, color,
            habit_type, data_source,
            daily_goal, initial_goal, goal_progression,
            goal_increment, goal_increment_interval_days,
            rest_days, last_goal_adjustment,
            stack_id, stack_order,
            current_streak, longest_streak,
            version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7,
            $8, $9, $10,
            $11, $12,
            $13, $14,
            $15, $16,
            0, 0,
            1, NULL, $17, $18
        )`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Icon, h.Color,
		h.HabitType, h.DataSource,
		h.DailyGoal, h.InitialGoal, h.GoalProgression,
		h.GoalIncrement, h.GoalIncrementIntervalDays,
		restDaysArray(h.RestDays), h.LastGoalAdjustment,
		h.StackID, h.StackOrder,
		h.CreatedAt, h.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT * FROM habits WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	h, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT * FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
        UPDATE habits SET
            name=$1, icon=$2, color=$3,
            habit_type=$4, data_source=$5,
            daily_goal=$6, initial_goal=$7, goal_progression=$8,
            goal_increment=$9, goal_increment_interval_days=$10,
            rest_days=$11, last_goal_adjustment=$12,
            stack_id=$13, stack_order=$14,
            updated_at=NOW(), version = version + 1
        WHERE id=$15 AND version=$16 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		h.Name, h.Icon, h.Color,
		h.HabitType, h.DataSource,
		h.DailyGoal, h.InitialGoal, h.GoalProgression,
		h.GoalIncrement, h.GoalIncrementIntervalDays,
		restDaysArray(h.RestDays), h.LastGoalAdjustment,
		h.StackID, h.StackOrder,
		h.ID, h.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM habits WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, h.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrHabitNotFound
			}
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = newVersion
	h.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE habits
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	query := `
        SELECT * FROM habits
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("sync row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, nil
}

// UpdateStreaks bypasses optimistic locking on purpose: the worker's write
// must not race user edits, and the streak columns are derived data anyway.
func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
        UPDATE habits
        SET current_streak = $1, longest_streak = $2, updated_at = NOW()
        WHERE id = $3 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return fmt.Errorf("streak update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}
