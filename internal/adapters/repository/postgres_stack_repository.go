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
)

type PostgresStackRepository struct {
	db *sqlx.DB
}

func NewPostgresStackRepository(db *sqlx.DB) *PostgresStackRepository {
	return &PostgresStackRepository{db: db}
}

func (r *PostgresStackRepository) scanRow(row scannable) (*domain.HabitStack, error) {
	var s domain.HabitStack
	var habitOrder pq.StringArray

	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Icon, &s.Color,
		&habitOrder, &s.IsActive, &s.NotifyOnChainProgress,
		&s.Version, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.HabitOrder = []string(habitOrder)
	return &s, nil
}

func (r *PostgresStackRepository) Create(ctx context.Context, stack *domain.HabitStack) error {
	query := `
        INSERT INTO habit_stacks (
            id, user_id, name, icon, color,
            habit_order, is_active, notify_on_chain_progress,
            version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8,
            1, NULL, $9, $10
        )`

	_, err := r.db.ExecContext(ctx, query,
		stack.ID, stack.UserID, stack.Name, stack.Icon, stack.Color,
		pq.StringArray(stack.HabitOrder), stack.IsActive, stack.NotifyOnChainProgress,
		stack.CreatedAt, stack.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert stack: %w", err)
	}

	stack.Version = 1
	return nil
}

func (r *PostgresStackRepository) GetByID(ctx context.Context, id string) (*domain.HabitStack, error) {
	query := `SELECT * FROM habit_stacks WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	s, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStackNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return s, nil
}

func (r *PostgresStackRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitStack, error) {
	query := `
        SELECT * FROM habit_stacks
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var stacks []*domain.HabitStack

	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		stacks = append(stacks, s)
	}

	return stacks, nil
}

func (r *PostgresStackRepository) Update(ctx context.Context, stack *domain.HabitStack) error {
	query := `
        UPDATE habit_stacks SET
            name=$1, icon=$2, color=$3,
            habit_order=$4, is_active=$5, notify_on_chain_progress=$6,
            updated_at=NOW(), version = version + 1
        WHERE id=$7 AND version=$8 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		stack.Name, stack.Icon, stack.Color,
		pq.StringArray(stack.HabitOrder), stack.IsActive, stack.NotifyOnChainProgress,
		stack.ID, stack.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM habit_stacks WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, stack.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrStackNotFound
			}
			return domain.ErrStackConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	stack.Version = newVersion
	stack.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresStackRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE habit_stacks
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
		return domain.ErrStackNotFound
	}

	return nil
}
