package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/timedeposit/timedeposit/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrEmptyPatch   = errors.New("nothing to update")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	NextSortOrder(ctx context.Context, userID string) (int, error)
	Summary(ctx context.Context, userID string) (model.GoalSummary, error)
	Update(ctx context.Context, userID, goalID string, patch model.GoalPatch) error
	Reorder(ctx context.Context, userID string, goalIDs []string) error
	SoftDelete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

const goalColumns = `id, user_id, name, description, target_amount, initial_amount, current_amount,
	monthly_amount, target_date, target_type, sort_order, is_completed, is_deleted,
	total_deposited, transaction_count, last_deposit_date, progress, created_at, updated_at`

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.InitialAmount,
		goal.CurrentAmount,
		goal.MonthlyAmount,
		goal.TargetDate,
		goal.TargetType,
		goal.SortOrder,
		goal.IsCompleted,
		goal.IsDeleted,
		goal.TotalDeposited,
		goal.TransactionCount,
		goal.LastDepositDate,
		goal.Progress,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return goalByID(ctx, r.db, userID, goalID)
}

// goalByID is shared with the transaction repository so stats can be re-read
// inside a database transaction.
func goalByID(ctx context.Context, q sqlx.QueryerContext, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`

	err := sqlx.GetContext(ctx, q, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals
	          WHERE user_id = $1 AND is_deleted = FALSE
	          ORDER BY sort_order ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) NextSortOrder(ctx context.Context, userID string) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(sort_order) + 1, 0) FROM goals WHERE user_id = $1 AND is_deleted = FALSE`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&next)
	return next, err
}

func (r *goalRepository) Summary(ctx context.Context, userID string) (model.GoalSummary, error) {
	var summary model.GoalSummary
	query := `SELECT COUNT(*),
	                 COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(current_amount), 0),
	                 COALESCE(SUM(target_amount), 0),
	                 COALESCE(SUM(CASE WHEN is_completed THEN 0 ELSE monthly_amount END), 0)
	          FROM goals WHERE user_id = $1 AND is_deleted = FALSE`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.GoalCount,
		&summary.CompletedCount,
		&summary.TotalSaved,
		&summary.TotalTarget,
		&summary.MonthlyTotal,
	)

	return summary, err
}

// Update applies a partial update. updated_at is always refreshed; soft
// deleted goals are treated as missing.
func (r *goalRepository) Update(ctx context.Context, userID, goalID string, patch model.GoalPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.TargetAmount != nil {
		set("target_amount", *patch.TargetAmount)
	}
	if patch.InitialAmount != nil {
		set("initial_amount", *patch.InitialAmount)
	}
	if patch.MonthlyAmount != nil {
		set("monthly_amount", *patch.MonthlyAmount)
	}
	if patch.TargetDate != nil {
		set("target_date", *patch.TargetDate)
	}
	if patch.TargetType != nil {
		set("target_type", *patch.TargetType)
	}
	if patch.SortOrder != nil {
		set("sort_order", *patch.SortOrder)
	}
	if patch.IsCompleted != nil {
		set("is_completed", *patch.IsCompleted)
	}
	if patch.Progress != nil {
		set("progress", *patch.Progress)
	}
	set("updated_at", time.Now())

	args = append(args, goalID, userID)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = $%d AND user_id = $%d AND is_deleted = FALSE`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

// Reorder assigns sort_order 0..n-1 following goalIDs. Every id must belong to
// the user; otherwise nothing is changed.
func (r *goalRepository) Reorder(ctx context.Context, userID string, goalIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE goals SET sort_order = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND is_deleted = FALSE`

	now := time.Now()
	for i, goalID := range goalIDs {
		result, err := tx.ExecContext(ctx, query, i, now, goalID, userID)
		if err != nil {
			return fmt.Errorf("failed to reorder goal %s: %w", goalID, err)
		}

		err = expectRows(result, ErrGoalNotFound)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *goalRepository) SoftDelete(ctx context.Context, userID, goalID string) error {
	query := `UPDATE goals SET is_deleted = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE`

	result, err := r.db.ExecContext(ctx, query, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
