package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/timedeposit/timedeposit/internal/model"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

type TransactionRepository interface {
	// Record stores a deposit and folds it into the goal's amount and stats.
	// It returns the goal as it is after the deposit.
	Record(ctx context.Context, txn *model.Transaction) (*model.Goal, error)
	Transactions(ctx context.Context, userID, goalID string) ([]*model.Transaction, error)
	// Remove soft deletes a deposit and reverses its effect on the goal.
	Remove(ctx context.Context, userID, goalID, transactionID string) (*model.Goal, error)
}

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Record(ctx context.Context, txn *model.Transaction) (*model.Goal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insert := `INSERT INTO transactions (id, goal_id, user_id, amount, type, description, executed_at, is_deleted)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.ExecContext(ctx, insert,
		txn.ID,
		txn.GoalID,
		txn.UserID,
		txn.Amount,
		txn.Type,
		txn.Description,
		txn.ExecutedAt,
		false,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	// The right-hand sides see the row as it was before this statement.
	update := `UPDATE goals SET
	               current_amount = current_amount + $1,
	               total_deposited = total_deposited + $2,
	               transaction_count = transaction_count + 1,
	               last_deposit_date = $3,
	               progress = (current_amount + $4) * 100.0 / target_amount,
	               is_completed = CASE WHEN current_amount + $5 >= target_amount THEN TRUE ELSE is_completed END,
	               updated_at = $6
	           WHERE id = $7 AND user_id = $8 AND is_deleted = FALSE`

	result, err := tx.ExecContext(ctx, update,
		txn.Amount,
		txn.Amount,
		txn.ExecutedAt,
		txn.Amount,
		txn.Amount,
		time.Now(),
		txn.GoalID,
		txn.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal stats: %w", err)
	}

	err = expectRows(result, ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	goal, err := goalByID(ctx, tx, txn.UserID, txn.GoalID)
	if err != nil {
		return nil, err
	}

	return goal, tx.Commit()
}

func (r *transactionRepository) Transactions(ctx context.Context, userID, goalID string) ([]*model.Transaction, error) {
	transactions := []*model.Transaction{}
	query := `SELECT id, goal_id, user_id, amount, type, description, executed_at, is_deleted
	          FROM transactions
	          WHERE goal_id = $1 AND user_id = $2 AND is_deleted = FALSE
	          ORDER BY executed_at DESC`

	err := r.db.SelectContext(ctx, &transactions, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *transactionRepository) Remove(ctx context.Context, userID, goalID, transactionID string) (*model.Goal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var amount int64
	err = tx.QueryRowxContext(ctx, `SELECT amount FROM transactions
	          WHERE id = $1 AND goal_id = $2 AND user_id = $3 AND is_deleted = FALSE`,
		transactionID, goalID, userID,
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE transactions SET is_deleted = TRUE WHERE id = $1`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}

	update := `UPDATE goals SET
	               current_amount = current_amount - $1,
	               total_deposited = total_deposited - $2,
	               transaction_count = transaction_count - 1,
	               last_deposit_date = (SELECT MAX(executed_at) FROM transactions WHERE goal_id = $3 AND is_deleted = FALSE),
	               progress = (current_amount - $4) * 100.0 / target_amount,
	               is_completed = CASE WHEN current_amount - $5 >= target_amount THEN is_completed ELSE FALSE END,
	               updated_at = $6
	           WHERE id = $7 AND user_id = $8 AND is_deleted = FALSE`

	result, err := tx.ExecContext(ctx, update,
		amount,
		amount,
		goalID,
		amount,
		amount,
		time.Now(),
		goalID,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal stats: %w", err)
	}

	err = expectRows(result, ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	goal, err := goalByID(ctx, tx, userID, goalID)
	if err != nil {
		return nil, err
	}

	return goal, tx.Commit()
}
