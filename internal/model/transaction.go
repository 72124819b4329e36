package model

import (
	"time"
)

const (
	TransactionTypeAuto   = "auto"
	TransactionTypeManual = "manual"
	TransactionTypeBonus  = "bonus"
)

func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeAuto, TransactionTypeManual, TransactionTypeBonus:
		return true
	}
	return false
}

type Transaction struct {
	ID          string    `db:"id" json:"id"`
	GoalID      string    `db:"goal_id" json:"goalId"`
	UserID      string    `db:"user_id" json:"-"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description,omitempty"`
	ExecutedAt  time.Time `db:"executed_at" json:"executedAt"`
	IsDeleted   bool      `db:"is_deleted" json:"-"`
}
