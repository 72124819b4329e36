package model

import (
	"time"
)

const (
	GoalTargetTypeDate     = "date"
	GoalTargetTypeDuration = "duration"
)

type Goal struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"-"`
	Name          string     `db:"name" json:"name"`
	Description   string     `db:"description" json:"description,omitempty"`
	TargetAmount  int64      `db:"target_amount" json:"targetAmount"`
	InitialAmount int64      `db:"initial_amount" json:"initialAmount"`
	CurrentAmount int64      `db:"current_amount" json:"currentAmount"`
	MonthlyAmount int64      `db:"monthly_amount" json:"monthlyAmount,omitempty"`
	TargetDate    *time.Time `db:"target_date" json:"targetDate,omitempty"`
	TargetType    string     `db:"target_type" json:"targetType"`
	SortOrder     int        `db:"sort_order" json:"sortOrder"`
	IsCompleted   bool       `db:"is_completed" json:"isCompleted"`
	IsDeleted     bool       `db:"is_deleted" json:"-"`

	// Stats are maintained by transactions, never by goal updates.
	TotalDeposited   int64      `db:"total_deposited" json:"totalDeposited"`
	TransactionCount int        `db:"transaction_count" json:"transactionCount"`
	LastDepositDate  *time.Time `db:"last_deposit_date" json:"lastDepositDate,omitempty"`
	Progress         float64    `db:"progress" json:"progress"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CalculateProgress returns current/target as a percentage. The result is not
// clamped; a goal that was over-funded reports more than 100.
func CalculateProgress(current, target int64) float64 {
	if target <= 0 {
		return 0
	}
	return float64(current) / float64(target) * 100
}

// DisplayProgress is Progress clamped to [0, 100].
func (g *Goal) DisplayProgress() float64 {
	switch {
	case g.Progress < 0:
		return 0
	case g.Progress > 100:
		return 100
	}
	return g.Progress
}

func (g *Goal) Remaining() int64 {
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GoalPatch is a partial update. Nil fields are left untouched.
type GoalPatch struct {
	Name          *string
	Description   *string
	TargetAmount  *int64
	InitialAmount *int64
	MonthlyAmount *int64
	TargetDate    *time.Time
	TargetType    *string
	SortOrder     *int
	IsCompleted   *bool
	Progress      *float64
}

func (p GoalPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.TargetAmount == nil &&
		p.InitialAmount == nil &&
		p.MonthlyAmount == nil &&
		p.TargetDate == nil &&
		p.TargetType == nil &&
		p.SortOrder == nil &&
		p.IsCompleted == nil &&
		p.Progress == nil
}

// GoalSummary aggregates a user's active goals for the dashboard.
type GoalSummary struct {
	GoalCount      int   `json:"goalCount"`
	CompletedCount int   `json:"completedCount"`
	TotalSaved     int64 `json:"totalSaved"`
	TotalTarget    int64 `json:"totalTarget"`
	MonthlyTotal   int64 `json:"monthlyTotal"`
}

func (s GoalSummary) Progress() float64 {
	p := CalculateProgress(s.TotalSaved, s.TotalTarget)
	if p > 100 {
		return 100
	}
	return p
}
