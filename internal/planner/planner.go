// Package planner derives a savings schedule from a target amount, the amount
// already saved and either a monthly contribution or a number of months.
package planner

import (
	"errors"
	"time"
)

// Field names the schedule input the user edited last.
type Field string

const (
	FieldMonthly Field = "monthly_amount"
	FieldMonths  Field = "target_months"
)

// MaxMonths bounds every schedule to 100 years.
const MaxMonths = 1200

var (
	ErrScheduleRequired = errors.New("either monthly saving or target months must be filled in")
	ErrScheduleTooLong  = errors.New("schedule is longer than 100 years")
)

type Input struct {
	TargetAmount      int64
	AccumulatedAmount int64
	MonthlyAmount     int64 // 0 means not supplied
	TargetMonths      int   // 0 means not supplied
	LastFocused       Field
}

type Plan struct {
	// Ready is false when the target amount is not usable yet. Nothing else
	// in the plan is meaningful in that case.
	Ready bool
	// Achieved is true when the accumulated amount already covers the target.
	Achieved bool

	MonthlyAmount int64
	TargetMonths  int
	TargetDate    time.Time

	// Authoritative is the field the plan was derived from; Changed reports
	// whether the other field differs from the input and needs rewriting.
	Authoritative Field
	Changed       bool
}

// Remaining is the amount still to save. It may be zero or negative.
func (in Input) Remaining() int64 {
	return in.TargetAmount - in.AccumulatedAmount
}

// Reconcile fills in whichever of monthly amount and month count was not
// edited last, and computes the completion date relative to now.
func Reconcile(in Input, now time.Time) (Plan, error) {
	plan := Plan{
		MonthlyAmount: in.MonthlyAmount,
		TargetMonths:  in.TargetMonths,
	}

	if in.TargetAmount <= 0 {
		return plan, nil
	}

	authoritative, err := authoritativeField(in)
	if err != nil {
		return plan, err
	}
	plan.Ready = true
	plan.Authoritative = authoritative

	remaining := in.Remaining()
	if remaining <= 0 {
		plan.Achieved = true
		plan.TargetDate = now
		return plan, nil
	}

	switch authoritative {
	case FieldMonths:
		if in.TargetMonths > MaxMonths {
			return plan, ErrScheduleTooLong
		}
		monthly := ceilDiv(remaining, int64(in.TargetMonths))
		if monthly != in.MonthlyAmount {
			plan.MonthlyAmount = monthly
			plan.Changed = true
		}
	case FieldMonthly:
		n := ceilDiv(remaining, in.MonthlyAmount)
		if n > MaxMonths {
			return plan, ErrScheduleTooLong
		}
		months := int(n)
		if months != in.TargetMonths {
			plan.TargetMonths = months
			plan.Changed = true
		}
	}

	plan.TargetDate = AddMonths(now, plan.TargetMonths)
	return plan, nil
}

// AddMonths advances t by n calendar months. Days past the end of the
// resulting month roll over into the next one, as time.AddDate does.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

func authoritativeField(in Input) (Field, error) {
	hasMonthly := in.MonthlyAmount > 0
	hasMonths := in.TargetMonths > 0

	switch {
	case !hasMonthly && !hasMonths:
		return "", ErrScheduleRequired
	case in.LastFocused == FieldMonths && hasMonths:
		return FieldMonths, nil
	case in.LastFocused == FieldMonthly && hasMonthly:
		return FieldMonthly, nil
	case hasMonthly:
		return FieldMonthly, nil
	default:
		return FieldMonths, nil
	}
}

// ceilDiv rounds a/b up for positive a and b without overflowing.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
