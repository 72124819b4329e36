package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/timedeposit/timedeposit/internal/planner"
)

const (
	goalNameMaxLength        = 100
	goalDescriptionMaxLength = 500
)

// Form field names shared by the goal forms and the handlers.
const (
	FieldGoalName      = "name"
	FieldDescription   = "description"
	FieldTargetAmount  = "target_amount"
	FieldInitialAmount = "initial_amount"
	FieldMonthlyAmount = "monthly_amount"
	FieldTargetMonths  = "target_months"
)

// FieldErrors maps a form field name to the message shown under it.
type FieldErrors map[string]string

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// GoalInput is a parsed and validated goal form.
type GoalInput struct {
	Name          string
	Description   string
	TargetAmount  int64
	InitialAmount int64
	MonthlyAmount int64 // 0 when not filled in
	TargetMonths  int   // 0 when not filled in
}

// GoalForm holds the raw submitted values so a rejected form can be
// re-rendered exactly as the user typed it.
type GoalForm struct {
	Name          string
	Description   string
	TargetAmount  string
	InitialAmount string
	MonthlyAmount string
	TargetMonths  string
	LastFocused   string
}

func (f GoalForm) Trimmed() GoalForm {
	return GoalForm{
		Name:          strings.TrimSpace(f.Name),
		Description:   strings.TrimSpace(f.Description),
		TargetAmount:  strings.TrimSpace(f.TargetAmount),
		InitialAmount: strings.TrimSpace(f.InitialAmount),
		MonthlyAmount: strings.TrimSpace(f.MonthlyAmount),
		TargetMonths:  strings.TrimSpace(f.TargetMonths),
		LastFocused:   strings.TrimSpace(f.LastFocused),
	}
}

// ValidateGoal parses a goal form. The returned FieldErrors is empty when the
// input is valid.
func ValidateGoal(form GoalForm) (GoalInput, FieldErrors) {
	form = form.Trimmed()
	errs := FieldErrors{}
	var in GoalInput

	in.Name = form.Name
	if in.Name == "" {
		errs[FieldGoalName] = "Goal name is required."
	} else if utf8.RuneCountInString(in.Name) > goalNameMaxLength {
		errs[FieldGoalName] = "Goal name is too long (max 100 characters)."
	}

	in.Description = form.Description
	if utf8.RuneCountInString(in.Description) > goalDescriptionMaxLength {
		errs[FieldDescription] = "Description is too long (max 500 characters)."
	}

	if form.TargetAmount == "" {
		errs[FieldTargetAmount] = "Target amount is required."
	} else if v, ok := parseAmount(form.TargetAmount); !ok || v <= 0 {
		errs[FieldTargetAmount] = "Target amount must be a positive number."
	} else if v > MaxAmount {
		errs[FieldTargetAmount] = amountTooLarge
	} else {
		in.TargetAmount = v
	}

	if form.InitialAmount != "" {
		if v, ok := parseAmount(form.InitialAmount); !ok || v < 0 {
			errs[FieldInitialAmount] = "Initial amount cannot be negative."
		} else if v > MaxAmount {
			errs[FieldInitialAmount] = amountTooLarge
		} else {
			in.InitialAmount = v
		}
	}

	if form.MonthlyAmount != "" {
		if v, ok := parseAmount(form.MonthlyAmount); !ok || v <= 0 {
			errs[FieldMonthlyAmount] = "Monthly saving must be a positive number."
		} else if v > MaxAmount {
			errs[FieldMonthlyAmount] = amountTooLarge
		} else {
			in.MonthlyAmount = v
		}
	}

	if form.TargetMonths != "" {
		if v, ok := parseAmount(form.TargetMonths); !ok || v <= 0 {
			errs[FieldTargetMonths] = "Target months must be a positive number."
		} else if v > planner.MaxMonths {
			errs[FieldTargetMonths] = ScheduleTooLong
		} else {
			in.TargetMonths = int(v)
		}
	}

	if form.MonthlyAmount == "" && form.TargetMonths == "" {
		errs[FieldMonthlyAmount] = "Either monthly saving or target months must be filled in."
	}

	return in, errs
}

// ParseAmount reads a whole currency amount as typed into a number input.
// Thousands separators are accepted.
func ParseAmount(s string) (int64, bool) {
	return parseAmount(strings.TrimSpace(s))
}

// MaxAmount caps every amount field at one trillion yen.
const MaxAmount int64 = 1_000_000_000_000

const amountTooLarge = "Amount is too large (max ¥1,000,000,000,000)."

// ScheduleTooLong is shown when a schedule would run past 100 years.
const ScheduleTooLong = "The schedule cannot be longer than 1200 months (100 years)."

func parseAmount(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v, true
	}

	// Number inputs may submit "1000.0"; only whole amounts are accepted.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
