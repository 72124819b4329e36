package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGoal(t *testing.T) {
	in, errs := ValidateGoal(GoalForm{
		Name:          "  New Laptop ",
		TargetAmount:  "150000",
		InitialAmount: "",
		TargetMonths:  "15",
	})

	assert.False(t, errs.Any())
	assert.Equal(t, "New Laptop", in.Name)
	assert.Equal(t, int64(150000), in.TargetAmount)
	assert.Equal(t, int64(0), in.InitialAmount)
	assert.Equal(t, int64(0), in.MonthlyAmount)
	assert.Equal(t, 15, in.TargetMonths)
}

func TestValidateGoalFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		form    GoalForm
		field   string
		message string
	}{
		{
			name:    "missing name",
			form:    GoalForm{TargetAmount: "100", MonthlyAmount: "10"},
			field:   FieldGoalName,
			message: "Goal name is required.",
		},
		{
			name:    "missing target",
			form:    GoalForm{Name: "Trip", MonthlyAmount: "10"},
			field:   FieldTargetAmount,
			message: "Target amount is required.",
		},
		{
			name:    "non numeric target",
			form:    GoalForm{Name: "Trip", TargetAmount: "lots", MonthlyAmount: "10"},
			field:   FieldTargetAmount,
			message: "Target amount must be a positive number.",
		},
		{
			name:    "zero target",
			form:    GoalForm{Name: "Trip", TargetAmount: "0", MonthlyAmount: "10"},
			field:   FieldTargetAmount,
			message: "Target amount must be a positive number.",
		},
		{
			name:    "negative initial",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", InitialAmount: "-1", MonthlyAmount: "10"},
			field:   FieldInitialAmount,
			message: "Initial amount cannot be negative.",
		},
		{
			name:    "zero monthly",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", MonthlyAmount: "0"},
			field:   FieldMonthlyAmount,
			message: "Monthly saving must be a positive number.",
		},
		{
			name:    "negative months",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", TargetMonths: "-3"},
			field:   FieldTargetMonths,
			message: "Target months must be a positive number.",
		},
		{
			name:    "multibyte name too long",
			form:    GoalForm{Name: strings.Repeat("貯", 101), TargetAmount: "100", MonthlyAmount: "10"},
			field:   FieldGoalName,
			message: "Goal name is too long (max 100 characters).",
		},
		{
			name:    "target above limit",
			form:    GoalForm{Name: "Trip", TargetAmount: "9223372036854775807", MonthlyAmount: "10"},
			field:   FieldTargetAmount,
			message: "Amount is too large (max ¥1,000,000,000,000).",
		},
		{
			name:    "initial above limit",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", InitialAmount: "1,000,000,000,001", MonthlyAmount: "10"},
			field:   FieldInitialAmount,
			message: "Amount is too large (max ¥1,000,000,000,000).",
		},
		{
			name:    "monthly above limit",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", MonthlyAmount: "9000000000000000000"},
			field:   FieldMonthlyAmount,
			message: "Amount is too large (max ¥1,000,000,000,000).",
		},
		{
			name:    "months above limit",
			form:    GoalForm{Name: "Trip", TargetAmount: "100", TargetMonths: "1201"},
			field:   FieldTargetMonths,
			message: "The schedule cannot be longer than 1200 months (100 years).",
		},
		{
			name:    "no schedule",
			form:    GoalForm{Name: "Trip", TargetAmount: "100"},
			field:   FieldMonthlyAmount,
			message: "Either monthly saving or target months must be filled in.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ValidateGoal(tt.form)
			assert.True(t, errs.Has(tt.field), "errors: %v", errs)
			assert.Equal(t, tt.message, errs.Get(tt.field))
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount("1,500")
	assert.True(t, ok)
	assert.Equal(t, int64(1500), v)

	v, ok = ParseAmount("2000.0")
	assert.True(t, ok)
	assert.Equal(t, int64(2000), v)

	_, ok = ParseAmount("12.5")
	assert.False(t, ok)

	_, ok = ParseAmount("")
	assert.False(t, ok)
}

func TestValidateGoalCountsCharacters(t *testing.T) {
	in, errs := ValidateGoal(GoalForm{
		Name:         strings.Repeat("貯", 40),
		Description:  strings.Repeat("金", 500),
		TargetAmount: "1,000,000,000,000",
		TargetMonths: "1200",
	})

	assert.False(t, errs.Any(), "errors: %v", errs)
	assert.Equal(t, 40, len([]rune(in.Name)))
	assert.Equal(t, MaxAmount, in.TargetAmount)
	assert.Equal(t, 1200, in.TargetMonths)
}
