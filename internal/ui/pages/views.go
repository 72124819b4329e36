package pages

import (
	"time"

	"github.com/a-h/templ"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/planner"
	"github.com/timedeposit/timedeposit/internal/validation"
)

type DashboardData struct {
	Summary model.GoalSummary
	Goals   GoalsData
}

type GoalsData struct {
	Goals []*model.Goal
	OOB   bool
}

// DepositForm holds the raw deposit form values.
type DepositForm struct {
	Amount      string
	Type        string
	Description string
}

type GoalDetailData struct {
	Goal         *model.Goal
	Transactions []*model.Transaction
	Deposit      DepositForm
	Errors       validation.FieldErrors
	OOB          bool
}

type GoalFormData struct {
	GoalID  string // empty when creating
	Form    validation.GoalForm
	Errors  validation.FieldErrors
	Preview PlanPreview
}

// PlanInput is one of the two reconciled schedule fields.
type PlanInput struct {
	Name  string
	Label string
	Value string
	Error string
	OOB   bool
}

type PlanPreview struct {
	Ready    bool
	Achieved bool
	TooLong  bool
	Monthly  int64
	Months   int
	Date     time.Time
	OOB      bool
}

func NewPlanPreview(plan planner.Plan) PlanPreview {
	return PlanPreview{
		Ready:    plan.Ready,
		Achieved: plan.Achieved,
		Monthly:  plan.MonthlyAmount,
		Months:   plan.TargetMonths,
		Date:     plan.TargetDate,
	}
}

type SettingsData struct {
	Email   string
	Profile *model.Profile
	Name    string
	Errors  validation.FieldErrors
}

func (d GoalFormData) MonthlyInput() PlanInput {
	return PlanInput{
		Name:  validation.FieldMonthlyAmount,
		Label: "Monthly saving (¥)",
		Value: d.Form.MonthlyAmount,
		Error: d.Errors.Get(validation.FieldMonthlyAmount),
	}
}

func (d GoalFormData) MonthsInput() PlanInput {
	return PlanInput{
		Name:  validation.FieldTargetMonths,
		Label: "Months to target",
		Value: d.Form.TargetMonths,
		Error: d.Errors.Get(validation.FieldTargetMonths),
	}
}

// Landing is the public home page. message is shown when sign-in failed.
func Landing(message string) templ.Component {
	return page("landing", "", message)
}

func Dashboard(data DashboardData) templ.Component {
	return page("dashboard", "Dashboard", data)
}

func Goals(data GoalsData) templ.Component {
	return page("goals", "Goals", data)
}

func GoalsContent(data GoalsData) templ.Component {
	return fragment("goals-content", data)
}

func GoalDetail(data GoalDetailData) templ.Component {
	return page("goal_detail", data.Goal.Name, data)
}

func GoalDetailContent(data GoalDetailData) templ.Component {
	return fragment("goal-detail-content", data)
}

func GoalFormDialog(data GoalFormData) templ.Component {
	return fragment("goal-form-dialog", data)
}

func GoalDeleteDialog(goal *model.Goal) templ.Component {
	return fragment("goal-delete-dialog", goal)
}

// DialogClosed empties the dialog slot.
func DialogClosed() templ.Component {
	return templ.NopComponent
}

func PlanField(input PlanInput) templ.Component {
	input.OOB = true
	return fragment("plan-input", input)
}

func PlanSummary(preview PlanPreview) templ.Component {
	preview.OOB = true
	return fragment("plan-preview", preview)
}

func Settings(data SettingsData) templ.Component {
	return page("settings", "Settings", data)
}

func SettingsForm(data SettingsData) templ.Component {
	return fragment("settings-form", data)
}

func NotFound() templ.Component {
	return page("not_found", "Not found", nil)
}
