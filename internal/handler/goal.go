package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/planner"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/components/toast"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
	"github.com/timedeposit/timedeposit/internal/validation"
)

type GoalHandler struct {
	goalService        *service.GoalService
	transactionService *service.TransactionService
	exportService      *service.ExportService
}

func NewGoalHandler(goalService *service.GoalService, transactionService *service.TransactionService, exportService *service.ExportService) *GoalHandler {
	return &GoalHandler{
		goalService:        goalService,
		transactionService: transactionService,
		exportService:      exportService,
	}
}

func (h *GoalHandler) GoalsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	goals, err := h.goalService.Goals(ctx, user.ID)
	if err != nil {
		slog.Error("failed to get goals", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load goals", http.StatusInternalServerError)
		return
	}

	if ui.IsHTMX(r) {
		ui.Render(w, r, pages.GoalsContent(pages.GoalsData{Goals: goals}))
		return
	}

	ui.Render(w, r, pages.Goals(pages.GoalsData{Goals: goals}))
}

func (h *GoalHandler) GoalDetailPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	data, err := h.detail(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to get goal", goalID)
		return
	}

	ui.Render(w, r, pages.GoalDetail(data))
}

func (h *GoalHandler) NewDialog(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.GoalFormDialog(pages.GoalFormData{
		Form: validation.GoalForm{LastFocused: string(planner.FieldMonthly)},
	}))
}

func (h *GoalHandler) EditDialog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to get goal", goalID)
		return
	}

	form := validation.GoalForm{
		Name:         goal.Name,
		Description:  goal.Description,
		TargetAmount: strconv.FormatInt(goal.TargetAmount, 10),
		LastFocused:  string(planner.FieldMonthly),
	}
	if goal.MonthlyAmount > 0 {
		form.MonthlyAmount = strconv.FormatInt(goal.MonthlyAmount, 10)
	}

	// Months are not stored; derive them from the monthly amount.
	plan, err := h.goalService.Plan(planner.Input{
		TargetAmount:      goal.TargetAmount,
		AccumulatedAmount: goal.CurrentAmount,
		MonthlyAmount:     goal.MonthlyAmount,
		LastFocused:       planner.FieldMonthly,
	})
	if err == nil && plan.TargetMonths > 0 {
		form.TargetMonths = strconv.Itoa(plan.TargetMonths)
	}

	ui.Render(w, r, pages.GoalFormDialog(pages.GoalFormData{
		GoalID:  goal.ID,
		Form:    form,
		Preview: pages.NewPlanPreview(plan),
	}))
}

func (h *GoalHandler) DeleteDialog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to get goal", goalID)
		return
	}

	ui.Render(w, r, pages.GoalDeleteDialog(goal))
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	form := goalForm(r)
	in, errs := validation.ValidateGoal(form)
	if errs.Any() {
		h.renderInvalid(w, r, "", form, errs, in.InitialAmount)
		return
	}

	goal, err := h.goalService.Create(ctx, user.ID, in, planner.Field(form.LastFocused))
	if errs := scheduleErrors(err); errs != nil {
		h.renderInvalid(w, r, "", form, errs, in.InitialAmount)
		return
	}
	if err != nil {
		slog.Error("failed to create goal", "error", err, "user_id", user.ID)
		toastOnly(w, r, "Failed to create goal")
		return
	}

	goals, err := h.goalService.Goals(ctx, user.ID)
	if err != nil {
		slog.Error("failed to reload goals", "error", err, "user_id", user.ID)
		goals = []*model.Goal{goal}
	}

	ui.Render(w, r, pages.DialogClosed())
	ui.Render(w, r, pages.GoalsContent(pages.GoalsData{Goals: goals, OOB: true}))
	ui.RenderToast(w, r, toast.Success(fmt.Sprintf("Goal “%s” created", goal.Name)))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	current, err := h.goalService.ByID(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to get goal", goalID)
		return
	}

	form := goalForm(r)
	in, errs := validation.ValidateGoal(form)
	if errs.Any() {
		h.renderInvalid(w, r, goalID, form, errs, current.CurrentAmount)
		return
	}

	_, err = h.goalService.Update(ctx, user.ID, goalID, in, planner.Field(form.LastFocused))
	if errs := scheduleErrors(err); errs != nil {
		h.renderInvalid(w, r, goalID, form, errs, current.CurrentAmount)
		return
	}
	if err != nil {
		h.goalError(w, r, err, "failed to update goal", goalID)
		return
	}

	data, err := h.detail(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to reload goal", goalID)
		return
	}
	data.OOB = true

	ui.Render(w, r, pages.DialogClosed())
	ui.Render(w, r, pages.GoalDetailContent(data))
	ui.RenderToast(w, r, toast.Success("Goal updated"))
}

// Plan backs the live calculator in the goal dialogs. It answers only with
// out-of-band swaps: the preview line always, and the field that was not
// edited last when its value changed.
func (h *GoalHandler) Plan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	form := goalForm(r).Trimmed()
	in := planner.Input{LastFocused: planner.Field(form.LastFocused)}
	in.TargetAmount, _ = validation.ParseAmount(form.TargetAmount)
	in.MonthlyAmount, _ = validation.ParseAmount(form.MonthlyAmount)
	months, _ := validation.ParseAmount(form.TargetMonths)
	in.TargetMonths = int(months)

	if goalID := r.FormValue("goal_id"); goalID != "" {
		goal, err := h.goalService.ByID(ctx, user.ID, goalID)
		if err != nil {
			h.goalError(w, r, err, "failed to get goal for plan", goalID)
			return
		}
		in.AccumulatedAmount = goal.CurrentAmount
	} else {
		in.AccumulatedAmount, _ = validation.ParseAmount(form.InitialAmount)
	}

	// Out-of-range inputs are left to form validation.
	if !inAmountRange(in.TargetAmount) || !inAmountRange(in.MonthlyAmount) || in.AccumulatedAmount < 0 || months < 0 {
		ui.Render(w, r, pages.PlanSummary(pages.PlanPreview{}))
		return
	}
	if months > planner.MaxMonths {
		ui.Render(w, r, pages.PlanSummary(pages.PlanPreview{TooLong: true}))
		return
	}

	plan, err := h.goalService.Plan(in)
	if errors.Is(err, planner.ErrScheduleTooLong) {
		ui.Render(w, r, pages.PlanSummary(pages.PlanPreview{TooLong: true}))
		return
	}
	if err != nil {
		ui.Render(w, r, pages.PlanSummary(pages.PlanPreview{}))
		return
	}

	if plan.Changed {
		data := pages.GoalFormData{Form: form}
		switch plan.Authoritative {
		case planner.FieldMonthly:
			data.Form.TargetMonths = strconv.Itoa(plan.TargetMonths)
			ui.Render(w, r, pages.PlanField(data.MonthsInput()))
		case planner.FieldMonths:
			data.Form.MonthlyAmount = strconv.FormatInt(plan.MonthlyAmount, 10)
			ui.Render(w, r, pages.PlanField(data.MonthlyInput()))
		}
	}
	ui.Render(w, r, pages.PlanSummary(pages.NewPlanPreview(plan)))
}

// Reorder moves one goal a step up or down, or applies a full ordering sent
// as repeated "order" values.
func (h *GoalHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	err := r.ParseForm()
	if err != nil {
		toastOnly(w, r, "Invalid request")
		return
	}

	if order := r.PostForm["order"]; len(order) > 0 {
		err = h.goalService.Reorder(ctx, user.ID, order)
	} else {
		err = h.goalService.Move(ctx, user.ID, r.PostFormValue("id"), r.PostFormValue("direction"))
	}
	if errors.Is(err, service.ErrInvalidOrder) {
		toastOnly(w, r, "The goal order is out of date. Reload and try again.")
		return
	}
	if err != nil {
		h.goalError(w, r, err, "failed to reorder goals", r.PostFormValue("id"))
		return
	}

	goals, err := h.goalService.Goals(ctx, user.ID)
	if err != nil {
		slog.Error("failed to reload goals", "error", err, "user_id", user.ID)
		toastOnly(w, r, "Failed to reload goals")
		return
	}

	ui.Render(w, r, pages.GoalsContent(pages.GoalsData{Goals: goals}))
}

// Complete marks a goal achieved or reopens it.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	completed := r.FormValue("completed") != "false"
	_, err := h.goalService.SetCompleted(ctx, user.ID, goalID, completed)
	if err != nil {
		h.goalError(w, r, err, "failed to set goal completion", goalID)
		return
	}

	data, err := h.detail(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to reload goal", goalID)
		return
	}

	ui.Render(w, r, pages.GoalDetailContent(data))
	if completed {
		ui.RenderToast(w, r, toast.Success("Goal marked as achieved"))
	} else {
		ui.RenderToast(w, r, toast.Success("Goal reopened"))
	}
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	err := h.goalService.Delete(ctx, user.ID, goalID)
	if err != nil {
		h.goalError(w, r, err, "failed to delete goal", goalID)
		return
	}

	hxRedirect(w, r, "/app/goals")
}

func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	result, err := h.exportService.Export(ctx, user.ID)
	if err != nil {
		slog.Error("failed to export goals", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to export goals", http.StatusInternalServerError)
		return
	}

	if result.URL != "" {
		http.Redirect(w, r, result.URL, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", service.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	_, err = w.Write(result.Body)
	if err != nil {
		slog.Error("failed to write export", "error", err, "user_id", user.ID)
	}
}

func (h *GoalHandler) detail(ctx context.Context, userID, goalID string) (pages.GoalDetailData, error) {
	goal, err := h.goalService.ByID(ctx, userID, goalID)
	if err != nil {
		return pages.GoalDetailData{}, err
	}

	transactions, err := h.transactionService.Transactions(ctx, userID, goalID)
	if err != nil {
		return pages.GoalDetailData{}, fmt.Errorf("failed to get transactions: %w", err)
	}

	return pages.GoalDetailData{
		Goal:         goal,
		Transactions: transactions,
		Deposit:      pages.DepositForm{Type: model.TransactionTypeManual},
	}, nil
}

// renderInvalid re-renders the goal dialog with inline errors.
func (h *GoalHandler) renderInvalid(w http.ResponseWriter, r *http.Request, goalID string, form validation.GoalForm, errs validation.FieldErrors, accumulated int64) {
	data := pages.GoalFormData{GoalID: goalID, Form: form, Errors: errs}

	in := planner.Input{AccumulatedAmount: accumulated, LastFocused: planner.Field(form.LastFocused)}
	in.TargetAmount, _ = validation.ParseAmount(form.TargetAmount)
	in.MonthlyAmount, _ = validation.ParseAmount(form.MonthlyAmount)
	months, _ := validation.ParseAmount(form.TargetMonths)
	in.TargetMonths = int(months)
	if inAmountRange(in.TargetAmount) && inAmountRange(in.MonthlyAmount) && months >= 0 && months <= planner.MaxMonths {
		plan, err := h.goalService.Plan(in)
		switch {
		case err == nil:
			data.Preview = pages.NewPlanPreview(plan)
		case errors.Is(err, planner.ErrScheduleTooLong):
			data.Preview = pages.PlanPreview{TooLong: true}
		}
	}

	ui.Render(w, r, pages.GoalFormDialog(data))
}

func inAmountRange(v int64) bool {
	return v >= 0 && v <= validation.MaxAmount
}

// scheduleErrors maps a planner rejection to the form field it belongs to.
// It returns nil for any other error.
func scheduleErrors(err error) validation.FieldErrors {
	switch {
	case errors.Is(err, planner.ErrScheduleRequired):
		return validation.FieldErrors{validation.FieldMonthlyAmount: "Either monthly saving or target months must be filled in."}
	case errors.Is(err, planner.ErrScheduleTooLong):
		return validation.FieldErrors{validation.FieldMonthlyAmount: validation.ScheduleTooLong}
	}
	return nil
}

func (h *GoalHandler) goalError(w http.ResponseWriter, r *http.Request, err error, msg, goalID string) {
	user := ctxkeys.User(r.Context())

	if errors.Is(err, repository.ErrGoalNotFound) {
		slog.Warn(msg, "error", err, "user_id", user.ID, "goal_id", goalID)
		fail(w, r, http.StatusNotFound, "Goal not found")
		return
	}

	slog.Error(msg, "error", err, "user_id", user.ID, "goal_id", goalID)
	fail(w, r, http.StatusInternalServerError, genericError)
}

func goalForm(r *http.Request) validation.GoalForm {
	return validation.GoalForm{
		Name:          r.FormValue(validation.FieldGoalName),
		Description:   r.FormValue(validation.FieldDescription),
		TargetAmount:  r.FormValue(validation.FieldTargetAmount),
		InitialAmount: r.FormValue(validation.FieldInitialAmount),
		MonthlyAmount: r.FormValue(validation.FieldMonthlyAmount),
		TargetMonths:  r.FormValue(validation.FieldTargetMonths),
		LastFocused:   r.FormValue("last_focused"),
	}
}
