package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/money"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/components/toast"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
	"github.com/timedeposit/timedeposit/internal/validation"
)

type TransactionHandler struct {
	goals              *GoalHandler
	transactionService *service.TransactionService
}

func NewTransactionHandler(goals *GoalHandler, transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		goals:              goals,
		transactionService: transactionService,
	}
}

// Record adds a deposit and re-renders the goal detail.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")

	deposit := pages.DepositForm{
		Amount:      r.FormValue(validation.FieldTransactionAmount),
		Type:        r.FormValue(validation.FieldTransactionType),
		Description: r.FormValue(validation.FieldTransactionDescription),
	}

	in, errs := validation.ValidateTransaction(deposit.Amount, deposit.Type, deposit.Description)
	if errs.Any() {
		data, err := h.goals.detail(ctx, user.ID, goalID)
		if err != nil {
			h.goals.goalError(w, r, err, "failed to get goal", goalID)
			return
		}
		data.Deposit = deposit
		data.Errors = errs
		ui.Render(w, r, pages.GoalDetailContent(data))
		return
	}

	before, err := h.goals.goalService.ByID(ctx, user.ID, goalID)
	if err != nil {
		h.goals.goalError(w, r, err, "failed to get goal", goalID)
		return
	}

	goal, err := h.transactionService.Record(ctx, user.ID, goalID, in)
	if err != nil {
		h.goals.goalError(w, r, err, "failed to record deposit", goalID)
		return
	}

	data, err := h.goals.detail(ctx, user.ID, goalID)
	if err != nil {
		h.goals.goalError(w, r, err, "failed to reload goal", goalID)
		return
	}

	ui.Render(w, r, pages.GoalDetailContent(data))
	if goal.IsCompleted && !before.IsCompleted {
		ui.RenderToast(w, r, toast.Toast(toast.Props{
			Title:       "Goal reached",
			Description: "You saved " + money.Format(goal.CurrentAmount) + " for " + goal.Name + ".",
			Variant:     toast.VariantSuccess,
			Icon:        true,
			Dismissible: true,
			Duration:    8000,
		}))
		return
	}
	ui.RenderToast(w, r, toast.Success("Deposited "+money.Format(in.Amount)))
}

// Remove deletes a deposit and reverses its effect on the goal.
func (h *TransactionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)
	goalID := r.PathValue("id")
	txID := r.PathValue("txid")

	_, err := h.transactionService.Remove(ctx, user.ID, goalID, txID)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		slog.Warn("deposit not found", "user_id", user.ID, "goal_id", goalID, "transaction_id", txID)
		toastOnly(w, r, "Deposit not found")
		return
	}
	if err != nil {
		h.goals.goalError(w, r, err, "failed to remove deposit", goalID)
		return
	}

	data, err := h.goals.detail(ctx, user.ID, goalID)
	if err != nil {
		h.goals.goalError(w, r, err, "failed to reload goal", goalID)
		return
	}

	ui.Render(w, r, pages.GoalDetailContent(data))
	ui.RenderToast(w, r, toast.Success("Deposit removed"))
}
