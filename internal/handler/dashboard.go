package handler

import (
	"log/slog"
	"net/http"

	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
)

type DashboardHandler struct {
	goalService *service.GoalService
}

func NewDashboardHandler(goalService *service.GoalService) *DashboardHandler {
	return &DashboardHandler{
		goalService: goalService,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	summary, err := h.goalService.Summary(ctx, user.ID)
	if err != nil {
		slog.Error("failed to get goal summary", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	goals, err := h.goalService.Goals(ctx, user.ID)
	if err != nil {
		slog.Error("failed to get goals", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Dashboard(pages.DashboardData{
		Summary: summary,
		Goals:   pages.GoalsData{Goals: goals},
	}))
}
