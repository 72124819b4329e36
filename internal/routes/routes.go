package routes

import (
	"context"
	"net/http"

	"github.com/timedeposit/timedeposit/assets"
	"github.com/timedeposit/timedeposit/internal/app"
	"github.com/timedeposit/timedeposit/internal/handler"
	"github.com/timedeposit/timedeposit/internal/middleware"
)

// SetupRoutes builds the application handler. ctx bounds background work
// such as the rate limiter cleanup.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	dashboard := handler.NewDashboardHandler(app.GoalService)
	goal := handler.NewGoalHandler(app.GoalService, app.TransactionService, app.ExportService)
	transaction := handler.NewTransactionHandler(goal, app.TransactionService)
	settings := handler.NewSettingsHandler(app.AuthService, app.UserService, app.ProfileService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.AssetsFS))))

	mux.HandleFunc("GET /healthz", health.Health)

	// Home
	mux.HandleFunc("GET /{$}", middleware.RequireGuest(home.HomePage))

	// OAuth (rate limited)
	rateLimiter := middleware.RateLimitAuth(ctx)

	mux.HandleFunc("GET /auth/google", rateLimiter(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("GET /auth/github", rateLimiter(middleware.RequireGuest(auth.GitHubAuth)))
	mux.HandleFunc("GET /auth/github/callback", rateLimiter(auth.GitHubCallback))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// App Pages
	mux.HandleFunc("GET /app/dashboard", middleware.RequireAuth(dashboard.DashboardPage))

	// Goals
	mux.HandleFunc("GET /app/goals", middleware.RequireAuth(goal.GoalsPage))
	mux.HandleFunc("GET /app/goals/new-dialog", middleware.RequireAuth(goal.NewDialog))
	mux.HandleFunc("GET /app/goals/export", middleware.RequireAuth(goal.Export))
	mux.HandleFunc("GET /app/goals/{id}", middleware.RequireAuth(goal.GoalDetailPage))
	mux.HandleFunc("GET /app/goals/{id}/edit-dialog", middleware.RequireAuth(goal.EditDialog))
	mux.HandleFunc("GET /app/goals/{id}/delete-dialog", middleware.RequireAuth(goal.DeleteDialog))
	mux.HandleFunc("POST /app/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("POST /app/goals/plan", middleware.RequireAuth(goal.Plan))
	mux.HandleFunc("POST /app/goals/reorder", middleware.RequireAuth(goal.Reorder))
	mux.HandleFunc("PUT /app/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("PATCH /app/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("DELETE /app/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Deposits
	mux.HandleFunc("POST /app/goals/{id}/transactions", middleware.RequireAuth(transaction.Record))
	mux.HandleFunc("DELETE /app/goals/{id}/transactions/{txid}", middleware.RequireAuth(transaction.Remove))

	// Settings & Account
	mux.HandleFunc("GET /app/settings", middleware.RequireAuth(settings.SettingsPage))
	mux.HandleFunc("PATCH /app/settings", middleware.RequireAuth(settings.Update))
	mux.HandleFunc("DELETE /app/account", middleware.RequireAuth(settings.DeleteAccount))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.Config(app.Cfg), // needed by SecurityHeaders and templates
		middleware.NonceMiddleware, // before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
		middleware.WithURLPath,
	)
}
