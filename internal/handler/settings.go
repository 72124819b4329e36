package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/components/toast"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
	"github.com/timedeposit/timedeposit/internal/validation"
)

type SettingsHandler struct {
	authService    *service.AuthService
	userService    *service.UserService
	profileService *service.ProfileService
}

func NewSettingsHandler(authService *service.AuthService, userService *service.UserService, profileService *service.ProfileService) *SettingsHandler {
	return &SettingsHandler{
		authService:    authService,
		userService:    userService,
		profileService: profileService,
	}
}

func (h *SettingsHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	profile, err := h.profileService.ByUserID(ctx, user.ID)
	if err != nil {
		slog.Error("failed to get profile", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Settings(pages.SettingsData{
		Email:   user.Email,
		Profile: profile,
		Name:    profile.Name,
	}))
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	name := r.FormValue("name")
	notifications := r.FormValue("notifications") == "on"

	profile, err := h.profileService.UpdateSettings(ctx, user.ID, name, notifications)
	if errors.Is(err, validation.ErrNameRequired) || errors.Is(err, validation.ErrNameTooLong) {
		current, getErr := h.profileService.ByUserID(ctx, user.ID)
		if getErr != nil {
			slog.Error("failed to get profile", "error", getErr, "user_id", user.ID)
			toastOnly(w, r, genericError)
			return
		}
		current.NotificationsEnabled = notifications
		ui.Render(w, r, pages.SettingsForm(pages.SettingsData{
			Email:   user.Email,
			Profile: current,
			Name:    name,
			Errors:  validation.FieldErrors{"name": nameError(err)},
		}))
		return
	}
	if err != nil {
		slog.Error("failed to update settings", "error", err, "user_id", user.ID)
		toastOnly(w, r, "Failed to save settings")
		return
	}

	ui.Render(w, r, pages.SettingsForm(pages.SettingsData{
		Email:   user.Email,
		Profile: profile,
		Name:    profile.Name,
	}))
	ui.RenderToast(w, r, toast.Success("Settings saved"))
}

// DeleteAccount removes the user with all goals and signs them out.
func (h *SettingsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := ctxkeys.User(ctx)

	err := h.userService.DeleteAccount(ctx, user.ID)
	if err != nil {
		slog.Error("failed to delete account", "error", err, "user_id", user.ID)
		toastOnly(w, r, "Failed to delete account")
		return
	}

	h.authService.ClearJWTCookie(w)
	hxRedirect(w, r, "/")
}

func nameError(err error) string {
	if errors.Is(err, validation.ErrNameTooLong) {
		return "Name is too long (max 100 characters)."
	}
	return "Name is required."
}
