package handler

import (
	"net/http"

	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/components/toast"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
)

const genericError = "Something went wrong. Please try again."

// toastOnly shows an error toast and leaves the request's swap target as it
// was.
func toastOnly(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("HX-Reswap", "none")
	ui.RenderToast(w, r, toast.Error(message))
}

// fail reports a failed request. htmx requests get a toast; full page loads
// get an error page with status.
func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if ui.IsHTMX(r) {
		toastOnly(w, r, message)
		return
	}
	if status == http.StatusNotFound {
		ui.RenderStatus(w, r, status, pages.NotFound())
		return
	}
	http.Error(w, message, status)
}

func hxRedirect(w http.ResponseWriter, r *http.Request, url string) {
	if ui.IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
