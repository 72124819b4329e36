package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/app"
	"github.com/timedeposit/timedeposit/internal/config"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/service"
)

// 43 characters, the encoded length of a 32 byte token.
const testCSRF = "dGVzdC1jc3JmLXRva2VuLXRoYXQtaXMtbG9uZy1lbm9"

type testServer struct {
	app     *app.App
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:      "Time Deposit",
		AppEnv:       "development",
		AppURL:       "http://localhost:8090",
		DBDriver:     "sqlite",
		DBConnection: filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
		EmailFrom:    "noreply@example.com",
	}

	a, err := app.New(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &testServer{app: a, handler: SetupRoutes(t.Context(), a)}
}

func (s *testServer) signUp(t *testing.T, email string) (*model.User, *http.Cookie) {
	t.Helper()

	user, err := s.app.AuthService.AuthenticateOAuth(context.Background(), service.OAuthIdentity{
		Provider: "github",
		Email:    email,
		Name:     "Test Saver",
	})
	require.NoError(t, err)

	token, err := s.app.AuthService.GenerateJWT(user)
	require.NoError(t, err)

	return user, &http.Cookie{Name: service.AuthCookieName, Value: token}
}

// do sends an htmx request with a valid CSRF pair.
func (s *testServer) do(t *testing.T, method, target string, session *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", testCSRF)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRF})
	if session != nil {
		req.AddCookie(session)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, target string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createGoal(t *testing.T, session *http.Cookie, name string) *model.Goal {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/app/goals", session, url.Values{
		"name":          {name},
		"target_amount": {"150000"},
		"target_months": {"15"},
		"last_focused":  {"target_months"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	goals, err := s.app.GoalService.Goals(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	for _, g := range goals {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("goal %q not created", name)
	return nil
}

func (s *testServer) userID(t *testing.T, session *http.Cookie) string {
	t.Helper()
	id, err := s.app.AuthService.VerifyJWT(session.Value)
	require.NoError(t, err)
	return id
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Time Deposit")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = s.get(t, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.get(t, "/assets/js/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.get(t, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/app/goals", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodPost, "/app/goals", nil, url.Values{"name": {"Trip"}})
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))

	_, session := s.signUp(t, "saver@example.com")
	rec = s.get(t, "/", session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/dashboard", rec.Header().Get("Location"))
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	req := httptest.NewRequest(http.MethodPost, "/app/goals", strings.NewReader("name=Trip"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateGoal(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	rec := s.do(t, http.MethodPost, "/app/goals", session, url.Values{
		"name":          {"Trip to Kyoto"},
		"target_amount": {"150,000"},
		"target_months": {"15"},
		"last_focused":  {"target_months"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="goals-content" hx-swap-oob="true"`)
	assert.Contains(t, body, "Trip to Kyoto")
	assert.Contains(t, body, "toast")

	goals, err := s.app.GoalService.Goals(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, int64(150000), goals[0].TargetAmount)
	assert.Equal(t, int64(10000), goals[0].MonthlyAmount)
}

func TestCreateGoalValidation(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	rec := s.do(t, http.MethodPost, "/app/goals", session, url.Values{
		"name":          {""},
		"target_amount": {"-5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Goal name is required.")
	assert.Contains(t, body, "Target amount must be a positive number.")
	assert.Contains(t, body, "Either monthly saving or target months must be filled in.")

	goals, err := s.app.GoalService.Goals(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestPlanCalculator(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	t.Run("months rewrite monthly", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/app/goals/plan", session, url.Values{
			"target_amount": {"150000"},
			"target_months": {"15"},
			"last_focused":  {"target_months"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="monthly_amount-field"`)
		assert.Contains(t, body, `value="10000"`)
		assert.Contains(t, body, `id="plan-preview"`)
		assert.NotContains(t, body, `id="target_months-field"`)
	})

	t.Run("monthly rewrites months with initial amount", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/app/goals/plan", session, url.Values{
			"target_amount":  {"100000"},
			"initial_amount": {"20000"},
			"monthly_amount": {"7000"},
			"last_focused":   {"monthly_amount"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="target_months-field"`)
		assert.Contains(t, body, `value="12"`)
	})

	t.Run("consistent values leave fields alone", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/app/goals/plan", session, url.Values{
			"target_amount":  {"150000"},
			"monthly_amount": {"10000"},
			"target_months":  {"15"},
			"last_focused":   {"target_months"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.NotContains(t, body, "-field")
		assert.Contains(t, body, `id="plan-preview"`)
	})

	t.Run("incomplete input shows hint", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/app/goals/plan", session, url.Values{
			"target_amount": {"150000"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a target amount")
	})

	t.Run("schedule past 100 years", func(t *testing.T) {
		for _, form := range []url.Values{
			{"target_amount": {"1000000000000"}, "monthly_amount": {"1"}, "last_focused": {"monthly_amount"}},
			{"target_amount": {"150000"}, "target_months": {"5000"}, "last_focused": {"target_months"}},
		} {
			rec := s.do(t, http.MethodPost, "/app/goals/plan", session, form)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "more than 100 years")
			assert.NotContains(t, body, "-field")
		}
	})

	t.Run("overflowing amounts show hint", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/app/goals/plan", session, url.Values{
			"target_amount":  {"9223372036854775807"},
			"monthly_amount": {"2"},
			"last_focused":   {"monthly_amount"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Enter a target amount")
		assert.NotContains(t, body, "-field")
	})
}

func TestCreateGoalRejectsEndlessSchedule(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	rec := s.do(t, http.MethodPost, "/app/goals", session, url.Values{
		"name":           {"Island"},
		"target_amount":  {"1,000,000,000,000"},
		"monthly_amount": {"1"},
		"last_focused":   {"monthly_amount"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The schedule cannot be longer than 1200 months (100 years).")

	goals, err := s.app.GoalService.Goals(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestDepositsCompleteGoal(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")
	goal := s.createGoal(t, session, "Laptop")

	rec := s.do(t, http.MethodPost, "/app/goals/"+goal.ID+"/transactions", session, url.Values{
		"amount": {"0"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deposit amount must be a positive number.")

	rec = s.do(t, http.MethodPost, "/app/goals/"+goal.ID+"/transactions", session, url.Values{
		"amount":      {"150000"},
		"type":        {"bonus"},
		"description": {"Summer bonus"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Goal reached")
	assert.Contains(t, rec.Body.String(), "Summer bonus")

	userID := s.userID(t, session)
	updated, err := s.app.GoalService.ByID(context.Background(), userID, goal.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)

	transactions, err := s.app.TransactionService.Transactions(context.Background(), userID, goal.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)

	rec = s.do(t, http.MethodDelete, "/app/goals/"+goal.ID+"/transactions/"+transactions[0].ID, session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deposit removed")

	updated, err = s.app.GoalService.ByID(context.Background(), userID, goal.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsCompleted)
	assert.Equal(t, int64(0), updated.CurrentAmount)
}

func TestGoalsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.signUp(t, "owner@example.com")
	_, other := s.signUp(t, "other@example.com")
	goal := s.createGoal(t, owner, "Private")

	rec := s.get(t, "/app/goals/"+goal.ID, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/app/goals/"+goal.ID, other, nil)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Body.String(), "Goal not found")

	rec = s.get(t, "/app/goals/"+goal.ID, owner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Private")
}

func TestDeleteGoal(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")
	goal := s.createGoal(t, session, "Bike")

	rec := s.do(t, http.MethodGet, "/app/goals/"+goal.ID+"/delete-dialog", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Are you sure you want to delete “Bike”?")

	rec = s.do(t, http.MethodDelete, "/app/goals/"+goal.ID, session, nil)
	assert.Equal(t, "/app/goals", rec.Header().Get("HX-Redirect"))

	rec = s.get(t, "/app/goals", session)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No savings goals yet.")
}

func TestReorderGoals(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")
	first := s.createGoal(t, session, "First")
	second := s.createGoal(t, session, "Second")

	rec := s.do(t, http.MethodPost, "/app/goals/reorder", session, url.Values{
		"id":        {second.ID},
		"direction": {"up"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	goals, err := s.app.GoalService.Goals(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID)
	assert.Equal(t, first.ID, goals[1].ID)

	rec = s.do(t, http.MethodPost, "/app/goals/reorder", session, url.Values{
		"order": {first.ID},
	})
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
}

func TestExportStreamsJSON(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")
	s.createGoal(t, session, "Camera")

	rec := s.get(t, "/app/goals/export", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var export service.GoalExport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &export))
	require.Len(t, export.Goals, 1)
	assert.Equal(t, "Camera", export.Goals[0].Name)
	assert.Equal(t, 1, export.Summary.GoalCount)
}

func TestSettings(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")

	rec := s.get(t, "/app/settings", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "saver@example.com")

	rec = s.do(t, http.MethodPatch, "/app/settings", session, url.Values{"name": {"  "}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required.")

	rec = s.do(t, http.MethodPatch, "/app/settings", session, url.Values{"name": {"Hana"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Settings saved")

	profile, err := s.app.ProfileService.ByUserID(context.Background(), s.userID(t, session))
	require.NoError(t, err)
	assert.Equal(t, "Hana", profile.Name)
	assert.False(t, profile.NotificationsEnabled)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	_, session := s.signUp(t, "saver@example.com")
	s.createGoal(t, session, "Gone")

	rec := s.do(t, http.MethodDelete, "/app/account", session, nil)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))

	rec = s.get(t, "/app/dashboard", session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
