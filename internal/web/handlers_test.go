package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendallhq/managerpro/internal/auth"
	"github.com/kendallhq/managerpro/internal/guard"
	"github.com/kendallhq/managerpro/internal/logging"
	"github.com/kendallhq/managerpro/internal/session"
	"github.com/kendallhq/managerpro/internal/storage/kv"
	"github.com/kendallhq/managerpro/internal/tickets"
)

const testPrefix = "kendall_manager_pro"

type testApp struct {
	store    *kv.MemoryStore
	auth     *auth.Service
	sessions *session.Manager
	manager  *tickets.Manager
	router   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	store := kv.NewMemoryStore()
	sessions := session.NewManager(store, testPrefix)
	authSvc := auth.NewService(store, sessions, testPrefix, 30*time.Minute)
	manager := tickets.NewManager(tickets.NewStore(store, testPrefix), log)
	g := guard.New(sessions, log)

	h := NewHandlers(authSvc, g, manager, log)
	return &testApp{
		store:    store,
		auth:     authSvc,
		sessions: sessions,
		manager:  manager,
		router:   h.Router(),
	}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) signIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.auth.Signup(ctx, "user@example.com", "Passw0rd!"))
}

func TestLanding(t *testing.T) {
	t.Run("anonymous sees landing page", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.get("/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Kendall Manager Pro")
	})

	t.Run("active session forwards to dashboard", func(t *testing.T) {
		app := newTestApp(t)
		app.signIn(t)
		rec := app.get("/")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}

func TestProtectedRoutesRedirect(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/dashboard", "/tickets/"} {
		rec := app.get(path)
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/auth/login?expired=1", rec.Header().Get("Location"), path)
	}
}

func TestSignup(t *testing.T) {
	t.Run("weak password lists every unmet rule", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.postForm("/auth/signup", url.Values{
			"email":            {"user@example.com"},
			"password":         {"short"},
			"confirm_password": {"other"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "At least 8 characters")
		assert.Contains(t, body, "One uppercase letter")
		assert.Contains(t, body, "One number")
		assert.Contains(t, body, "One special character")
		assert.Contains(t, body, "Passwords do not match.")
	})

	t.Run("invalid email", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.postForm("/auth/signup", url.Values{
			"email":            {"not-an-email"},
			"password":         {"Passw0rd!"},
			"confirm_password": {"Passw0rd!"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please enter a valid email address.")
	})

	t.Run("success starts a session and redirects", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.postForm("/auth/signup", url.Values{
			"email":            {"user@example.com"},
			"password":         {"Passw0rd!"},
			"confirm_password": {"Passw0rd!"},
		})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		active, err := app.sessions.Active(context.Background())
		require.NoError(t, err)
		assert.True(t, active)
	})
}

func TestLogin(t *testing.T) {
	t.Run("expired notice on query flag", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.get("/auth/login?expired=1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Your session has expired, please log in again.")
	})

	t.Run("wrong password is rejected without detail", func(t *testing.T) {
		app := newTestApp(t)
		app.signIn(t)
		require.NoError(t, app.sessions.End(context.Background()))

		rec := app.postForm("/auth/login", url.Values{
			"email":    {"user@example.com"},
			"password": {"wrong"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password.")

		active, err := app.sessions.Active(context.Background())
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("empty password", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.postForm("/auth/login", url.Values{
			"email":    {"user@example.com"},
			"password": {""},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Password cannot be empty.")
	})

	t.Run("matching credential redirects to dashboard", func(t *testing.T) {
		app := newTestApp(t)
		app.signIn(t)
		require.NoError(t, app.sessions.End(context.Background()))

		rec := app.postForm("/auth/login", url.Values{
			"email":    {"user@example.com"},
			"password": {"Passw0rd!"},
		})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	rec := app.postForm("/auth/logout", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.get("/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?expired=1", rec.Header().Get("Location"))
}

func TestTicketLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	// Create.
	rec := app.postForm("/tickets/", url.Values{
		"title":       {"Broken printer"},
		"description": {"Third floor"},
		"status":      {"open"},
		"priority":    {"high"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tickets", rec.Header().Get("Location"))

	list := app.manager.Tickets()
	require.Len(t, list, 1)
	id := list[0].ID
	idPath := strconv.FormatInt(id, 10)

	rec = app.get("/tickets/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Broken printer")
	assert.Contains(t, rec.Body.String(), "Ticket created successfully.")

	// Edit.
	rec = app.postForm("/tickets/"+idPath+"/edit", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = app.postForm("/tickets/", url.Values{
		"title":       {"Broken printer"},
		"description": {"Third floor, fixed"},
		"status":      {"closed"},
		"priority":    {"high"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	list = app.manager.Tickets()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "closed", list[0].Status)

	// Delete with confirmation.
	rec = app.postForm("/tickets/"+idPath+"/delete", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Len(t, app.manager.Tickets(), 1, "request alone must not delete")

	rec = app.get("/tickets/")
	assert.Contains(t, rec.Body.String(), "Confirm")

	rec = app.postForm("/tickets/"+idPath+"/delete/confirm", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, app.manager.Tickets())
}

func TestSubmitValidationErrors(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	rec := app.postForm("/tickets/", url.Values{
		"title":  {"   "},
		"status": {"open"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required.")
	assert.Empty(t, app.manager.Tickets())
}

func TestCancelDeleteKeepsTicket(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	require.Equal(t, http.StatusFound, app.postForm("/tickets/", url.Values{
		"title":  {"Keep me"},
		"status": {"open"},
	}).Code)

	id := strconv.FormatInt(app.manager.Tickets()[0].ID, 10)
	app.postForm("/tickets/"+id+"/delete", url.Values{})
	app.postForm("/tickets/"+id+"/delete/cancel", url.Values{})

	require.Len(t, app.manager.Tickets(), 1)
	rec := app.get("/tickets/")
	assert.NotContains(t, rec.Body.String(), ">Confirm<")
}

func TestConfirmDeleteIgnoresMismatchedID(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	require.Equal(t, http.StatusFound, app.postForm("/tickets/", url.Values{
		"title":  {"Stays"},
		"status": {"open"},
	}).Code)
	id := app.manager.Tickets()[0].ID

	app.postForm("/tickets/"+strconv.FormatInt(id, 10)+"/delete", url.Values{})
	rec := app.postForm("/tickets/"+strconv.FormatInt(id+1, 10)+"/delete/confirm", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)

	assert.Len(t, app.manager.Tickets(), 1)
}

func TestCancelEditResetsForm(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	require.Equal(t, http.StatusFound, app.postForm("/tickets/", url.Values{
		"title":  {"Original"},
		"status": {"open"},
	}).Code)
	id := strconv.FormatInt(app.manager.Tickets()[0].ID, 10)

	app.postForm("/tickets/"+id+"/edit", url.Values{})
	app.postForm("/tickets/cancel-edit", url.Values{})

	draft := app.manager.Draft()
	assert.Empty(t, draft.Title)
	assert.Equal(t, "open", draft.Status)
	assert.Equal(t, "Original", app.manager.Tickets()[0].Title)
}

func TestDashboardStats(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	for _, status := range []string{"open", "open", "closed"} {
		require.Equal(t, http.StatusFound, app.postForm("/tickets/", url.Values{
			"title":  {"Ticket"},
			"status": {status},
		}).Code)
	}

	rec := app.get("/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total")

	stats := app.manager.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Open)
	assert.Equal(t, 1, stats.Closed)
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
