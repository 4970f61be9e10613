package audit

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	if err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

// newTestServer wires the interceptor around a few stand-in handlers covering
// the interesting outcomes.
func newTestServer(t *testing.T, hub *Hub) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Use(NewInterceptor(auth.NewService(), hub).Middleware())

	ok := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"result": "ok"})
	}
	e.POST("/api/holders/create-new", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]int64{"id": 1})
	})
	e.POST("/api/holders/delete", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "You do not have permission to perform this action.",
		})
	})
	e.GET("/api/holders/list-all", ok)
	e.POST("/api/users/login-api", ok)
	e.POST("/api/users/logout-api", ok)
	e.PUT("/api/niches/edit", ok)

	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func listEntries(t *testing.T) []*models.AuditLog {
	t.Helper()
	entries, err := database.NewAuditRepo().List()
	if err != nil {
		t.Fatalf("failed to list audit entries: %v", err)
	}
	return entries
}

func TestQualifyingMutationIsLogged(t *testing.T) {
	setupDB(t)
	e := newTestServer(t, nil)

	rec := do(e, http.MethodPost, "/api/holders/create-new", `{"name":"Reyes"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	entries := listEntries(t)
	if len(entries) != 1 {
		t.Fatalf("want 1 audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.App != "Holders" || entry.Action != "create" {
		t.Fatalf("derived app/action: got %s/%s", entry.App, entry.Action)
	}
	if entry.Method != http.MethodPost || entry.StatusCode != http.StatusCreated {
		t.Fatalf("method/status: got %s/%d", entry.Method, entry.StatusCode)
	}
	if entry.UserID != nil {
		t.Fatalf("anonymous request should have nil user, got %v", *entry.UserID)
	}
	if string(entry.RequestData) != `{"name":"Reyes"}` {
		t.Fatalf("request body not captured: %s", entry.RequestData)
	}
	if len(entry.ResponseData) == 0 {
		t.Fatal("response body not captured")
	}
}

func TestRejectedMutationIsStillLogged(t *testing.T) {
	setupDB(t)
	e := newTestServer(t, nil)

	rec := do(e, http.MethodPost, "/api/holders/delete", `{"element_ids":[1]}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	entries := listEntries(t)
	if len(entries) != 1 {
		t.Fatalf("want 1 audit entry, got %d", len(entries))
	}
	if entries[0].StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 recorded, got %d", entries[0].StatusCode)
	}
	if entries[0].Action != "delete" {
		t.Fatalf("want action delete, got %s", entries[0].Action)
	}
}

func TestReadsAndAuthEndpointsAreNotLogged(t *testing.T) {
	setupDB(t)
	e := newTestServer(t, nil)

	do(e, http.MethodGet, "/api/holders/list-all", "")
	do(e, http.MethodPost, "/api/users/login-api", `{"username":"a","password":"b"}`)
	do(e, http.MethodPost, "/api/users/logout-api", "")

	if entries := listEntries(t); len(entries) != 0 {
		t.Fatalf("want 0 audit entries, got %d", len(entries))
	}
}

func TestNonJSONBodyStoredAsNull(t *testing.T) {
	setupDB(t)
	e := newTestServer(t, nil)

	do(e, http.MethodPut, "/api/niches/edit", "definitely not json")

	entries := listEntries(t)
	if len(entries) != 1 {
		t.Fatalf("want 1 audit entry, got %d", len(entries))
	}
	if entries[0].RequestData != nil {
		t.Fatalf("malformed body should be stored as NULL, got %s", entries[0].RequestData)
	}
}

func TestActorResolvedFromSession(t *testing.T) {
	setupDB(t)
	e := newTestServer(t, nil)

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Username: "alice", PasswordHash: hash}
	if err := database.NewUserRepo().Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	session, _, err := auth.NewService().Login("alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/holders/create-new", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Session "+session.Token)
	e.ServeHTTP(httptest.NewRecorder(), req)

	entries := listEntries(t)
	if len(entries) != 1 {
		t.Fatalf("want 1 audit entry, got %d", len(entries))
	}
	if entries[0].UserID == nil || *entries[0].UserID != user.ID {
		t.Fatalf("actor not resolved: %+v", entries[0])
	}
	if entries[0].Username != "alice" {
		t.Fatalf("want username alice, got %q", entries[0].Username)
	}
}

func TestHubReceivesPersistedEntry(t *testing.T) {
	setupDB(t)
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	e := newTestServer(t, hub)
	do(e, http.MethodPost, "/api/holders/create-new", `{"name":"Reyes"}`)

	select {
	case entry := <-ch:
		if entry.App != "Holders" {
			t.Fatalf("broadcast entry app: got %s", entry.App)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestQualifies(t *testing.T) {
	cases := []struct {
		path, method string
		want         bool
	}{
		{"/api/holders/create-new", http.MethodPost, true},
		{"/api/holders/edit", http.MethodPut, true},
		{"/api/holders/delete", http.MethodDelete, true},
		{"/api/holders/list-all", http.MethodGet, false},
		{"/api/users/login-api", http.MethodPost, false},
		{"/api/users/login-api/", http.MethodPost, false},
		{"/api/users/logout-api", http.MethodPost, false},
		{"/health", http.MethodPost, false},
	}
	for _, tc := range cases {
		if got := qualifies(tc.path, tc.method); got != tc.want {
			t.Errorf("qualifies(%q, %s) = %v, want %v", tc.path, tc.method, got, tc.want)
		}
	}
}

func TestDeriveAppAndAction(t *testing.T) {
	cases := []struct {
		path, app, action string
	}{
		{"/api/niches/create-new", "Niches", "create"},
		{"/api/holders/edit", "Holders", "update"},
		{"/api/occupants/delete", "Occupants", "delete"},
		{"/api/payments/list-all", "Payments", "view"},
		{"/api/payments/3/add-payment", "Payments", "3"},
		{"/api", unknownApp, unknownAction},
	}
	for _, tc := range cases {
		if got := deriveApp(tc.path); got != tc.app {
			t.Errorf("deriveApp(%q) = %q, want %q", tc.path, got, tc.app)
		}
		if got := deriveAction(tc.path); got != tc.action {
			t.Errorf("deriveAction(%q) = %q, want %q", tc.path, got, tc.action)
		}
	}
}
