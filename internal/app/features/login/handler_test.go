package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	"github.com/rhinogeeks/coursedesk/internal/app/features/login"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
	"github.com/rhinogeeks/coursedesk/internal/app/system/ratelimit"
	"github.com/rhinogeeks/coursedesk/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(db, sessionMgr, errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func postLogin(t *testing.T, handler *login.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)
	return rec
}

func TestServeLogin_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "Test Admin", "admin@example.com", "open-sesame")

	rec := postLogin(t, handler, `{"email":"admin@example.com","password":"open-sesame"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Name != "Test Admin" || resp.Role != "admin" {
		t.Errorf("unexpected response: %+v", resp)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestServeLogin_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "Test Admin", "admin@example.com", "open-sesame")

	rec := postLogin(t, handler, `{"email":"admin@example.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestServeLogin_UnknownEmailSameResponse(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postLogin(t, handler, `{"email":"ghost@example.com","password":"anything"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
		t.Errorf("unknown emails must get the generic message, got %s", rec.Body.String())
	}
}

func TestServeLogin_RateLimited(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "Test Admin", "admin@example.com", "open-sesame")
	handler.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	for i := 0; i < 2; i++ {
		rec := postLogin(t, handler, `{"email":"admin@example.com","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, http.StatusUnauthorized, rec.Code)
		}
	}

	rec := postLogin(t, handler, `{"email":"admin@example.com","password":"nope"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected %d after exhausting attempts, got %d", http.StatusTooManyRequests, rec.Code)
	}

	// A different account is unaffected by the per-email window.
	fixtures.CreateAdmin(ctx, "Other Admin", "other@example.com", "open-sesame")
	rec = postLogin(t, handler, `{"email":"other@example.com","password":"open-sesame"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected other account to sign in, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServeLogin_MissingFields(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postLogin(t, handler, `{"email":"","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServeMe(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/admin/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeMe(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected %d when signed out, got %d", http.StatusUnauthorized, rec.Code)
	}

	req = httptest.NewRequest("GET", "/admin/me", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Name: "Test Admin", Role: "admin"})
	rec = httptest.NewRecorder()
	handler.ServeMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Test Admin") {
		t.Errorf("expected current user in response, got %s", rec.Body.String())
	}
}
