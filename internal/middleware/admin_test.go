package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type mockRoles struct {
	hasRoleFunc func(ctx context.Context, userID uint64, role string) (bool, error)
	calls       int
}

func (m *mockRoles) HasRole(ctx context.Context, userID uint64, role string) (bool, error) {
	m.calls++
	return m.hasRoleFunc(ctx, userID, role)
}

func runAdminGate(t *testing.T, userID any, roles RoleChecker) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/hub", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	nextCalled := false
	h := RequireAdmin(roles)(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, nextCalled
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	roles := &mockRoles{hasRoleFunc: func(ctx context.Context, userID uint64, role string) (bool, error) {
		return false, nil
	}}
	rec, nextCalled := runAdminGate(t, uint64(7), roles)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Admin access required") {
		t.Fatalf("expected admin-required message, got %s", rec.Body.String())
	}
	if nextCalled {
		t.Fatal("handler must not run for non-admins")
	}
}

func TestRequireAdminRejectsMissingUser(t *testing.T) {
	roles := &mockRoles{hasRoleFunc: func(ctx context.Context, userID uint64, role string) (bool, error) {
		return true, nil
	}}
	rec, nextCalled := runAdminGate(t, nil, roles)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if nextCalled {
		t.Fatal("handler must not run without an authenticated user")
	}
	if roles.calls != 0 {
		t.Fatal("role lookup must not run without an authenticated user")
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	roles := &mockRoles{hasRoleFunc: func(ctx context.Context, userID uint64, role string) (bool, error) {
		if userID != 7 || role != "admin" {
			t.Fatalf("unexpected lookup: user=%d role=%s", userID, role)
		}
		return true, nil
	}}
	rec, nextCalled := runAdminGate(t, uint64(7), roles)
	if rec.Code != http.StatusOK || !nextCalled {
		t.Fatalf("admin should pass through, code=%d nextCalled=%v", rec.Code, nextCalled)
	}
	if roles.calls != 1 {
		t.Fatalf("expected exactly one role lookup, got %d", roles.calls)
	}
}
