package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

func rbacContext(p *domain.Principal) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/book/save", nil)
	if p != nil {
		req = req.WithContext(domain.ContextWithPrincipal(req.Context(), p))
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRBAC_Allows(t *testing.T) {
	c := rbacContext(&domain.Principal{Username: "Admin", Authorities: []string{domain.RoleAdmin}})

	called := false
	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c := rbacContext(&domain.Principal{Username: "reader", Authorities: []string{domain.RoleUser}})

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if got := statusOf(handler(c)); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
}

func TestRBAC_RequiresPrincipal(t *testing.T) {
	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if got := statusOf(handler(rbacContext(nil))); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}
