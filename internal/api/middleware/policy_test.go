package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

func TestRequirementFor(t *testing.T) {
	cases := []struct {
		path string
		want requirement
	}{
		{"/api/auth/signup", permitAll},
		{"/api/auth/login", permitAll},
		{"/api/test/all", permitAll},
		{"/health", permitAll},
		{"/health/ready", permitAll},
		{"/metrics", permitAll},
		{"/swagger/index.html", permitAll},
		{"/book/save", adminOnly},
		{"/authenticated/book/save", adminOnly},
		{"/admin/book/save", adminOnly},
		{"/admin/users/bob", adminOnly},
		{"/book/all-books", authenticated},
		{"/authenticated/review/write/1", authenticated},
		{"/api/authx", authenticated},
		{"/healthz", authenticated},
		{"/", authenticated},
	}
	for _, tc := range cases {
		if got := requirementFor(tc.path); got != tc.want {
			t.Errorf("requirementFor(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}

func runPolicy(t *testing.T, path string, p *domain.Principal) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if p != nil {
		req = req.WithContext(domain.ContextWithPrincipal(req.Context(), p))
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Policy()(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func TestPolicy(t *testing.T) {
	user := &domain.Principal{Username: "reader", Authorities: []string{domain.RoleUser}}
	admin := &domain.Principal{Username: "Admin", Authorities: []string{domain.RoleAdmin}}

	cases := []struct {
		name       string
		path       string
		principal  *domain.Principal
		wantCalled bool
		wantStatus int
	}{
		{"public anonymous", "/api/auth/login", nil, true, 0},
		{"protected anonymous", "/book/all-books", nil, false, http.StatusUnauthorized},
		{"protected user", "/book/all-books", user, true, 0},
		{"admin route anonymous", "/book/save", nil, false, http.StatusUnauthorized},
		{"admin route user", "/authenticated/book/save", user, false, http.StatusForbidden},
		{"admin route admin", "/admin/book/save", admin, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := runPolicy(t, tc.path, tc.principal)
			if called != tc.wantCalled {
				t.Fatalf("called = %v, want %v", called, tc.wantCalled)
			}
			if got := statusOf(err); got != tc.wantStatus {
				t.Fatalf("status = %d, want %d", got, tc.wantStatus)
			}
		})
	}
}
