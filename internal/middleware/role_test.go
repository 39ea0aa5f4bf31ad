package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-auth/internal/model"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, called
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		pass    bool
	}{
		{"admin allowed", []string{model.RoleAdmin}, model.RoleAdmin, true},
		{"customer blocked from admin route", []string{model.RoleAdmin}, model.RoleCustomer, false},
		{"manager blocked from admin route", []string{model.RoleAdmin}, model.RoleManager, false},
		{"one of several", []string{model.RoleAdmin, model.RoleManager}, model.RoleManager, true},
		{"role never set", []string{model.RoleAdmin}, "", false},
		{"unknown role", []string{model.RoleAdmin}, "root", false},
	}
	for _, tc := range cases {
		rec, called := runWithRole(t, RequireRole(tc.allowed...), tc.role)
		if tc.pass {
			if !called || rec.Code != http.StatusOK {
				t.Errorf("%s: blocked, code=%d", tc.name, rec.Code)
			}
			continue
		}
		if called {
			t.Errorf("%s: handler reached", tc.name)
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: code = %d, want 403", tc.name, rec.Code)
		}
		if body := rec.Body.String(); body != "{\"error\":\"forbidden\"}\n" {
			t.Errorf("%s: body = %q", tc.name, body)
		}
	}
}
