package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type stubParser map[string]domain.Principal

func (s stubParser) Parse(raw string) (domain.Principal, error) {
	p, ok := s[raw]
	if !ok {
		return domain.Principal{}, errors.New("invalid token")
	}
	return p, nil
}

var parser = stubParser{"good": {ID: "u1", Role: domain.RoleEmployer}}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called := false
	rec := runAuth(t, Auth(parser), "Bearer good", func(c echo.Context) error {
		called = true
		p, ok := Principal(c)
		if !ok || p.ID != "u1" || p.Role != domain.RoleEmployer {
			t.Fatalf("principal not set: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Token good",
		"empty token":    "Bearer ",
		"invalid token":  "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			rec := runAuth(t, Auth(parser), header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		header    string
		wantPrinc bool
	}{
		{"", false},
		{"Bearer good", true},
		{"Bearer expired", false},
		{"Basic abc", false},
	}
	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			called := false
			rec := runAuth(t, OptionalAuth(parser), tc.header, func(c echo.Context) error {
				called = true
				if _, ok := Principal(c); ok != tc.wantPrinc {
					t.Fatalf("principal present = %v, want %v", ok, tc.wantPrinc)
				}
				return c.NoContent(http.StatusOK)
			})
			if !called || rec.Code != http.StatusOK {
				t.Fatalf("anonymous request must pass through, got %d", rec.Code)
			}
		})
	}
}
