package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// PrincipalKey is the echo context key holding the authenticated domain.Principal.
const PrincipalKey = "principal"

// TokenParser verifies a raw bearer token and resolves the caller.
type TokenParser interface {
	Parse(raw string) (domain.Principal, error)
}

// Auth rejects requests without a valid bearer token and injects the
// principal into the context.
func Auth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			raw, ok := bearerToken(authHeader)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := parser.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// OptionalAuth injects the principal when a valid bearer token is present.
// A missing or invalid token leaves the request anonymous.
func OptionalAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if principal, err := parser.Parse(raw); err == nil {
					c.Set(PrincipalKey, principal)
				}
			}
			return next(c)
		}
	}
}

// Principal returns the principal injected by Auth or OptionalAuth.
func Principal(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	return p, ok && p.ID != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}
