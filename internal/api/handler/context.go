package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/api/middleware"
	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// ctxPrincipal returns the caller injected by the Auth middleware. A missing
// principal means the route was registered without Auth; reject with 401.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// optionalPrincipal returns the caller when OptionalAuth resolved one.
func optionalPrincipal(c echo.Context) *domain.Principal {
	p, ok := middleware.Principal(c)
	if !ok {
		return nil
	}
	return &p
}

// bind decodes the request body and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
