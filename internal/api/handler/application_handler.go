package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// ApplicationHandler serves the jobseeker side of applications.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /api/jobs/:id/apply.
//
// @Summary      Apply to a job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true   "Job id"
// @Param        body  body      applyRequest  false  "Optional cover letter"
// @Success      201   {object}  applyResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/jobs/{id}/apply [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), principal, c.Param("id"), req.CoverLetter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, applyResponse{
		Message:     "Application submitted successfully",
		Application: app,
	})
}

// ListMine handles GET /api/applications.
//
// @Summary      List own applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   applicationResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/applications [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListMine(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponses(views))
}
