package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// EmployerHandler serves the /api/employer dashboard routes. Job CRUD under
// /api/employer/jobs is routed to JobHandler.
type EmployerHandler struct {
	jobs         ports.JobService
	applications ports.ApplicationService
}

func NewEmployerHandler(jobs ports.JobService, applications ports.ApplicationService) *EmployerHandler {
	return &EmployerHandler{jobs: jobs, applications: applications}
}

// ListJobs handles GET /api/employer/jobs and GET /api/employer/filtered-jobs.
//
// @Summary      List own jobs
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        search      query     string  false  "Matches title, company or location"
// @Param        status      query     string  false  "active, closed or draft"
// @Param        type        query     string  false  "Employment type"
// @Param        experience  query     string  false  "Experience level"
// @Success      200         {array}   jobResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /api/employer/filtered-jobs [get]
func (h *EmployerHandler) ListJobs(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	filter := jobFilterFromQuery(c)
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		if filter.Status, err = domain.ParseJobStatus(raw); err != nil {
			return err
		}
	}

	jobs, err := h.jobs.ListOwn(c.Request().Context(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponses(jobs))
}

// Stats handles GET /api/employer/jobs/:id/stats.
//
// @Summary      View and application counts
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  employerStatsResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/employer/jobs/{id}/stats [get]
func (h *EmployerHandler) Stats(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	stats, err := h.jobs.Stats(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employerStatsResponse{Views: stats.Views, Applications: stats.Applications})
}

// SetStatus handles PATCH /api/employer/jobs/:id/status.
//
// @Summary      Change job status
// @Tags         employer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      setStatusRequest  true  "active, closed or draft (any casing)"
// @Success      200   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/employer/jobs/{id}/status [patch]
func (h *EmployerHandler) SetStatus(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.SetStatus(c.Request().Context(), c.Param("id"), principal, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job, nil))
}

// Analytics handles GET /api/employer/jobs/:id/analytics.
//
// @Summary      Aggregate job analytics
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  analyticsResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/employer/jobs/{id}/analytics [get]
func (h *EmployerHandler) Analytics(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	analytics, err := h.jobs.Analytics(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalyticsResponse(analytics))
}

// Applications handles GET /api/employer/jobs/:id/applications.
//
// @Summary      List applications for a job
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {array}   applicationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/employer/jobs/{id}/applications [get]
func (h *EmployerHandler) Applications(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	views, err := h.applications.ListForJob(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponses(views))
}

// RecentApplications handles GET /api/employer/recent-applications.
//
// @Summary      Most recent applications across own jobs
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   applicationResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/employer/recent-applications [get]
func (h *EmployerHandler) RecentApplications(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	views, err := h.applications.RecentForEmployer(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponses(views))
}

// ReviewApplication handles PATCH /api/employer/applications/:id.
//
// @Summary      Review an application
// @Tags         employer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Application id"
// @Param        body  body      reviewRequest  true  "New status and/or notes"
// @Success      200   {object}  domain.Application
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/employer/applications/{id} [patch]
func (h *EmployerHandler) ReviewApplication(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.applications.Review(c.Request().Context(), c.Param("id"), principal, toApplicationReview(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}
