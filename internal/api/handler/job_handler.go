package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry job creation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// JobHandler handles the public and owner-scoped job routes.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Create handles POST /api/jobs and POST /api/employer/jobs.
// A replayed Idempotency-Key returns the original job with 200.
//
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            false  "Client-generated key for safe retries"
// @Param        body             body      createJobRequest  true   "Job details"
// @Success      201              {object}  jobResponse
// @Success      200              {object}  jobResponse  "Replayed request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLen {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key is too long")
	}

	var req createJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), principal, toJobDraft(req), key)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, toJobResponse(res.Job, nil))
}

// List handles GET /api/jobs. Only active jobs are returned; authenticated
// callers also get isApplied and applicationStatus.
//
// @Summary      List active jobs
// @Tags         jobs
// @Produce      json
// @Param        search      query     string  false  "Matches title, company or location"
// @Param        type        query     string  false  "Employment type"
// @Param        experience  query     string  false  "Experience level"
// @Success      200         {array}   jobListItemResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	viewer := optionalPrincipal(c)
	items, err := h.service.List(c.Request().Context(), jobFilterFromQuery(c), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobListResponse(items, viewer != nil))
}

// ListByEmployer handles GET /api/jobs/employer/:employerId. Every posting is
// returned unless ?status= narrows it.
//
// @Summary      List an employer's jobs
// @Tags         jobs
// @Produce      json
// @Param        employerId  path      string  true   "Employer id"
// @Param        status      query     string  false  "active, closed or draft"
// @Success      200         {array}   jobResponse
// @Failure      400         {object}  errorResponse
// @Router       /api/jobs/employer/{employerId} [get]
func (h *JobHandler) ListByEmployer(c echo.Context) error {
	var status domain.JobStatus
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		var err error
		if status, err = domain.ParseJobStatus(raw); err != nil {
			return err
		}
	}

	jobs, err := h.service.ListByEmployer(c.Request().Context(), c.Param("employerId"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponses(jobs))
}

// Get handles GET /api/jobs/:id. An authenticated request counts as a view
// before the stats are read.
//
// @Summary      Get job detail with stats
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  jobDetailResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), optionalPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobDetailResponse(detail))
}

// RecordView handles POST /api/jobs/:id/view.
//
// @Summary      Record a job view
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  viewResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id}/view [post]
func (h *JobHandler) RecordView(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	stats, err := h.service.RecordView(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewResponse{
		Message:     "View tracked successfully",
		Views:       stats.Views,
		UniqueViews: stats.UniqueViews,
	})
}

// Update handles PATCH /api/jobs/:id and PUT /api/employer/jobs/:id.
//
// @Summary      Update a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Fields to change"
// @Success      200   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/jobs/{id} [patch]
func (h *JobHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.service.Update(c.Request().Context(), c.Param("id"), principal, toJobUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job, nil))
}

// Delete handles DELETE /api/jobs/:id and DELETE /api/employer/jobs/:id.
//
// @Summary      Delete a job posting
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), principal); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Job deleted successfully"})
}

// jobFilterFromQuery reads search, type and experience. Status is ignored by
// the public listing and handled by the employer routes.
func jobFilterFromQuery(c echo.Context) ports.JobFilter {
	return ports.JobFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Type:       domain.JobType(strings.ToLower(strings.TrimSpace(c.QueryParam("type")))),
		Experience: domain.ExperienceLevel(strings.ToLower(strings.TrimSpace(c.QueryParam("experience")))),
	}
}
