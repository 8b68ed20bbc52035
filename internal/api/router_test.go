package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hireboard/jobboard-api/internal/core/service"
	"github.com/hireboard/jobboard-api/internal/infrastructure/db/memory"
	redisstore "github.com/hireboard/jobboard-api/internal/infrastructure/db/redis"
	"github.com/hireboard/jobboard-api/internal/infrastructure/http/handlers"
	"github.com/hireboard/jobboard-api/internal/pkg/token"
)

// newTestServer wires the real services over in-memory repositories and a
// miniredis-backed idempotency store.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := memory.NewUserRepository()
	profiles := memory.NewProfileRepository()
	jobs := memory.NewJobRepository()
	apps := memory.NewApplicationRepository()
	tokens := token.NewManager("test-secret", time.Hour)
	log := zerolog.Nop()
	registry := prometheus.NewRegistry()

	return NewRouter(Dependencies{
		AuthService:        service.NewAuthService(users, profiles, tokens, log),
		ProfileService:     service.NewProfileService(users, profiles, log),
		JobService:         service.NewJobService(jobs, apps, users, redisstore.NewIdempotencyStore(rdb, time.Hour), log),
		ApplicationService: service.NewApplicationService(apps, jobs, profiles, log),
		Tokens:             tokens,
		HealthChecks:       map[string]handlers.Check{"redis": redisstore.Ping(rdb)},
		Logger:             log,
		MetricsRegisterer:  registry,
		MetricsGatherer:    registry,
	})
}

type request struct {
	method  string
	path    string
	token   string
	body    any
	headers map[string]string
}

func do(t *testing.T, e *echo.Echo, r request) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if r.body != nil {
		if err := json.NewEncoder(&buf).Encode(r.body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(r.method, r.path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if r.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func register(t *testing.T, e *echo.Echo, email, name, role string) string {
	t.Helper()
	rec := do(t, e, request{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{
		"email": email, "password": "secret123", "name": name, "role": role,
	}})
	expectStatus(t, rec, http.StatusCreated)
	return decode[map[string]any](t, rec)["token"].(string)
}

func jobBody(title string) map[string]string {
	return map[string]string{
		"title": title, "company": "Acme", "location": "Remote", "type": "full-time",
		"description": "Build APIs", "requirements": "Go", "salary": "100k",
		"experience": "mid", "skills": "go, mongodb",
	}
}

func createJob(t *testing.T, e *echo.Echo, tkn, title string) string {
	t.Helper()
	rec := do(t, e, request{method: http.MethodPost, path: "/api/jobs", token: tkn, body: jobBody(title)})
	expectStatus(t, rec, http.StatusCreated)
	return decode[map[string]any](t, rec)["id"].(string)
}

func TestRouter_PostViewApplyScenario(t *testing.T) {
	e := newTestServer(t)

	employer := register(t, e, "hr@acme.test", "Acme HR", "employer")
	jobID := createJob(t, e, employer, "Backend Engineer")
	seeker := register(t, e, "sam@example.com", "Sam", "jobseeker")

	rec := do(t, e, request{method: http.MethodGet, path: "/api/jobs/" + jobID, token: seeker})
	expectStatus(t, rec, http.StatusOK)
	detail := decode[map[string]any](t, rec)
	stats := detail["stats"].(map[string]any)
	if stats["views"] != 1.0 || stats["uniqueViews"] != 1.0 || stats["applications"] != 0.0 {
		t.Fatalf("unexpected stats after first view: %v", stats)
	}
	if emp := detail["employer"].(map[string]any); emp["name"] != "Acme HR" {
		t.Fatalf("employer summary missing: %v", emp)
	}
	history := detail["viewHistory"].([]any)
	if len(history) != 1 || history[0].(map[string]any)["userId"] == "" {
		t.Fatalf("expected one view history entry, got %v", detail["viewHistory"])
	}

	rec = do(t, e, request{method: http.MethodPost, path: "/api/jobs/" + jobID + "/view", token: seeker})
	expectStatus(t, rec, http.StatusOK)
	view := decode[map[string]any](t, rec)
	if view["views"] != 2.0 || view["uniqueViews"] != 1.0 {
		t.Fatalf("repeat view must not count as unique: %v", view)
	}

	apply := request{method: http.MethodPost, path: "/api/jobs/" + jobID + "/apply", token: seeker,
		body: map[string]string{"coverLetter": "Hire me"}}
	rec = do(t, e, apply)
	expectStatus(t, rec, http.StatusCreated)
	if msg := decode[map[string]any](t, rec)["message"]; msg != "Application submitted successfully" {
		t.Fatalf("unexpected message: %v", msg)
	}
	expectStatus(t, do(t, e, apply), http.StatusConflict)

	rec = do(t, e, request{method: http.MethodGet, path: "/api/employer/jobs/" + jobID + "/applications", token: employer})
	expectStatus(t, rec, http.StatusOK)
	apps := decode[[]map[string]any](t, rec)
	if len(apps) != 1 || apps[0]["status"] != "pending" {
		t.Fatalf("expected exactly one pending application, got %v", apps)
	}
	if applicant := apps[0]["applicant"].(map[string]any); applicant["name"] != "Sam" {
		t.Fatalf("applicant not joined: %v", applicant)
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/jobs", token: seeker})
	expectStatus(t, rec, http.StatusOK)
	listed := decode[[]map[string]any](t, rec)
	if len(listed) != 1 || listed[0]["isApplied"] != true || listed[0]["applicationStatus"] != "pending" {
		t.Fatalf("listing not annotated for applicant: %v", listed)
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/applications", token: seeker})
	expectStatus(t, rec, http.StatusOK)
	mine := decode[[]map[string]any](t, rec)
	if len(mine) != 1 || mine[0]["job"].(map[string]any)["title"] != "Backend Engineer" {
		t.Fatalf("own applications not joined with job: %v", mine)
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	e := newTestServer(t)
	tkn := register(t, e, "Ana@Example.com", "Ana", "jobseeker")

	dup := do(t, e, request{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{
		"email": "ana@example.com", "password": "secret123", "name": "Ana 2", "role": "jobseeker",
	}})
	expectStatus(t, dup, http.StatusConflict)

	rec := do(t, e, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "ana@example.com", "password": "secret123",
	}})
	expectStatus(t, rec, http.StatusOK)
	loginToken := decode[map[string]any](t, rec)["token"].(string)

	wrongPassword := do(t, e, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "ana@example.com", "password": "nope",
	}})
	unknownEmail := do(t, e, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "ghost@example.com", "password": "nope",
	}})
	expectStatus(t, wrongPassword, http.StatusUnauthorized)
	expectStatus(t, unknownEmail, http.StatusUnauthorized)
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}

	for _, bearer := range []string{tkn, loginToken} {
		rec = do(t, e, request{method: http.MethodGet, path: "/api/profile", token: bearer})
		expectStatus(t, rec, http.StatusOK)
		if profile := decode[map[string]any](t, rec); profile["email"] != "ana@example.com" {
			t.Fatalf("unexpected profile: %v", profile)
		}
	}
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/profile"}), http.StatusUnauthorized)
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/profile", token: "garbage"}), http.StatusUnauthorized)

	rec = do(t, e, request{method: http.MethodPut, path: "/api/profile", token: tkn, body: map[string]any{
		"headline": "Gopher", "skills": []string{"go"},
	}})
	expectStatus(t, rec, http.StatusOK)
	if profile := decode[map[string]any](t, rec); profile["headline"] != "Gopher" || profile["name"] != "Ana" {
		t.Fatalf("partial update not applied: %v", profile)
	}

	rec = do(t, e, request{method: http.MethodPost, path: "/api/auth/logout"})
	expectStatus(t, rec, http.StatusOK)
}

func TestRouter_IdempotentCreate(t *testing.T) {
	e := newTestServer(t)
	employer := register(t, e, "hr@acme.test", "Acme HR", "employer")

	create := request{method: http.MethodPost, path: "/api/employer/jobs", token: employer,
		body: jobBody("SRE"), headers: map[string]string{"Idempotency-Key": "abc-123"}}

	first := do(t, e, create)
	expectStatus(t, first, http.StatusCreated)
	second := do(t, e, create)
	expectStatus(t, second, http.StatusOK)

	if a, b := decode[map[string]any](t, first)["id"], decode[map[string]any](t, second)["id"]; a != b {
		t.Fatalf("replay returned a different job: %v vs %v", a, b)
	}

	rec := do(t, e, request{method: http.MethodGet, path: "/api/employer/jobs", token: employer})
	expectStatus(t, rec, http.StatusOK)
	if jobs := decode[[]map[string]any](t, rec); len(jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(jobs))
	}
}

func TestRouter_OwnershipAndRoles(t *testing.T) {
	e := newTestServer(t)
	owner := register(t, e, "owner@acme.test", "Owner", "employer")
	other := register(t, e, "other@globex.test", "Other", "employer")
	seeker := register(t, e, "sam@example.com", "Sam", "jobseeker")
	jobID := createJob(t, e, owner, "Data Engineer")

	expectStatus(t, do(t, e, request{method: http.MethodPost, path: "/api/jobs", token: seeker, body: jobBody("x")}), http.StatusForbidden)
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/employer/jobs", token: seeker}), http.StatusForbidden)
	expectStatus(t, do(t, e, request{method: http.MethodPost, path: "/api/jobs/" + jobID + "/apply", token: owner}), http.StatusForbidden)

	patch := map[string]string{"title": "Hijacked"}
	expectStatus(t, do(t, e, request{method: http.MethodPatch, path: "/api/jobs/" + jobID, token: other, body: patch}), http.StatusForbidden)
	expectStatus(t, do(t, e, request{method: http.MethodPut, path: "/api/employer/jobs/" + jobID, token: other, body: patch}), http.StatusForbidden)
	expectStatus(t, do(t, e, request{method: http.MethodDelete, path: "/api/employer/jobs/" + jobID, token: other}), http.StatusForbidden)
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/employer/jobs/" + jobID + "/stats", token: other}), http.StatusForbidden)

	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/jobs/not-an-id"}), http.StatusBadRequest)
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/jobs/000000000000000000000000"}), http.StatusNotFound)

	rec := do(t, e, request{method: http.MethodPatch, path: "/api/jobs/" + jobID, token: owner, body: patch})
	expectStatus(t, rec, http.StatusOK)
	if job := decode[map[string]any](t, rec); job["title"] != "Hijacked" || job["company"] != "Acme" {
		t.Fatalf("partial update not applied: %v", job)
	}
}

func TestRouter_StatusAndAnalytics(t *testing.T) {
	e := newTestServer(t)
	employer := register(t, e, "hr@acme.test", "Acme HR", "employer")
	seeker := register(t, e, "sam@example.com", "Sam", "jobseeker")
	jobID := createJob(t, e, employer, "QA")
	statusPath := "/api/employer/jobs/" + jobID + "/status"

	expectStatus(t, do(t, e, request{method: http.MethodPost, path: "/api/jobs/" + jobID + "/view", token: seeker}), http.StatusOK)
	expectStatus(t, do(t, e, request{method: http.MethodPost, path: "/api/jobs/" + jobID + "/apply", token: seeker}), http.StatusCreated)

	rec := do(t, e, request{method: http.MethodGet, path: "/api/employer/jobs/" + jobID + "/analytics", token: employer})
	expectStatus(t, rec, http.StatusOK)
	analytics := decode[map[string]any](t, rec)
	if analytics["conversionRate"] != 100.0 || analytics["averageResponseTime"] != "N/A" {
		t.Fatalf("unexpected analytics: %v", analytics)
	}
	if byStatus := analytics["applicationsByStatus"].(map[string]any); byStatus["pending"] != 1.0 || byStatus["accepted"] != 0.0 {
		t.Fatalf("unexpected status breakdown: %v", byStatus)
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/employer/recent-applications", token: employer})
	expectStatus(t, rec, http.StatusOK)
	recent := decode[[]map[string]any](t, rec)
	if len(recent) != 1 {
		t.Fatalf("expected one recent application, got %v", recent)
	}
	appID := recent[0]["id"].(string)

	rec = do(t, e, request{method: http.MethodPatch, path: "/api/employer/applications/" + appID, token: employer,
		body: map[string]string{"status": "accepted", "notes": "Great fit"}})
	expectStatus(t, rec, http.StatusOK)
	if app := decode[map[string]any](t, rec); app["status"] != "accepted" || app["notes"] != "Great fit" {
		t.Fatalf("review not applied: %v", app)
	}

	expectStatus(t, do(t, e, request{method: http.MethodPatch, path: statusPath, token: employer,
		body: map[string]string{"status": "Paused"}}), http.StatusBadRequest)

	rec = do(t, e, request{method: http.MethodPatch, path: statusPath, token: employer,
		body: map[string]string{"status": "Closed"}})
	expectStatus(t, rec, http.StatusOK)
	if job := decode[map[string]any](t, rec); job["status"] != "closed" {
		t.Fatalf("status not canonicalised: %v", job["status"])
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/jobs"})
	expectStatus(t, rec, http.StatusOK)
	if jobs := decode[[]map[string]any](t, rec); len(jobs) != 0 {
		t.Fatalf("closed job must not be listed publicly: %v", jobs)
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/employer/filtered-jobs?status=closed", token: employer})
	expectStatus(t, rec, http.StatusOK)
	if jobs := decode[[]map[string]any](t, rec); len(jobs) != 1 {
		t.Fatalf("filtered own jobs should include the closed job: %v", jobs)
	}

	rec = do(t, e, request{method: http.MethodDelete, path: "/api/jobs/" + jobID, token: employer})
	expectStatus(t, rec, http.StatusOK)
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/jobs/" + jobID}), http.StatusNotFound)
}

func TestRouter_EmployerPublicListingIncludesEveryStatus(t *testing.T) {
	e := newTestServer(t)
	employer := register(t, e, "jobs@acme.test", "Acme", "employer")
	open := createJob(t, e, employer, "Open role")
	closed := createJob(t, e, employer, "Filled role")

	rec := do(t, e, request{method: http.MethodPatch, path: "/api/employer/jobs/" + closed + "/status", token: employer,
		body: map[string]string{"status": "closed"}})
	expectStatus(t, rec, http.StatusOK)
	employerID := decode[map[string]any](t, rec)["employer"].(map[string]any)["id"].(string)

	rec = do(t, e, request{method: http.MethodGet, path: "/api/jobs/employer/" + employerID})
	expectStatus(t, rec, http.StatusOK)
	if jobs := decode[[]map[string]any](t, rec); len(jobs) != 2 {
		t.Fatalf("expected both jobs, got %v", jobs)
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/api/jobs/employer/" + employerID + "?status=Active"})
	expectStatus(t, rec, http.StatusOK)
	if jobs := decode[[]map[string]any](t, rec); len(jobs) != 1 || jobs[0]["id"] != open {
		t.Fatalf("expected only the open job, got %v", jobs)
	}

	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/api/jobs/employer/" + employerID + "?status=paused"}),
		http.StatusBadRequest)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, request{method: http.MethodGet, path: "/health"})
	expectStatus(t, rec, http.StatusOK)
	if _, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID)); err != nil {
		t.Fatalf("expected uuid request id, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
	expectStatus(t, do(t, e, request{method: http.MethodGet, path: "/health/ready"}), http.StatusOK)

	register(t, e, "hr@acme.test", "Acme HR", "employer")
	rec = do(t, e, request{method: http.MethodGet, path: "/metrics"})
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "jobboard_requests_total") {
		t.Fatalf("expected HTTP request metrics, got:\n%s", rec.Body.String())
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/swagger/doc.json"})
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "/api/jobs/{id}/apply") {
		t.Fatalf("swagger document missing routes")
	}

	rec = do(t, e, request{method: http.MethodGet, path: "/no-such-route"})
	expectStatus(t, rec, http.StatusNotFound)
	if body := decode[map[string]string](t, rec); body["error"] == "" {
		t.Fatalf("expected error envelope, got %v", body)
	}

}
