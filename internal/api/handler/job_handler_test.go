package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/hireboard/jobboard-api/internal/api/middleware"
	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// stubJobService implements only what each test needs; other methods panic.
type stubJobService struct {
	ports.JobService
	createFn func(ctx context.Context, p domain.Principal, d domain.JobDraft, key string) (*ports.CreateJobResult, error)
	listFn   func(ctx context.Context, f ports.JobFilter, viewer *domain.Principal) ([]ports.JobListItem, error)
}

func (s *stubJobService) Create(ctx context.Context, p domain.Principal, d domain.JobDraft, key string) (*ports.CreateJobResult, error) {
	return s.createFn(ctx, p, d, key)
}

func (s *stubJobService) List(ctx context.Context, f ports.JobFilter, viewer *domain.Principal) ([]ports.JobListItem, error) {
	return s.listFn(ctx, f, viewer)
}

const validJobBody = `{"title":"Go dev","company":"Acme","location":"Remote","type":"full-time",
	"description":"d","requirements":"r","salary":"1","experience":"mid","skills":"go","status":"Draft"}`

func TestJobHandler_Create(t *testing.T) {
	employer := domain.Principal{ID: "emp1", Role: domain.RoleEmployer}

	tests := []struct {
		name     string
		replayed bool
		want     int
	}{
		{"first request", false, http.StatusCreated},
		{"replayed key", true, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubJobService{
				createFn: func(_ context.Context, p domain.Principal, d domain.JobDraft, key string) (*ports.CreateJobResult, error) {
					if p != employer || key != "k-1" {
						t.Fatalf("unexpected principal/key: %+v %q", p, key)
					}
					if d.Status != domain.JobStatusDraft || d.Type != domain.JobTypeFullTime {
						t.Fatalf("draft not mapped: %+v", d)
					}
					return &ports.CreateJobResult{
						Job:      &domain.Job{ID: "j1", Title: d.Title, EmployerID: p.ID, Status: d.Status},
						Replayed: tc.replayed,
					}, nil
				},
			}

			c, rec := newJSONContext(http.MethodPost, "/api/jobs", validJobBody)
			c.Request().Header.Set(HeaderIdempotencyKey, " k-1 ")
			c.Set(middleware.PrincipalKey, employer)

			if err := NewJobHandler(stub).Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}

			var body jobResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.ID != "j1" || body.Employer.ID != "emp1" {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestJobHandler_Create_RejectsInvalidBody(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/api/jobs", `{"title":"Go dev","type":"freelance"}`)
	c.Set(middleware.PrincipalKey, domain.Principal{ID: "emp1", Role: domain.RoleEmployer})

	if err := NewJobHandler(&stubJobService{}).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobHandler_List_Annotation(t *testing.T) {
	items := []ports.JobListItem{
		{Job: &domain.Job{ID: "j1", EmployerID: "e1"}, Employer: &ports.EmployerSummary{ID: "e1", Name: "Acme HR"},
			Annotated: true, IsApplied: true, ApplicationStatus: domain.ApplicationPending},
		{Job: &domain.Job{ID: "j2", EmployerID: "e1"}, Employer: &ports.EmployerSummary{ID: "e1", Name: "Acme HR"},
			Annotated: true},
	}
	stub := &stubJobService{
		listFn: func(_ context.Context, f ports.JobFilter, _ *domain.Principal) ([]ports.JobListItem, error) {
			if f.Search != "go" || f.Type != domain.JobTypeContract {
				t.Fatalf("query not mapped: %+v", f)
			}
			return items, nil
		},
	}

	t.Run("authenticated", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/api/jobs?search=go&type=Contract", "")
		c.Set(middleware.PrincipalKey, domain.Principal{ID: "s1", Role: domain.RoleJobseeker})

		if err := NewJobHandler(stub).List(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		var body []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body[0]["isApplied"] != true || body[0]["applicationStatus"] != "pending" {
			t.Fatalf("applied job not annotated: %v", body[0])
		}
		status, present := body[1]["applicationStatus"]
		if body[1]["isApplied"] != false || !present || status != nil {
			t.Fatalf("expected isApplied=false and applicationStatus=null: %v", body[1])
		}
		if emp := body[0]["employer"].(map[string]any); emp["name"] != "Acme HR" {
			t.Fatalf("employer summary missing: %v", emp)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/api/jobs?search=go&type=contract", "")

		if err := NewJobHandler(stub).List(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if strings.Contains(rec.Body.String(), "isApplied") {
			t.Fatalf("anonymous listing must not be annotated: %s", rec.Body.String())
		}
	})
}
