package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

func TestApplicationService_Apply(t *testing.T) {
	f := newFixture()
	emp := f.register(t, "emp@example.com", "Emp", domain.RoleEmployer)
	seeker := f.register(t, "js@example.com", "JS", domain.RoleJobseeker)
	job := f.createJob(t, emp, validDraft("Go dev"))

	app, err := f.appSvc.Apply(context.Background(), seeker, job.ID, "  hire me  ")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != domain.ApplicationPending || app.EmployerID != emp.ID || app.CoverLetter != "hire me" {
		t.Fatalf("unexpected application: %+v", app)
	}

	if _, err := f.appSvc.Apply(context.Background(), seeker, job.ID, ""); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if n, _ := f.apps.CountByJob(context.Background(), job.ID); n != 1 {
		t.Fatalf("expected 1 application, got %d", n)
	}

	if _, err := f.appSvc.Apply(context.Background(), seeker, "bad-id", ""); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := f.appSvc.Apply(context.Background(), seeker, "665f1c2e9b1d4a0012345678", ""); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := f.appSvc.Apply(context.Background(), emp, job.ID, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employers cannot apply, got %v", err)
	}
}

func TestApplicationService_ListForJob(t *testing.T) {
	f := newFixture()
	emp := f.register(t, "emp@example.com", "Emp", domain.RoleEmployer)
	other := f.register(t, "other@example.com", "Other", domain.RoleEmployer)
	first := f.register(t, "first@example.com", "First", domain.RoleJobseeker)
	second := f.register(t, "second@example.com", "Second", domain.RoleJobseeker)
	job := f.createJob(t, emp, validDraft("Go dev"))

	if _, err := f.profSvc.UpdateOwn(context.Background(), first, domain.ProfileUpdate{Headline: "Gopher", Skills: []string{"go"}}); err != nil {
		t.Fatalf("profile: %v", err)
	}
	for _, s := range []domain.Principal{first, second} {
		if _, err := f.appSvc.Apply(context.Background(), s, job.ID, ""); err != nil {
			t.Fatalf("apply: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	views, err := f.appSvc.ListForJob(context.Background(), job.ID, emp)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(views))
	}
	if views[0].Applicant.Name != "Second" {
		t.Fatalf("expected newest first, got %s", views[0].Applicant.Name)
	}
	if views[1].Applicant.Headline != "Gopher" || views[1].Applicant.Email != "first@example.com" {
		t.Fatalf("applicant projection missing fields: %+v", views[1].Applicant)
	}

	if _, err := f.appSvc.ListForJob(context.Background(), job.ID, other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApplicationService_RecentForEmployer(t *testing.T) {
	f := newFixture()
	emp := f.register(t, "emp@example.com", "Emp", domain.RoleEmployer)
	jobA := f.createJob(t, emp, validDraft("A"))
	jobB := f.createJob(t, emp, validDraft("B"))

	for i, email := range []string{"1@example.com", "2@example.com", "3@example.com"} {
		s := f.register(t, email, "Seeker", domain.RoleJobseeker)
		for _, j := range []*domain.Job{jobA, jobB} {
			if _, err := f.appSvc.Apply(context.Background(), s, j.ID, ""); err != nil {
				t.Fatalf("apply %d: %v", i, err)
			}
		}
	}

	// A deleted job degrades to placeholders.
	if err := f.jobSvc.Delete(context.Background(), jobB.ID, emp); err != nil {
		t.Fatalf("delete: %v", err)
	}

	views, err := f.appSvc.RecentForEmployer(context.Background(), emp)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 recent applications, got %d", len(views))
	}
	for _, v := range views {
		if v.Job == nil || v.Applicant == nil {
			t.Fatalf("missing join: %+v", v)
		}
		if v.Application.JobID == jobB.ID && (v.Job.Title != "Unknown Position" || v.Job.Company != "Unknown Company") {
			t.Fatalf("expected placeholders for deleted job, got %+v", v.Job)
		}
	}
}

func TestApplicationService_ListMineAndReview(t *testing.T) {
	f := newFixture()
	emp := f.register(t, "emp@example.com", "Emp", domain.RoleEmployer)
	other := f.register(t, "other@example.com", "Other", domain.RoleEmployer)
	seeker := f.register(t, "js@example.com", "JS", domain.RoleJobseeker)
	job := f.createJob(t, emp, validDraft("Go dev"))

	app, err := f.appSvc.Apply(context.Background(), seeker, job.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rejected := domain.ApplicationRejected
	if _, err := f.appSvc.Review(context.Background(), app.ID, other, domain.ApplicationReview{Status: &rejected}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	bogus := domain.ApplicationStatus("hired")
	if _, err := f.appSvc.Review(context.Background(), app.ID, emp, domain.ApplicationReview{Status: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	reviewed := domain.ApplicationReviewed
	notes := "strong candidate"
	got, err := f.appSvc.Review(context.Background(), app.ID, emp, domain.ApplicationReview{Status: &reviewed, Notes: &notes})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != domain.ApplicationReviewed || got.Notes != notes {
		t.Fatalf("review not applied: %+v", got)
	}

	mine, err := f.appSvc.ListMine(context.Background(), seeker)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Job.Title != "Go dev" || mine[0].Application.Status != domain.ApplicationReviewed {
		t.Fatalf("unexpected own applications: %+v", mine)
	}
}

// End-to-end flow across all services: employer posts, jobseeker views and
// applies, employer sees exactly one pending application.
func TestScenario_PostViewApply(t *testing.T) {
	f := newFixture()
	emp := f.register(t, "emp@example.com", "Emp", domain.RoleEmployer)
	job := f.createJob(t, emp, validDraft("Go dev"))
	seeker := f.register(t, "js@example.com", "JS", domain.RoleJobseeker)

	detail, err := f.jobSvc.Get(context.Background(), job.ID, &seeker)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Stats.Views != 1 || detail.Stats.UniqueViews != 1 {
		t.Fatalf("stats after first view: %+v", detail.Stats)
	}

	if _, err := f.appSvc.Apply(context.Background(), seeker, job.ID, ""); err != nil {
		t.Fatalf("apply: %v", err)
	}

	views, err := f.appSvc.ListForJob(context.Background(), job.ID, emp)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Application.Status != domain.ApplicationPending {
		t.Fatalf("expected one pending application, got %+v", views)
	}
}
