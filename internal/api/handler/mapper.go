package handler

import (
	"strings"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

func toJobDraft(req createJobRequest) domain.JobDraft {
	return domain.JobDraft{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         domain.JobType(req.Type),
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		Experience:   domain.ExperienceLevel(req.Experience),
		Skills:       req.Skills,
		Status:       domain.JobStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	}
}

func toJobUpdate(req updateJobRequest) domain.JobUpdate {
	u := domain.JobUpdate{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		Skills:       req.Skills,
	}
	if req.Type != nil {
		t := domain.JobType(*req.Type)
		u.Type = &t
	}
	if req.Experience != nil {
		e := domain.ExperienceLevel(*req.Experience)
		u.Experience = &e
	}
	if req.Status != nil {
		s := domain.JobStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		u.Status = &s
	}
	return u
}

func toProfileUpdate(req updateProfileRequest) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:         req.Name,
		AvatarURL:    req.AvatarURL,
		Headline:     req.Headline,
		Summary:      req.Summary,
		Skills:       req.Skills,
		Experience:   req.Experience,
		Education:    req.Education,
		ResumeURL:    req.ResumeURL,
		LinkedInURL:  req.LinkedInURL,
		GitHubURL:    req.GitHubURL,
		PortfolioURL: req.PortfolioURL,
		Phone:        req.Phone,
		Location:     req.Location,
	}
}

func toApplicationReview(req reviewRequest) domain.ApplicationReview {
	r := domain.ApplicationReview{Notes: req.Notes}
	if req.Status != nil {
		s := domain.ApplicationStatus(*req.Status)
		r.Status = &s
	}
	return r
}

// toJobResponse renders j; employer may be nil when the caller did not ask
// for the employer to be resolved.
func toJobResponse(j *domain.Job, employer *ports.EmployerSummary) jobResponse {
	ref := employerRef{ID: j.EmployerID}
	if employer != nil {
		ref.Name = employer.Name
	}
	return jobResponse{
		ID:            j.ID,
		Title:         j.Title,
		Company:       j.Company,
		Location:      j.Location,
		Type:          j.Type,
		Description:   j.Description,
		Requirements:  j.Requirements,
		Salary:        j.Salary,
		Experience:    j.Experience,
		Skills:        j.Skills,
		Employer:      ref,
		Status:        j.Status,
		Views:         j.Views,
		UniqueViews:   j.UniqueViews,
		AnalyticsData: j.AnalyticsData,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func toJobResponses(jobs []*domain.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j, nil))
	}
	return out
}

// toJobListResponse returns plain jobs for anonymous callers and annotated
// items otherwise.
func toJobListResponse(items []ports.JobListItem, annotated bool) any {
	if !annotated {
		out := make([]jobResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toJobResponse(it.Job, it.Employer))
		}
		return out
	}

	out := make([]jobListItemResponse, 0, len(items))
	for _, it := range items {
		item := jobListItemResponse{
			jobResponse: toJobResponse(it.Job, it.Employer),
			IsApplied:   it.IsApplied,
		}
		if it.IsApplied {
			s := string(it.ApplicationStatus)
			item.ApplicationStatus = &s
		}
		out = append(out, item)
	}
	return out
}

func toJobDetailResponse(d *ports.JobDetail) jobDetailResponse {
	history := d.Job.ViewHistory
	if history == nil {
		history = []domain.ViewRecord{}
	}
	return jobDetailResponse{
		jobResponse: toJobResponse(d.Job, d.Employer),
		Stats: jobStatsResponse{
			Views:        d.Stats.Views,
			UniqueViews:  d.Stats.UniqueViews,
			Applications: d.Stats.Applications,
		},
		ViewHistory: history,
	}
}

func toAnalyticsResponse(a *ports.JobAnalytics) analyticsResponse {
	byStatus := make(map[string]int64, len(a.ApplicationsByStatus))
	for s, n := range a.ApplicationsByStatus {
		byStatus[string(s)] = n
	}
	return analyticsResponse{
		JobID:                a.JobID,
		Title:                a.Title,
		Company:              a.Company,
		Status:               a.Status,
		CreatedAt:            a.CreatedAt,
		Views:                a.Views,
		UniqueViews:          a.UniqueViews,
		Applications:         a.Applications,
		ApplicationsByStatus: byStatus,
		ConversionRate:       a.ConversionRate,
		AverageResponseTime:  a.AverageResponseTime,
	}
}

func toApplicationResponses(views []ports.ApplicationView) []applicationResponse {
	out := make([]applicationResponse, 0, len(views))
	for _, v := range views {
		app := v.Application
		r := applicationResponse{
			ID:          app.ID,
			JobID:       app.JobID,
			ApplicantID: app.ApplicantID,
			CoverLetter: app.CoverLetter,
			Status:      app.Status,
			Notes:       app.Notes,
			CreatedAt:   app.CreatedAt,
			UpdatedAt:   app.UpdatedAt,
		}
		if a := v.Applicant; a != nil {
			r.Applicant = &applicantResponse{
				ID:       a.ID,
				Name:     a.Name,
				Email:    a.Email,
				Location: a.Location,
				Headline: a.Headline,
				Skills:   a.Skills,
			}
		}
		if j := v.Job; j != nil {
			r.Job = &jobSummaryResponse{
				ID:       j.ID,
				Title:    j.Title,
				Company:  j.Company,
				Location: j.Location,
				Status:   j.Status,
			}
		}
		out = append(out, r)
	}
	return out
}
