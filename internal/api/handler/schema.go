package handler

import (
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// errorResponse is documented in swagger annotations; the error handler
// renders the same envelope.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=jobseeker employer"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// --- Profile ---

type updateProfileRequest struct {
	Name         string              `json:"name"`
	AvatarURL    string              `json:"avatar_url" validate:"omitempty,url"`
	Headline     string              `json:"headline" validate:"max=200"`
	Summary      string              `json:"summary"`
	Skills       []string            `json:"skills"`
	Experience   []domain.Experience `json:"experience"`
	Education    []domain.Education  `json:"education"`
	ResumeURL    string              `json:"resume_url" validate:"omitempty,url"`
	LinkedInURL  string              `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL    string              `json:"github_url" validate:"omitempty,url"`
	PortfolioURL string              `json:"portfolio_url" validate:"omitempty,url"`
	Phone        string              `json:"phone"`
	Location     string              `json:"location"`
}

// --- Jobs ---

type createJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Company      string `json:"company" validate:"required"`
	Location     string `json:"location" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Description  string `json:"description" validate:"required"`
	Requirements string `json:"requirements" validate:"required"`
	Salary       string `json:"salary" validate:"required"`
	Experience   string `json:"experience" validate:"required,oneof=entry mid senior lead manager"`
	Skills       string `json:"skills" validate:"required"`
	Status       string `json:"status"`
}

// updateJobRequest is a partial update; absent fields are left unchanged.
type updateJobRequest struct {
	Title        *string `json:"title"`
	Company      *string `json:"company"`
	Location     *string `json:"location"`
	Type         *string `json:"type" validate:"omitempty,oneof=full-time part-time contract internship"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	Salary       *string `json:"salary"`
	Experience   *string `json:"experience" validate:"omitempty,oneof=entry mid senior lead manager"`
	Skills       *string `json:"skills"`
	Status       *string `json:"status"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type employerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type jobResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Company       string                 `json:"company"`
	Location      string                 `json:"location"`
	Type          domain.JobType         `json:"type"`
	Description   string                 `json:"description"`
	Requirements  string                 `json:"requirements"`
	Salary        string                 `json:"salary"`
	Experience    domain.ExperienceLevel `json:"experience"`
	Skills        string                 `json:"skills"`
	Employer      employerRef            `json:"employer"`
	Status        domain.JobStatus       `json:"status"`
	Views         int64                  `json:"views"`
	UniqueViews   int64                  `json:"uniqueViews"`
	AnalyticsData domain.AnalyticsData   `json:"analyticsData"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// jobListItemResponse is a listed job annotated for an authenticated caller.
// ApplicationStatus is null when the caller has not applied.
type jobListItemResponse struct {
	jobResponse
	IsApplied         bool    `json:"isApplied"`
	ApplicationStatus *string `json:"applicationStatus"`
}

type jobStatsResponse struct {
	Views        int64 `json:"views"`
	UniqueViews  int64 `json:"uniqueViews"`
	Applications int64 `json:"applications"`
}

type jobDetailResponse struct {
	jobResponse
	Stats       jobStatsResponse    `json:"stats"`
	ViewHistory []domain.ViewRecord `json:"viewHistory"`
}

type viewResponse struct {
	Message     string `json:"message"`
	Views       int64  `json:"views"`
	UniqueViews int64  `json:"uniqueViews"`
}

type employerStatsResponse struct {
	Views        int64 `json:"views"`
	Applications int64 `json:"applications"`
}

type analyticsResponse struct {
	JobID                string           `json:"jobId"`
	Title                string           `json:"title"`
	Company              string           `json:"company"`
	Status               domain.JobStatus `json:"status"`
	CreatedAt            time.Time        `json:"createdAt"`
	Views                int64            `json:"views"`
	UniqueViews          int64            `json:"uniqueViews"`
	Applications         int64            `json:"applications"`
	ApplicationsByStatus map[string]int64 `json:"applicationsByStatus"`
	ConversionRate       float64          `json:"conversionRate"`
	AverageResponseTime  string           `json:"averageResponseTime"`
}

// --- Applications ---

type applyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type reviewRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending reviewed accepted rejected"`
	Notes  *string `json:"notes"`
}

type applyResponse struct {
	Message     string              `json:"message"`
	Application *domain.Application `json:"application"`
}

type applicantResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Location string   `json:"location,omitempty"`
	Headline string   `json:"headline,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

type jobSummaryResponse struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Company  string           `json:"company"`
	Location string           `json:"location,omitempty"`
	Status   domain.JobStatus `json:"status,omitempty"`
}

// applicationResponse is an application joined with the side the caller
// needs; the other side is omitted.
type applicationResponse struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"jobId"`
	ApplicantID string                   `json:"applicantId"`
	CoverLetter string                   `json:"coverLetter,omitempty"`
	Status      domain.ApplicationStatus `json:"status"`
	Notes       string                   `json:"notes,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	Applicant   *applicantResponse       `json:"applicant,omitempty"`
	Job         *jobSummaryResponse      `json:"job,omitempty"`
}
