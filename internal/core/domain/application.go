package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the review state of an application. New applications
// are pending; the owning employer may move them to any other status.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewed,
	ApplicationAccepted,
	ApplicationRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: status must be one of: pending reviewed accepted rejected", ErrValidation)
	}
	return st, nil
}

// Application is a jobseeker's submission to a job. EmployerID is copied from
// the job at creation so employer-side queries need no join.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job"`
	ApplicantID string            `json:"applicant"`
	EmployerID  string            `json:"employer"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func NewApplication(job *Job, applicantID, coverLetter string, now time.Time) *Application {
	return &Application{
		JobID:       job.ID,
		ApplicantID: applicantID,
		EmployerID:  job.EmployerID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      ApplicationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplicationReview is the employer-side mutation of an application.
type ApplicationReview struct {
	Status *ApplicationStatus
	Notes  *string
}

func (r ApplicationReview) IsEmpty() bool {
	return r.Status == nil && r.Notes == nil
}
