package domain

import (
	"fmt"
	"strings"
	"time"
)

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// ExperienceLevel is the seniority a posting targets.
type ExperienceLevel string

const (
	ExperienceEntry   ExperienceLevel = "entry"
	ExperienceMid     ExperienceLevel = "mid"
	ExperienceSenior  ExperienceLevel = "senior"
	ExperienceLead    ExperienceLevel = "lead"
	ExperienceManager ExperienceLevel = "manager"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceManager:
		return true
	}
	return false
}

// JobStatus is the publication state of a posting. Only active jobs are listed publicly.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// ParseJobStatus accepts any casing ("Active", "CLOSED") and returns the
// canonical lower-case status.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: status must be one of: active closed draft", ErrValidation)
	}
	return st, nil
}

// ViewRecord is one entry of a job's view history; there is at most one per viewer.
type ViewRecord struct {
	UserID   string    `json:"userId" bson:"userId"`
	ViewedAt time.Time `json:"viewedAt" bson:"viewedAt"`
}

type DateCount struct {
	Date  time.Time `json:"date" bson:"date"`
	Count int64     `json:"count" bson:"count"`
}

type StatusCount struct {
	Status string `json:"status" bson:"status"`
	Count  int64  `json:"count" bson:"count"`
}

type HourCount struct {
	Hour  int   `json:"hour" bson:"hour"`
	Views int64 `json:"views" bson:"views"`
}

type SourceCount struct {
	Source string `json:"source" bson:"source"`
	Count  int64  `json:"count" bson:"count"`
}

// AnalyticsData is a cached aggregate kept on the job document. It is
// informational only; live analytics are computed from applications.
type AnalyticsData struct {
	ViewsByDate          []DateCount   `json:"viewsByDate" bson:"viewsByDate"`
	ApplicationsByDate   []DateCount   `json:"applicationsByDate" bson:"applicationsByDate"`
	ApplicationsByStatus []StatusCount `json:"applicationsByStatus" bson:"applicationsByStatus"`
	TimeOfDayData        []HourCount   `json:"timeOfDayData" bson:"timeOfDayData"`
	SourceBreakdown      []SourceCount `json:"sourceBreakdown" bson:"sourceBreakdown"`
}

// Job is a posting owned by a single employer.
//
// Views counts every tracked view; UniqueViews counts distinct viewers and
// never exceeds len(ViewHistory).
type Job struct {
	ID            string
	Title         string
	Company       string
	Location      string
	Type          JobType
	Description   string
	Requirements  string
	Salary        string
	Experience    ExperienceLevel
	Skills        string
	EmployerID    string
	Status        JobStatus
	Views         int64
	UniqueViews   int64
	ViewHistory   []ViewRecord
	AnalyticsData AnalyticsData
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (j *Job) OwnedBy(userID string) bool {
	return j.EmployerID != "" && j.EmployerID == userID
}

// HasViewer reports whether userID already appears in the view history.
func (j *Job) HasViewer(userID string) bool {
	for _, v := range j.ViewHistory {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// JobDraft carries the employer-supplied fields of a new posting.
type JobDraft struct {
	Title        string
	Company      string
	Location     string
	Type         JobType
	Description  string
	Requirements string
	Salary       string
	Experience   ExperienceLevel
	Skills       string
	Status       JobStatus // optional, defaults to active
}

// NewJob validates d and returns an unsaved job owned by employerID with
// zeroed counters.
func NewJob(employerID string, d JobDraft, now time.Time) (*Job, error) {
	if employerID == "" {
		return nil, fmt.Errorf("%w: employer is required", ErrValidation)
	}

	j := &Job{
		Title:        strings.TrimSpace(d.Title),
		Company:      strings.TrimSpace(d.Company),
		Location:     strings.TrimSpace(d.Location),
		Type:         d.Type,
		Description:  d.Description,
		Requirements: d.Requirements,
		Salary:       d.Salary,
		Experience:   d.Experience,
		Skills:       d.Skills,
		EmployerID:   employerID,
		Status:       d.Status,
		ViewHistory:  []ViewRecord{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}

	required := []struct {
		name, value string
	}{
		{"title", j.Title},
		{"company", j.Company},
		{"location", j.Location},
		{"description", j.Description},
		{"requirements", j.Requirements},
		{"salary", j.Salary},
		{"skills", j.Skills},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}
	if err := validateEnums(&j.Type, &j.Experience, &j.Status); err != nil {
		return nil, err
	}
	return j, nil
}

// JobUpdate is a partial update; nil fields are left unchanged. The employer
// and the view counters are deliberately absent.
type JobUpdate struct {
	Title        *string
	Company      *string
	Location     *string
	Type         *JobType
	Description  *string
	Requirements *string
	Salary       *string
	Experience   *ExperienceLevel
	Skills       *string
	Status       *JobStatus
}

func (u JobUpdate) IsEmpty() bool {
	return u.Title == nil && u.Company == nil && u.Location == nil && u.Type == nil &&
		u.Description == nil && u.Requirements == nil && u.Salary == nil &&
		u.Experience == nil && u.Skills == nil && u.Status == nil
}

// Validate checks enum fields and rejects blanking a required field.
func (u JobUpdate) Validate() error {
	for name, v := range map[string]*string{
		"title": u.Title, "company": u.Company, "location": u.Location,
		"description": u.Description, "requirements": u.Requirements,
		"salary": u.Salary, "skills": u.Skills,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrValidation, name)
		}
	}
	return validateEnums(u.Type, u.Experience, u.Status)
}

// Apply merges u into j.
func (j *Job) Apply(u JobUpdate, now time.Time) {
	if u.Title != nil {
		j.Title = strings.TrimSpace(*u.Title)
	}
	if u.Company != nil {
		j.Company = strings.TrimSpace(*u.Company)
	}
	if u.Location != nil {
		j.Location = strings.TrimSpace(*u.Location)
	}
	if u.Type != nil {
		j.Type = *u.Type
	}
	if u.Description != nil {
		j.Description = *u.Description
	}
	if u.Requirements != nil {
		j.Requirements = *u.Requirements
	}
	if u.Salary != nil {
		j.Salary = *u.Salary
	}
	if u.Experience != nil {
		j.Experience = *u.Experience
	}
	if u.Skills != nil {
		j.Skills = *u.Skills
	}
	if u.Status != nil {
		j.Status = *u.Status
	}
	j.UpdatedAt = now
}

func validateEnums(t *JobType, e *ExperienceLevel, s *JobStatus) error {
	if t != nil && !t.Valid() {
		return fmt.Errorf("%w: type must be one of: full-time part-time contract internship", ErrValidation)
	}
	if e != nil && !e.Valid() {
		return fmt.Errorf("%w: experience must be one of: entry mid senior lead manager", ErrValidation)
	}
	if s != nil && !s.Valid() {
		return fmt.Errorf("%w: status must be one of: active closed draft", ErrValidation)
	}
	return nil
}
