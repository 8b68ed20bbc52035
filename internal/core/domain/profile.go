package domain

import "time"

type Experience struct {
	Title       string `json:"title" bson:"title"`
	Company     string `json:"company" bson:"company"`
	Location    string `json:"location" bson:"location"`
	StartDate   string `json:"start_date" bson:"start_date"`
	EndDate     string `json:"end_date" bson:"end_date"`
	Description string `json:"description" bson:"description"`
}

type Education struct {
	School    string `json:"school" bson:"school"`
	Degree    string `json:"degree" bson:"degree"`
	Field     string `json:"field" bson:"field"`
	StartDate string `json:"start_date" bson:"start_date"`
	EndDate   string `json:"end_date" bson:"end_date"`
}

// Profile is the public projection of a User. There is exactly one per user.
type Profile struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Headline     string       `json:"headline,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	ResumeURL    string       `json:"resume_url,omitempty"`
	LinkedInURL  string       `json:"linkedin_url,omitempty"`
	GitHubURL    string       `json:"github_url,omitempty"`
	PortfolioURL string       `json:"portfolio_url,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Location     string       `json:"location,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewProfile builds the profile created alongside a freshly registered user.
func NewProfile(user *User, now time.Time) *Profile {
	return &Profile{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ProfileUpdate is a partial update. Empty strings and empty slices mean
// "leave unchanged"; there is no way to clear a field.
type ProfileUpdate struct {
	Name         string
	AvatarURL    string
	Headline     string
	Summary      string
	Skills       []string
	Experience   []Experience
	Education    []Education
	ResumeURL    string
	LinkedInURL  string
	GitHubURL    string
	PortfolioURL string
	Phone        string
	Location     string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == "" && u.AvatarURL == "" && u.Headline == "" && u.Summary == "" &&
		len(u.Skills) == 0 && len(u.Experience) == 0 && len(u.Education) == 0 &&
		u.ResumeURL == "" && u.LinkedInURL == "" && u.GitHubURL == "" &&
		u.PortfolioURL == "" && u.Phone == "" && u.Location == ""
}

// Apply merges the non-empty fields of u into p.
func (p *Profile) Apply(u ProfileUpdate, now time.Time) {
	setIfNotEmpty(&p.Name, u.Name)
	setIfNotEmpty(&p.AvatarURL, u.AvatarURL)
	setIfNotEmpty(&p.Headline, u.Headline)
	setIfNotEmpty(&p.Summary, u.Summary)
	setIfNotEmpty(&p.ResumeURL, u.ResumeURL)
	setIfNotEmpty(&p.LinkedInURL, u.LinkedInURL)
	setIfNotEmpty(&p.GitHubURL, u.GitHubURL)
	setIfNotEmpty(&p.PortfolioURL, u.PortfolioURL)
	setIfNotEmpty(&p.Phone, u.Phone)
	setIfNotEmpty(&p.Location, u.Location)
	if len(u.Skills) > 0 {
		p.Skills = u.Skills
	}
	if len(u.Experience) > 0 {
		p.Experience = u.Experience
	}
	if len(u.Education) > 0 {
		p.Education = u.Education
	}
	p.UpdatedAt = now
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
