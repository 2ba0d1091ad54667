package models

// Company defines the company model based on the 'sweek_companies' table.
// Companies are owned by the sync job and read-only to the web application.
type Company struct {
	ID            string `json:"id" db:"id" example:"e1bfa9d1-9d3b-4f2a-a1c7-6d1f2b3c4d5e"` // UUID
	Name          string `json:"name" db:"name" example:"Acme"`
	Blurb         string `json:"blurb,omitempty" db:"blurb"`
	LookingFor    string `json:"lookingFor,omitempty" db:"looking_for"`
	LearnMoreURL  string `json:"learnMoreUrl,omitempty" db:"learn_more_url"`
	LogoSlug      string `json:"logoSlug,omitempty" db:"logo_slug"`
	SchedulingURL string `json:"schedulingUrl,omitempty" db:"scheduling_url"`
	WebsiteURL    string `json:"websiteUrl,omitempty" db:"website_url"`
	IsActive      bool   `json:"isActive" db:"is_active"`
}
