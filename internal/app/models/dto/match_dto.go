package dto

import "github.com/v1michigan/sweek-backend/internal/app/models"

// UpdateStageRequest is the body of the stage-update endpoint.
type UpdateStageRequest struct {
	Token     string `json:"token" example:"hC4nT3qyG1l0aZbXl0dXJsc2FmZS10b2tlbg"`
	CompanyID string `json:"companyId" example:"e1bfa9d1-9d3b-4f2a-a1c7-6d1f2b3c4d5e"`
	Stage     string `json:"stage" example:"need_to_schedule" enums:"pending,accepted,rejected,assigned,need_to_schedule,scheduled,completed,declined,canceled,no_show"`
}

// UpdateStageData is the success payload of the stage-update endpoint.
type UpdateStageData struct {
	Stage models.Stage `json:"stage" example:"need_to_schedule"`
}

// StudentData is the student portion of the match listing.
type StudentData struct {
	Name string `json:"name" example:"Alex Rivera"`
}

// MatchItem is one match in the student's listing, carrying the company
// details and the derived card view state alongside tier and stage.
type MatchItem struct {
	Company   CompanyData      `json:"company"`
	Tier      models.Tier      `json:"tier" example:"Top 10"`
	Stage     models.Stage     `json:"stage" example:"pending"`
	ViewState models.ViewState `json:"viewState" example:"pending"`
}

// CompanyData is the company portion of a match item.
type CompanyData struct {
	ID            string `json:"id"`
	Name          string `json:"name" example:"Acme"`
	Blurb         string `json:"blurb,omitempty"`
	LookingFor    string `json:"lookingFor,omitempty"`
	LearnMoreURL  string `json:"learnMoreUrl,omitempty"`
	LogoSlug      string `json:"logoSlug,omitempty"`
	SchedulingURL string `json:"schedulingUrl,omitempty"`
	WebsiteURL    string `json:"websiteUrl,omitempty"`
}

// MatchListData is the success payload of the match listing endpoint.
type MatchListData struct {
	Student StudentData `json:"student"`
	Matches []MatchItem `json:"matches"`
}

// NewMatchListData builds the listing payload from a student and their
// matches. Matches must already be sorted for presentation.
func NewMatchListData(student *models.Student, matches []*models.Match) MatchListData {
	items := make([]MatchItem, 0, len(matches))
	for _, m := range matches {
		item := MatchItem{
			Tier:      m.Tier,
			Stage:     m.Stage,
			ViewState: m.Stage.ViewState(),
		}
		if m.Company != nil {
			item.Company = CompanyData{
				ID:            m.Company.ID,
				Name:          m.Company.Name,
				Blurb:         m.Company.Blurb,
				LookingFor:    m.Company.LookingFor,
				LearnMoreURL:  m.Company.LearnMoreURL,
				LogoSlug:      m.Company.LogoSlug,
				SchedulingURL: m.Company.SchedulingURL,
				WebsiteURL:    m.Company.WebsiteURL,
			}
		}
		items = append(items, item)
	}
	return MatchListData{
		Student: StudentData{Name: student.Name},
		Matches: items,
	}
}
