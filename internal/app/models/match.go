package models

import (
	"sort"
	"time"
)

// Tier is the immutable classification of a match, assigned at creation.
type Tier string

const (
	TierTop10 Tier = "Top 10"
	TierMatch Tier = "Match"
)

// Match is the relationship entity between a student and a company, keyed by
// (StudentID, CompanyID), at most one match per pair. Matches are created by
// the sync job; only the stage field is ever mutated afterwards, and only by
// the stage-update endpoint.
type Match struct {
	StudentID string    `json:"studentId" db:"student_id"`
	CompanyID string    `json:"companyId" db:"company_id"`
	Tier      Tier      `json:"tier" db:"tier" example:"Top 10"`
	Stage     Stage     `json:"stage" db:"stage" example:"pending"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Company is populated on the student's match listing.
	Company *Company `json:"company,omitempty"`
}

// SortMatches orders a match list for presentation: Top 10 matches before
// regular ones, then by card group (undecided, active, canceled, archived),
// then by company name for a stable display.
func SortMatches(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Tier != b.Tier {
			return a.Tier == TierTop10
		}
		if ra, rb := a.Stage.ViewState().Rank(), b.Stage.ViewState().Rank(); ra != rb {
			return ra < rb
		}
		var an, bn string
		if a.Company != nil {
			an = a.Company.Name
		}
		if b.Company != nil {
			bn = b.Company.Name
		}
		return an < bn
	})
}
