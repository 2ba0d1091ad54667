package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
	"github.com/v1michigan/sweek-backend/internal/pkg/auth"
)

// MatchesFormat identifies the layout of a student-matches CSV.
type MatchesFormat string

const (
	// FormatLong is one row per match: email,name,company,tier,stage
	FormatLong MatchesFormat = "long"
	// FormatWide is one row per student with semicolon-separated companies,
	// all of them Top 10: email,name,companies
	FormatWide MatchesFormat = "wide"
)

// MatchRow is a single parsed match assignment from the CSV.
type MatchRow struct {
	StudentEmail string
	StudentName  string
	CompanyName  string
	Tier         models.Tier
}

// CompanyDirectory is the company relation as the sync job consumes it.
type CompanyDirectory interface {
	Upsert(ctx context.Context, company *models.Company) error
	GetIDByName(ctx context.Context, name string) (string, error)
}

// StudentDirectory is the student relation as the sync job consumes it.
type StudentDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateName(ctx context.Context, id, name string) error
}

// MatchReplacer performs the per-student full replace of matches.
type MatchReplacer interface {
	ReplaceForStudent(ctx context.Context, studentID string, matches []*models.Match) error
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	Companies  int
	Students   int
	Matches    int
	MagicLinks map[string]string // student email -> magic link
}

// SyncService loads companies and student matches from CSV files into the
// database: companies are upserted by name, students are upserted by email
// keeping their existing token, and each student's matches are fully
// replaced.
type SyncService struct {
	companies CompanyDirectory
	students  StudentDirectory
	matches   MatchReplacer
	baseURL   string
	logger    zerolog.Logger
}

// NewSyncService creates a new sync service instance
func NewSyncService(companies CompanyDirectory, students StudentDirectory, matches MatchReplacer, baseURL string, logger zerolog.Logger) *SyncService {
	return &SyncService{
		companies: companies,
		students:  students,
		matches:   matches,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// Run executes a full sync from the two CSV files.
func (s *SyncService) Run(ctx context.Context, companiesPath, matchesPath string) (*SyncReport, error) {
	companiesFile, err := os.Open(companiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open companies CSV: %w", err)
	}
	defer companiesFile.Close()

	companies, err := ParseCompaniesCSV(companiesFile)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(companies)).Msg("Parsed companies CSV")

	matchesFile, err := os.Open(matchesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open matches CSV: %w", err)
	}
	defer matchesFile.Close()

	rows, format, err := ParseMatchesCSV(matchesFile)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(rows)).Str("format", string(format)).Msg("Parsed matches CSV")

	for _, company := range companies {
		if err := s.companies.Upsert(ctx, company); err != nil {
			return nil, err
		}
		s.logger.Debug().Str("company", company.Name).Msg("Upserted company")
	}

	students, err := s.upsertStudents(ctx, rows)
	if err != nil {
		return nil, err
	}

	matchCount, err := s.replaceMatches(ctx, rows, students)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{
		Companies:  len(companies),
		Students:   len(students),
		Matches:    matchCount,
		MagicLinks: make(map[string]string, len(students)),
	}
	for email, student := range students {
		report.MagicLinks[email] = s.baseURL + "/s/" + student.Token
	}

	return report, nil
}

// upsertStudents ensures a student row exists per distinct email in the CSV.
// Existing students keep their token; only the name is refreshed.
func (s *SyncService) upsertStudents(ctx context.Context, rows []MatchRow) (map[string]*models.Student, error) {
	students := make(map[string]*models.Student)

	for _, row := range rows {
		if _, seen := students[row.StudentEmail]; seen {
			continue
		}

		existing, err := s.students.GetByEmail(ctx, row.StudentEmail)
		switch {
		case err == nil:
			if existing.Name != row.StudentName {
				if err := s.students.UpdateName(ctx, existing.ID, row.StudentName); err != nil {
					return nil, err
				}
				existing.Name = row.StudentName
			}
			students[row.StudentEmail] = existing

		case isNotFound(err):
			token, err := auth.GenerateToken()
			if err != nil {
				return nil, err
			}
			student := &models.Student{
				Email:     row.StudentEmail,
				Name:      row.StudentName,
				Token:     token,
				TokenHash: auth.HashToken(token),
				IsActive:  true,
			}
			if err := s.students.Create(ctx, student); err != nil {
				return nil, err
			}
			s.logger.Info().Str("email", student.Email).Msg("Created student")
			students[row.StudentEmail] = student

		default:
			return nil, err
		}
	}

	return students, nil
}

// replaceMatches groups rows per student and performs the full replace.
func (s *SyncService) replaceMatches(ctx context.Context, rows []MatchRow, students map[string]*models.Student) (int, error) {
	grouped := make(map[string][]MatchRow)
	for _, row := range rows {
		grouped[row.StudentEmail] = append(grouped[row.StudentEmail], row)
	}

	count := 0
	for email, studentRows := range grouped {
		student, ok := students[email]
		if !ok {
			s.logger.Warn().Str("email", email).Msg("Student missing, skipping matches")
			continue
		}

		matches := make([]*models.Match, 0, len(studentRows))
		for _, row := range studentRows {
			companyID, err := s.companies.GetIDByName(ctx, row.CompanyName)
			if err != nil {
				if isNotFound(err) {
					s.logger.Warn().Str("company", row.CompanyName).Msg("Company not found, skipping match")
					continue
				}
				return count, err
			}
			matches = append(matches, &models.Match{
				StudentID: student.ID,
				CompanyID: companyID,
				Tier:      row.Tier,
				Stage:     models.StagePending,
			})
		}

		if err := s.matches.ReplaceForStudent(ctx, student.ID, matches); err != nil {
			return count, err
		}
		count += len(matches)
	}

	return count, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrStudentNotFound) || errors.Is(err, apperrors.ErrCompanyNotFound)
}

// ParseCompaniesCSV parses a companies CSV with a header row of
// name,blurb,looking_for,learn_more_url,logo_slug,scheduling_url,website_url.
// Missing scheduling URLs default to a Calendly slug derived from the name.
func ParseCompaniesCSV(r io.Reader) ([]*models.Company, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read companies CSV header: %w", err)
	}
	col := indexColumns(header)
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("companies CSV is missing a name column, header: %v", header)
	}

	var companies []*models.Company
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read companies CSV: %w", err)
		}

		name := field(record, col, "name")
		if name == "" {
			continue
		}

		company := &models.Company{
			Name:          name,
			Blurb:         field(record, col, "blurb"),
			LookingFor:    field(record, col, "looking_for"),
			LearnMoreURL:  field(record, col, "learn_more_url"),
			LogoSlug:      field(record, col, "logo_slug"),
			SchedulingURL: field(record, col, "scheduling_url"),
			WebsiteURL:    field(record, col, "website_url"),
			IsActive:      true,
		}
		if company.SchedulingURL == "" {
			company.SchedulingURL = "https://calendly.com/" + slugify(name)
		}
		companies = append(companies, company)
	}

	return companies, nil
}

// ParseMatchesCSV parses a student-matches CSV, auto-detecting the long and
// wide layouts by header.
func ParseMatchesCSV(r io.Reader) ([]MatchRow, MatchesFormat, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read matches CSV header: %w", err)
	}
	col := indexColumns(header)

	format, err := detectMatchesFormat(col)
	if err != nil {
		return nil, "", err
	}

	var rows []MatchRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read matches CSV: %w", err)
		}

		email := field(record, col, "email")
		name := field(record, col, "name")
		if email == "" {
			continue
		}

		switch format {
		case FormatLong:
			rows = append(rows, MatchRow{
				StudentEmail: email,
				StudentName:  name,
				CompanyName:  field(record, col, "company"),
				Tier:         models.Tier(field(record, col, "tier")),
			})
		case FormatWide:
			// Every company in the wide layout is a Top 10 match
			for _, company := range strings.Split(field(record, col, "companies"), ";") {
				company = strings.TrimSpace(company)
				if company == "" {
					continue
				}
				rows = append(rows, MatchRow{
					StudentEmail: email,
					StudentName:  name,
					CompanyName:  company,
					Tier:         models.TierTop10,
				})
			}
		}
	}

	return rows, format, nil
}

func detectMatchesFormat(col map[string]int) (MatchesFormat, error) {
	_, hasCompany := col["company"]
	_, hasTier := col["tier"]
	if hasCompany && hasTier {
		return FormatLong, nil
	}
	if _, hasCompanies := col["companies"]; hasCompanies {
		return FormatWide, nil
	}
	return "", fmt.Errorf("unknown matches CSV format: expected company+tier or companies columns")
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return col
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
