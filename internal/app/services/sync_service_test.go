package services

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
)

type fakeCompanyDirectory struct {
	byName map[string]*models.Company
	nextID int
}

func newFakeCompanyDirectory() *fakeCompanyDirectory {
	return &fakeCompanyDirectory{byName: make(map[string]*models.Company)}
}

func (f *fakeCompanyDirectory) Upsert(_ context.Context, company *models.Company) error {
	if existing, ok := f.byName[company.Name]; ok {
		company.ID = existing.ID
	} else {
		f.nextID++
		company.ID = "company-" + strconv.Itoa(f.nextID)
	}
	f.byName[company.Name] = company
	return nil
}

func (f *fakeCompanyDirectory) GetIDByName(_ context.Context, name string) (string, error) {
	company, ok := f.byName[name]
	if !ok {
		return "", apperrors.ErrCompanyNotFound
	}
	return company.ID, nil
}

type fakeStudentDirectory struct {
	byEmail map[string]*models.Student
	nextID  int
}

func newFakeStudentDirectory() *fakeStudentDirectory {
	return &fakeStudentDirectory{byEmail: make(map[string]*models.Student)}
}

func (f *fakeStudentDirectory) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	student, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (f *fakeStudentDirectory) Create(_ context.Context, student *models.Student) error {
	f.nextID++
	student.ID = "student-" + strconv.Itoa(f.nextID)
	copied := *student
	f.byEmail[student.Email] = &copied
	return nil
}

func (f *fakeStudentDirectory) UpdateName(_ context.Context, id, name string) error {
	for _, student := range f.byEmail {
		if student.ID == id {
			student.Name = name
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

type fakeMatchReplacer struct {
	byStudent map[string][]*models.Match
}

func newFakeMatchReplacer() *fakeMatchReplacer {
	return &fakeMatchReplacer{byStudent: make(map[string][]*models.Match)}
}

func (f *fakeMatchReplacer) ReplaceForStudent(_ context.Context, studentID string, matches []*models.Match) error {
	f.byStudent[studentID] = matches
	return nil
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCompaniesCSV(t *testing.T) {
	input := strings.Join([]string{
		"name,blurb,looking_for,learn_more_url,logo_slug,scheduling_url,website_url",
		"Acme,Robots,SWE interns,https://acme.dev/jobs,acme,https://calendly.com/acme-recruiting,https://acme.dev",
		"Quarry Labs,Data tooling,,,quarry,,",
		",ignored,,,,,",
	}, "\n")

	companies, err := ParseCompaniesCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, "https://calendly.com/acme-recruiting", companies[0].SchedulingURL)
	assert.True(t, companies[0].IsActive)

	// missing scheduling URL falls back to a Calendly slug from the name
	assert.Equal(t, "Quarry Labs", companies[1].Name)
	assert.Equal(t, "https://calendly.com/quarry-labs", companies[1].SchedulingURL)
}

func TestParseCompaniesCSVMissingNameColumn(t *testing.T) {
	_, err := ParseCompaniesCSV(strings.NewReader("blurb,website_url\nRobots,https://acme.dev"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestParseMatchesCSVLong(t *testing.T) {
	input := strings.Join([]string{
		"email,name,company,tier,stage",
		"a@umich.edu,Alex Rivera,Acme,Top 10,pending",
		"a@umich.edu,Alex Rivera,Quarry Labs,Match,accepted",
		",Nobody,Acme,Match,pending",
	}, "\n")

	rows, format, err := ParseMatchesCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, FormatLong, format)
	require.Len(t, rows, 2)

	assert.Equal(t, "a@umich.edu", rows[0].StudentEmail)
	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Equal(t, models.TierTop10, rows[0].Tier)
	assert.Equal(t, models.TierMatch, rows[1].Tier)
}

func TestParseMatchesCSVWide(t *testing.T) {
	input := strings.Join([]string{
		"email,name,companies",
		"a@umich.edu,Alex Rivera,Acme; Quarry Labs;;Zenith",
	}, "\n")

	rows, format, err := ParseMatchesCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, FormatWide, format)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.Equal(t, models.TierTop10, row.Tier)
	}
	assert.Equal(t, "Quarry Labs", rows[1].CompanyName)
	assert.Equal(t, "Zenith", rows[2].CompanyName)
}

func TestParseMatchesCSVUnknownFormat(t *testing.T) {
	_, _, err := ParseMatchesCSV(strings.NewReader("email,name\na@umich.edu,Alex"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown matches CSV format")
}

func TestSyncRun(t *testing.T) {
	dir := t.TempDir()
	companiesPath := writeCSV(t, dir, "companies.csv", strings.Join([]string{
		"name,blurb,looking_for,learn_more_url,logo_slug,scheduling_url,website_url",
		"Acme,Robots,,,,,",
		"Quarry Labs,Data tooling,,,,,",
	}, "\n"))
	matchesPath := writeCSV(t, dir, "matches.csv", strings.Join([]string{
		"email,name,company,tier,stage",
		"a@umich.edu,Alex Rivera,Acme,Top 10,scheduled",
		"a@umich.edu,Alex Rivera,Quarry Labs,Match,pending",
		"b@umich.edu,Blake Chen,Acme,Top 10,pending",
		"b@umich.edu,Blake Chen,Unknown Co,Match,pending",
	}, "\n"))

	companies := newFakeCompanyDirectory()
	students := newFakeStudentDirectory()

	// b@umich.edu already exists under an old name and must keep their token
	require.NoError(t, students.Create(context.Background(), &models.Student{
		Email:    "b@umich.edu",
		Name:     "B. Chen",
		Token:    "existing-token",
		IsActive: true,
	}))
	existingID := students.byEmail["b@umich.edu"].ID

	replacer := newFakeMatchReplacer()
	svc := NewSyncService(companies, students, replacer, "https://sweek.v1michigan.com/", zerolog.Nop())

	report, err := svc.Run(context.Background(), companiesPath, matchesPath)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Companies)
	assert.Equal(t, 2, report.Students)
	// the Unknown Co row is skipped, the other three land
	assert.Equal(t, 3, report.Matches)

	// new student got a fresh URL-safe token
	alex := students.byEmail["a@umich.edu"]
	require.NotNil(t, alex)
	assert.Len(t, alex.Token, 43)
	assert.NotEmpty(t, alex.TokenHash)
	assert.True(t, alex.IsActive)

	// existing student kept the token, name was refreshed
	blake := students.byEmail["b@umich.edu"]
	assert.Equal(t, "existing-token", blake.Token)
	assert.Equal(t, "Blake Chen", blake.Name)
	assert.Equal(t, existingID, blake.ID)

	// every synced match starts over at pending regardless of the CSV stage
	for _, matches := range replacer.byStudent {
		for _, m := range matches {
			assert.Equal(t, models.StagePending, m.Stage)
		}
	}
	assert.Len(t, replacer.byStudent[alex.ID], 2)
	assert.Len(t, replacer.byStudent[existingID], 1)

	// magic links use the trimmed base URL and the plaintext token
	assert.Equal(t, "https://sweek.v1michigan.com/s/"+blake.Token, report.MagicLinks["b@umich.edu"])
}
