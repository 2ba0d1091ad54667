package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/email"
)

type fakeStudentLister struct {
	students []*models.Student
}

func (f *fakeStudentLister) GetAllActive(_ context.Context) ([]*models.Student, error) {
	return f.students, nil
}

// recordingSender captures messages and can fail a fixed number of times per
// recipient before succeeding.
type recordingSender struct {
	sent       []email.Message
	failsLeft  map[string]int
	alwaysFail map[string]bool
}

func (r *recordingSender) Send(msg email.Message) error {
	if r.alwaysFail[msg.ToEmail] {
		return errors.New("mailbox unavailable")
	}
	if n := r.failsLeft[msg.ToEmail]; n > 0 {
		r.failsLeft[msg.ToEmail] = n - 1
		return errors.New("temporary failure")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func fastMailerOptions(logPath string) MailerOptions {
	return MailerOptions{
		DelayMin:   0,
		DelayMax:   0,
		BatchSize:  0,
		BatchDelay: 0,
		MaxRetries: 2,
		LogPath:    logPath,
	}
}

func TestMailerRun(t *testing.T) {
	lister := &fakeStudentLister{students: []*models.Student{
		{Email: "a@umich.edu", Name: "Alex Rivera", Token: "token-a", IsActive: true},
		{Email: "b@umich.edu", Name: "Blake Chen", Token: "token-b", IsActive: true},
		{Email: "c@umich.edu", Name: "No Token", Token: "", IsActive: true},
	}}
	sender := &recordingSender{}

	svc := NewMailerService(lister, sender, "https://sweek.v1michigan.com", fastMailerOptions(""), zerolog.Nop())
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.FailedList, 1)
	assert.Contains(t, report.FailedList[0], "missing data")

	require.Len(t, sender.sent, 2)
	msg := sender.sent[0]
	assert.Equal(t, "a@umich.edu", msg.ToEmail)
	assert.Contains(t, msg.TextBody, "Hey Alex Rivera,")
	assert.Contains(t, msg.TextBody, "https://sweek.v1michigan.com/s/token-a")
	assert.True(t, strings.Contains(msg.Subject, "Company Matches"))
}

func TestMailerRetriesThenSucceeds(t *testing.T) {
	lister := &fakeStudentLister{students: []*models.Student{
		{Email: "flaky@umich.edu", Name: "Flaky", Token: "token-f", IsActive: true},
	}}
	sender := &recordingSender{failsLeft: map[string]int{"flaky@umich.edu": 1}}

	svc := NewMailerService(lister, sender, "https://sweek.v1michigan.com", fastMailerOptions(""), zerolog.Nop())
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, sender.sent, 1)
}

func TestMailerExhaustsRetries(t *testing.T) {
	lister := &fakeStudentLister{students: []*models.Student{
		{Email: "gone@umich.edu", Name: "Gone", Token: "token-g", IsActive: true},
	}}
	sender := &recordingSender{alwaysFail: map[string]bool{"gone@umich.edu": true}}

	svc := NewMailerService(lister, sender, "https://sweek.v1michigan.com", fastMailerOptions(""), zerolog.Nop())
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Successful)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.FailedList[0], "send failed")
}

func TestMailerAttemptLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "email_log.json")
	lister := &fakeStudentLister{students: []*models.Student{
		{Email: "a@umich.edu", Name: "Alex Rivera", Token: "token-a", IsActive: true},
		{Email: "gone@umich.edu", Name: "Gone", Token: "token-g", IsActive: true},
	}}
	sender := &recordingSender{alwaysFail: map[string]bool{"gone@umich.edu": true}}

	svc := NewMailerService(lister, sender, "https://sweek.v1michigan.com", fastMailerOptions(logPath), zerolog.Nop())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var logs []attemptLog
	require.NoError(t, json.Unmarshal(data, &logs))
	require.Len(t, logs, 2)

	assert.Equal(t, "a@umich.edu", logs[0].Email)
	assert.True(t, logs[0].Success)
	assert.Empty(t, logs[0].Error)

	assert.Equal(t, "gone@umich.edu", logs[1].Email)
	assert.False(t, logs[1].Success)
	assert.Equal(t, "mailbox unavailable", logs[1].Error)
}
