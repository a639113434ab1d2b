package cronjob

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway/memory"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
)

type recordingMailer struct {
	mu     sync.Mutex
	sent   []notify.Message
	failTo string
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.To == m.failTo {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, mailer notify.Mailer) (*Dispatcher, *memory.Backend) {
	backend, err := memory.NewWithClock(func() time.Time { return start })
	require.NoError(t, err)

	d := NewDispatcher(backend, mailer, Options{
		RatePerSecond: 100,
		Branding:      notify.Branding{CompanyName: "Sky Photography", PhotographerName: "Sky Photography Team"},
	})
	return d, backend
}

func TestRunOnce_NothingDue(t *testing.T) {
	mailer := &recordingMailer{}
	d, _ := setup(t, mailer)
	d.now = func() time.Time { return start }

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, mailer.sent)
}

func TestRunOnce_SendsMergedAndMarksSent(t *testing.T) {
	mailer := &recordingMailer{}
	d, backend := setup(t, mailer)
	d.now = func() time.Time { return start.Add(72 * time.Hour) }

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "emma.wilson@example.com", msg.To)
	assert.Equal(t, "Complete Your Wedding Form - Emma & James", msg.Subject)
	assert.Contains(t, msg.Body, "Cheshire Manor")
	assert.Contains(t, msg.Body, "20/09/2024")
	assert.Contains(t, msg.Body, "Sky Photography Team")

	emails, err := backend.ListScheduledEmails(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, domain.EmailSent, emails[0].Status)
	assert.NotNil(t, emails[0].SentAt)

	// second run finds nothing left
	n, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunOnce_FailedRecipientLeavesScheduled(t *testing.T) {
	mailer := &recordingMailer{failTo: "emma.wilson@example.com"}
	d, backend := setup(t, mailer)
	d.now = func() time.Time { return start.Add(72 * time.Hour) }

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	emails, err := backend.ListScheduledEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailScheduled, emails[0].Status)
}

const (
	sarahID         = "7d0f6a1c-1b7e-4a53-9a55-3c1f2c6d0a01"
	emmaID          = "7d0f6a1c-1b7e-4a53-9a55-3c1f2c6d0a02"
	welcomeTemplate = "3b2e1f00-0000-4000-8000-000000000002"
	sarahAddress    = "sarah.johnson@example.com"
	emmaAddress     = "emma.wilson@example.com"
)

func (m *recordingMailer) sentTo(addr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.sent {
		if msg.To == addr {
			n++
		}
	}
	return n
}

func scheduleWelcome(t *testing.T, backend *memory.Backend, clientIDs ...string) string {
	e, err := backend.ScheduleEmail(context.Background(), domain.ScheduledEmail{
		TemplateID:   welcomeTemplate,
		ClientIDs:    clientIDs,
		ScheduledFor: start,
	})
	require.NoError(t, err)
	return e.ID
}

func statusOf(t *testing.T, backend *memory.Backend, id string) string {
	emails, err := backend.ListScheduledEmails(context.Background())
	require.NoError(t, err)
	for _, e := range emails {
		if e.ID == id {
			return e.Status
		}
	}
	t.Fatalf("scheduled email %s not found", id)
	return ""
}

func TestRunOnce_DeletedRecipientIsSkipped(t *testing.T) {
	mailer := &recordingMailer{}
	d, backend := setup(t, mailer)
	d.now = func() time.Time { return start.Add(72 * time.Hour) }
	id := scheduleWelcome(t, backend, sarahID, "deleted-client")

	for i := 0; i < 5; i++ {
		_, err := d.RunOnce(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, mailer.sentTo(sarahAddress))
	assert.Equal(t, domain.EmailSent, statusOf(t, backend, id))
}

func TestRunOnce_RetryMailsOnlyMissedRecipients(t *testing.T) {
	mailer := &recordingMailer{failTo: emmaAddress}
	d, backend := setup(t, mailer)
	d.now = func() time.Time { return start.Add(72 * time.Hour) }
	id := scheduleWelcome(t, backend, sarahID, emmaID)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailScheduled, statusOf(t, backend, id))
	assert.Equal(t, 1, mailer.sentTo(sarahAddress))

	mailer.mu.Lock()
	mailer.failTo = ""
	mailer.mu.Unlock()

	_, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailSent, statusOf(t, backend, id))
	assert.Equal(t, 1, mailer.sentTo(sarahAddress), "reached recipients are not mailed again")
	assert.Empty(t, d.delivered)
}

func TestStart_RejectsBadSpec(t *testing.T) {
	d, _ := setup(t, &recordingMailer{})
	d.spec = "not a cron spec"
	assert.Error(t, d.Start())
	d.Stop()
}
