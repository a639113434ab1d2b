package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestBackend(t *testing.T) *Backend {
	b, err := NewWithClock(func() time.Time { return fixedNow })
	require.NoError(t, err)
	return b
}

func TestWeddingForm_FixedSampleForEveryUser(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	a, err := b.GetWeddingForm(ctx, "user-a")
	require.NoError(t, err)
	other, err := b.GetWeddingForm(ctx, "user-b")
	require.NoError(t, err)

	assert.Equal(t, "Sarah", a.FormData["bride_name"])
	assert.Equal(t, "Michael", a.FormData["groom_name"])
	assert.Equal(t, a.FormData, other.FormData)
	assert.Equal(t, "user-b", other.UserID)
}

func TestWeddingForm_SaveEchoesWithoutStoring(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	in := domain.FieldMap{"bride_name": "Zoe"}
	first, err := b.SaveWeddingForm(ctx, "user-a", in)
	require.NoError(t, err)
	second, err := b.SaveWeddingForm(ctx, "user-a", in)
	require.NoError(t, err)

	assert.Equal(t, first.FormData, second.FormData)
	assert.Equal(t, "Zoe", first.FormData["bride_name"])

	got, err := b.GetWeddingForm(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, "Sarah", got.FormData["bride_name"], "demo reads ignore writes")

	in["bride_name"] = "mutated"
	assert.Equal(t, "Zoe", first.FormData["bride_name"])
}

func TestSeededClients(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	clients, err := b.ListClients(ctx, "")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	// newest first
	assert.Equal(t, "Emma Wilson", clients[0].FullName)
	assert.Equal(t, 100, clients[1].CompletionPercentage)

	found, err := b.ListClients(ctx, "michael")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sarah.johnson@example.com", found[0].Email)
}

func TestCreateClient(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	c, err := b.CreateClient(ctx, domain.NewClient{Email: "New@Example.com", FullName: "New Person", BrideName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", c.Email)
	require.NotNil(t, c.Form)
	assert.Equal(t, 14, c.CompletionPercentage)

	_, err = b.CreateClient(ctx, domain.NewClient{Email: "new@example.com", FullName: "Dup"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, b.DeleteClient(ctx, c.ID))
	_, err = b.GetClient(ctx, c.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestEnsureProfileNeverChangesRole(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	p, err := b.EnsureProfile(ctx, domain.EnsureProfileRequest{ID: "uid-1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, p.Role)

	admin := domain.RoleAdmin
	_, err = b.UpdateProfile(ctx, "uid-1", domain.ProfileUpdate{Role: &admin})
	require.NoError(t, err)

	again, err := b.EnsureProfile(ctx, domain.EnsureProfileRequest{ID: "uid-1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, again.Role)
}

func TestScheduledEmailLifecycle(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	due, err := b.DueScheduledEmails(ctx, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, due, "seeded email is in the future")

	due, err = b.DueScheduledEmails(ctx, fixedNow.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Wedding Form Reminder", due[0].TemplateName)

	require.NoError(t, b.MarkScheduledEmailSent(ctx, due[0].ID, fixedNow))
	_, err = b.CancelScheduledEmail(ctx, due[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookAvailability(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	slot, err := b.BookAvailability(ctx, "c3d4e500-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)
	assert.Equal(t, "2025-03-02", slot.Date)

	_, err = b.BookAvailability(ctx, "c3d4e500-0000-4000-8000-000000000001")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestIntegrationSettingsDefaults(t *testing.T) {
	b := newTestBackend(t)
	s, err := b.GetIntegrationSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultIntegrationSettings(), s)
}
