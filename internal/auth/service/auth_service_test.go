package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/repository"
	core "github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway/memory"
)

type fakeIdentity struct {
	tokens  map[string]domain.Identity
	revoked []string
}

func (f *fakeIdentity) VerifyIDToken(_ context.Context, idToken string) (*domain.Identity, error) {
	ident, ok := f.tokens[idToken]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &ident, nil
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, displayName string) (*domain.Identity, error) {
	for _, ident := range f.tokens {
		if ident.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	return &domain.Identity{UID: "uid-" + email, Email: email, DisplayName: displayName}, nil
}

func (f *fakeIdentity) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func newLiveService(t *testing.T) (*AuthService, *fakeIdentity, *memory.Backend) {
	profiles, err := memory.New()
	require.NoError(t, err)
	ident := &fakeIdentity{tokens: map[string]domain.Identity{
		"good-token": {UID: "uid-1", Email: "alice@example.com", DisplayName: "Alice"},
	}}
	svc := NewAuthService(Options{
		Identity: ident,
		Profiles: profiles,
		Sessions: repository.NewMemorySessionStore(time.Hour),
	})
	return svc, ident, profiles
}

func TestDemoMode(t *testing.T) {
	svc := NewAuthService(Options{Demo: true, DemoProfile: domain.DemoProfile("")})
	ctx := context.Background()

	sess := svc.Resolve(ctx, "")
	assert.Equal(t, domain.StateDemo, sess.State)
	assert.True(t, sess.SignedIn())
	assert.Equal(t, domain.DemoUserID, sess.UserID())
	assert.Equal(t, "demo@example.com", sess.Profile.Email)
	assert.False(t, sess.IsAdmin())

	_, err := svc.SignIn(ctx, "anything", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrDemoMode)
	_, err = svc.SignUp(ctx, domain.SignUpRequest{Email: "a@example.com", Password: "secret1", FullName: "A"}, "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrDemoMode)

	var released []string
	svc.OnSignOut(func(id string) { released = append(released, id) })
	out := svc.SignOut(ctx, sess)
	assert.Equal(t, domain.StateUnauthenticated, out.State)
	assert.Equal(t, []string{domain.DemoUserID}, released)

	// the demo identity comes straight back
	assert.Equal(t, domain.StateDemo, svc.Resolve(ctx, "").State)
}

func TestDemoAdminRole(t *testing.T) {
	svc := NewAuthService(Options{Demo: true, DemoProfile: domain.DemoProfile(core.RoleAdmin)})
	assert.True(t, svc.Resolve(context.Background(), "").IsAdmin())
}

func TestSignInCreatesProfileAndSession(t *testing.T) {
	svc, _, profiles := newLiveService(t)
	ctx := context.Background()

	sess, err := svc.SignIn(ctx, "good-token", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAuthenticated, sess.State)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, core.RoleClient, sess.Profile.Role)
	assert.Equal(t, "Alice", sess.Profile.FullName)

	p, err := profiles.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.Email)

	resolved := svc.Resolve(ctx, sess.Token)
	assert.Equal(t, domain.StateAuthenticated, resolved.State)
	assert.Equal(t, "uid-1", resolved.UserID())
}

func TestSignInRejectsBadToken(t *testing.T) {
	svc, _, _ := newLiveService(t)
	_, err := svc.SignIn(context.Background(), "forged", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSignInRateLimited(t *testing.T) {
	svc, _, _ := newLiveService(t)
	svc.limiter = denyAll{}
	_, err := svc.SignIn(context.Background(), "good-token", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newLiveService(t)
	_, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "alice@example.com", Password: "secret1", FullName: "Alice"}, "ip")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	sess, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "bob@example.com", Password: "secret1", FullName: " Bob "}, "ip")
	require.NoError(t, err)
	assert.Equal(t, "Bob", sess.Profile.FullName)
}

func TestSignOutInvalidatesSession(t *testing.T) {
	svc, ident, _ := newLiveService(t)
	ctx := context.Background()

	sess, err := svc.SignIn(ctx, "good-token", "ip")
	require.NoError(t, err)

	out := svc.SignOut(ctx, sess)
	assert.Equal(t, domain.StateUnauthenticated, out.State)
	assert.Equal(t, []string{"uid-1"}, ident.revoked)
	assert.Equal(t, domain.StateUnauthenticated, svc.Resolve(ctx, sess.Token).State)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _ := newLiveService(t)
	assert.Equal(t, domain.StateUnauthenticated, svc.Resolve(context.Background(), "nope").State)
	assert.Equal(t, domain.StateUnauthenticated, svc.Resolve(context.Background(), "  ").State)
}

func TestUpdateOwnProfileIgnoresRole(t *testing.T) {
	svc, _, _ := newLiveService(t)
	ctx := context.Background()
	sess, err := svc.SignIn(ctx, "good-token", "ip")
	require.NoError(t, err)

	name, role := "Alice B", core.RoleAdmin
	p, err := svc.UpdateOwnProfile(ctx, sess, core.ProfileUpdate{FullName: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", p.FullName)
	assert.Equal(t, core.RoleClient, p.Role)

	_, err = svc.UpdateOwnProfile(ctx, domain.Session{State: domain.StateUnauthenticated}, core.ProfileUpdate{})
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}
