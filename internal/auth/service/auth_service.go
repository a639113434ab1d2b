package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/repository"
	core "github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error)
	CreateUser(ctx context.Context, email, password, displayName string) (*domain.Identity, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*core.Profile, error)
	EnsureProfile(ctx context.Context, req core.EnsureProfileRequest) (*core.Profile, error)
	UpdateProfile(ctx context.Context, id string, upd core.ProfileUpdate) (*core.Profile, error)
}

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Options struct {
	// Demo serves DemoProfile to every caller and never touches Identity.
	Demo        bool
	DemoProfile core.Profile
	Identity    IdentityProvider
	Profiles    ProfileStore
	Sessions    repository.SessionStore
	Limiter     Limiter
}

// AuthService is the app-wide session and identity provider.
type AuthService struct {
	demo        bool
	demoProfile core.Profile
	identity    IdentityProvider
	profiles    ProfileStore
	sessions    repository.SessionStore
	limiter     Limiter

	mu        sync.RWMutex
	onSignOut []func(userID string)
}

func NewAuthService(opts Options) *AuthService {
	return &AuthService{
		demo:        opts.Demo,
		demoProfile: opts.DemoProfile,
		identity:    opts.Identity,
		profiles:    opts.Profiles,
		sessions:    opts.Sessions,
		limiter:     opts.Limiter,
	}
}

func (s *AuthService) Demo() bool {
	return s.demo
}

// OnSignOut registers a hook run with the user id after every sign-out.
func (s *AuthService) OnSignOut(fn func(userID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

// Resolve maps a session token to a session. Demo mode always yields the demo session.
func (s *AuthService) Resolve(ctx context.Context, token string) domain.Session {
	if s.demo {
		p := s.demoProfile
		return domain.Session{State: domain.StateDemo, Profile: &p}
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return unauthenticated()
	}

	rec, err := s.sessions.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			logger.New(ctx).LogError("auth.resolve", err)
		}
		return unauthenticated()
	}

	profile, err := s.loadProfile(ctx, domain.Identity{UID: rec.UserID, Email: rec.Email})
	if err != nil {
		logger.New(ctx).LogErrorf("auth.resolve", "user_id=%s error=%v", rec.UserID, err)
		return unauthenticated()
	}
	return domain.Session{Token: token, State: domain.StateAuthenticated, Profile: profile}
}

// SignIn verifies a hosted-provider ID token and opens a session.
func (s *AuthService) SignIn(ctx context.Context, idToken, clientKey string) (domain.Session, error) {
	if s.demo {
		logger.New(ctx).LogWarn("auth.signin", "sign in is not available in demo mode")
		return domain.Session{}, domain.ErrDemoMode
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, "signin:"+clientKey) {
		return domain.Session{}, domain.ErrRateLimited
	}

	ident, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.Session{}, err
	}
	return s.open(ctx, *ident)
}

// SignUp creates the hosted identity and its client profile, then opens a session.
func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest, clientKey string) (domain.Session, error) {
	if s.demo {
		logger.New(ctx).LogWarn("auth.signup", "sign up is not available in demo mode")
		return domain.Session{}, domain.ErrDemoMode
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, "signup:"+clientKey) {
		return domain.Session{}, domain.ErrRateLimited
	}

	ident, err := s.identity.CreateUser(ctx, strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.FullName))
	if err != nil {
		return domain.Session{}, err
	}
	if ident.DisplayName == "" {
		ident.DisplayName = strings.TrimSpace(req.FullName)
	}
	return s.open(ctx, *ident)
}

// SignOut always ends unauthenticated. Provider-side failures are logged only.
func (s *AuthService) SignOut(ctx context.Context, sess domain.Session) domain.Session {
	log := logger.New(ctx)
	userID := sess.UserID()

	if !s.demo {
		if sess.Token != "" {
			if err := s.sessions.Delete(ctx, sess.Token); err != nil {
				log.LogError("auth.signout", err)
			}
		}
		if userID != "" && s.identity != nil {
			if err := s.identity.RevokeRefreshTokens(ctx, userID); err != nil {
				log.LogErrorf("auth.signout", "revoke user_id=%s error=%v", userID, err)
			}
		}
	}

	if userID != "" {
		s.mu.RLock()
		hooks := append([]func(string){}, s.onSignOut...)
		s.mu.RUnlock()
		for _, fn := range hooks {
			fn(userID)
		}
	}

	return unauthenticated()
}

// UpdateOwnProfile lets a signed-in user change their name and phone. Role changes are dropped.
func (s *AuthService) UpdateOwnProfile(ctx context.Context, sess domain.Session, upd core.ProfileUpdate) (*core.Profile, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrSessionNotFound
	}
	upd.Role = nil
	if s.demo {
		p := *sess.Profile
		if upd.FullName != nil {
			p.FullName = *upd.FullName
		}
		if upd.Phone != nil {
			p.Phone = *upd.Phone
		}
		return &p, nil
	}
	return s.profiles.UpdateProfile(ctx, sess.UserID(), upd)
}

func (s *AuthService) open(ctx context.Context, ident domain.Identity) (domain.Session, error) {
	profile, err := s.loadProfile(ctx, ident)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load profile: %w", err)
	}

	token, err := s.sessions.Create(ctx, domain.SessionRecord{UserID: ident.UID, Email: ident.Email})
	if err != nil {
		return domain.Session{}, err
	}

	logger.New(ctx).LogInfof("auth.open", "user_id=%s role=%s", profile.ID, profile.Role)
	return domain.Session{Token: token, State: domain.StateAuthenticated, Profile: profile}, nil
}

// loadProfile reads the profile, creating a client profile the first time an identity is seen.
func (s *AuthService) loadProfile(ctx context.Context, ident domain.Identity) (*core.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, ident.UID)
	if err == nil {
		return p, nil
	}
	if !core.IsNotFound(err) {
		return nil, err
	}
	return s.profiles.EnsureProfile(ctx, core.EnsureProfileRequest{
		ID:       ident.UID,
		Email:    ident.Email,
		FullName: ident.DisplayName,
	})
}

func unauthenticated() domain.Session {
	return domain.Session{State: domain.StateUnauthenticated}
}
