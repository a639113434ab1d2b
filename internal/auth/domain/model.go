package domain

import (
	"errors"
	"time"

	core "github.com/skyphotography/wedding-portal-backend/internal/domain"
)

// State of a caller's session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateDemo            State = "demo"
)

// Session is what route guards and handlers see for a request.
type Session struct {
	Token   string        `json:"token,omitempty"`
	State   State         `json:"state"`
	Profile *core.Profile `json:"profile,omitempty"`
}

// SignedIn is true for authenticated and demo sessions.
func (s Session) SignedIn() bool {
	return (s.State == StateAuthenticated || s.State == StateDemo) && s.Profile != nil
}

func (s Session) IsAdmin() bool {
	return s.SignedIn() && s.Profile.IsAdmin()
}

func (s Session) UserID() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.ID
}

// Identity is the hosted auth provider's view of a user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// SessionRecord is what the session store keeps per token.
type SessionRecord struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

var (
	ErrDemoMode           = errors.New("authentication is not available in demo mode")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRateLimited        = errors.New("too many sign-in attempts")
	ErrEmailTaken         = errors.New("email already registered")
)

// DemoUserID is the fixed identity served in demo mode.
const DemoUserID = "demo-user-id"

func DemoProfile(role string) core.Profile {
	if role == "" {
		role = core.RoleClient
	}
	return core.Profile{
		ID:       DemoUserID,
		Email:    "demo@example.com",
		FullName: "Demo User",
		Role:     role,
	}
}
