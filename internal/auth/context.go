package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
)

const (
	CtxSession = "portal_session"

	// SessionCookie carries the session token for browser clients.
	SessionCookie = "portal_session"
)

// SessionFrom returns the session resolved by the Authenticate middleware.
func SessionFrom(c *gin.Context) domain.Session {
	if v, ok := c.Get(CtxSession); ok {
		if s, ok := v.(domain.Session); ok {
			return s
		}
	}
	return domain.Session{State: domain.StateUnauthenticated}
}

func SetSession(c *gin.Context, s domain.Session) {
	c.Set(CtxSession, s)
}
