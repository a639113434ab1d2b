package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/auth"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
)

const loginPath = "/login"

type Resolver interface {
	Resolve(ctx context.Context, token string) domain.Session
}

// Authenticate resolves the caller's session and stores it on the context.
// It never rejects; guards below decide.
func Authenticate(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetSession(c, r.Resolve(c.Request.Context(), extractToken(c)))
		c.Next()
	}
}

// RequireClient sends unauthenticated callers to the login route.
func RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.SessionFrom(c).SignedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": loginPath,
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin is advisory: it trusts the cached role. The backend enforces access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := auth.SessionFrom(c)
		if !sess.SignedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": loginPath,
			})
			return
		}
		if !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "admin access required",
				"redirect": "/dashboard",
			})
			return
		}
		c.Next()
	}
}

// extractToken reads a Bearer token, falling back to the session cookie.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
		return cookie
	}
	return ""
}
