package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/auth"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
	core "github.com/skyphotography/wedding-portal-backend/internal/domain"
)

// GetSession is the startup probe: it reports the caller's current state.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionBody(auth.SessionFrom(c)))
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.IDToken, c.ClientIP())
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setCookie(c, sess.Token)
	c.JSON(http.StatusOK, h.sessionBody(sess))
}

func (h *Handler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sess, err := h.authService.SignUp(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setCookie(c, sess.Token)
	c.JSON(http.StatusCreated, h.sessionBody(sess))
}

func (h *Handler) SignOut(c *gin.Context) {
	sess := h.authService.SignOut(c.Request.Context(), auth.SessionFrom(c))
	h.clearCookie(c)
	c.JSON(http.StatusOK, h.sessionBody(sess))
}

// UpdateProfile changes the caller's own name and phone. Role is ignored.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName *string `json:"full_name,omitempty"`
		Phone    *string `json:"phone,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.authService.UpdateOwnProfile(c.Request.Context(), auth.SessionFrom(c), core.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case core.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case core.IsPermissionDenied(err):
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDemoMode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrEmailTaken), core.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "authentication failed"})
	}
}

func (h *Handler) sessionBody(s domain.Session) sessionResponse {
	mode := "live"
	if h.authService.Demo() {
		mode = "demo"
	}
	resp := sessionResponse{State: string(s.State), Mode: mode, Token: s.Token}
	if s.Profile != nil {
		resp.Profile = s.Profile
	}
	return resp
}

func (h *Handler) setCookie(c *gin.Context, token string) {
	if token == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.secureCookie, true)
}
