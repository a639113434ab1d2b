package http

import (
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/service"
)

type Handler struct {
	authService  *service.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

func New(authService *service.AuthService, cookieTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{
		authService:  authService,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

type signInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type sessionResponse struct {
	State   string `json:"state"`
	Mode    string `json:"mode"`
	Token   string `json:"token,omitempty"`
	Profile any    `json:"profile,omitempty"`
}
