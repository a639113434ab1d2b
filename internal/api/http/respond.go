package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

// StatusFor maps gateway error kinds to HTTP statuses.
func StatusFor(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsPermissionDenied(err):
		return http.StatusForbidden
	case domain.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err and writes {"error": msg, "kind": ...}.
func WriteError(c *gin.Context, operation, msg string, err error) {
	status := StatusFor(err)
	logger.New(c.Request.Context()).LogError(operation, err)
	c.JSON(status, gin.H{"error": msg, "kind": kindOf(status)})
}

func kindOf(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusBadGateway:
		return "transport"
	default:
		return "internal"
	}
}
