package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/weddingform/catalog"
)

// LandingHandler serves the public landing page content.
type LandingHandler struct {
	companyName string
	mode        string
}

func NewLandingHandler(companyName, mode string) *LandingHandler {
	return &LandingHandler{companyName: companyName, mode: mode}
}

func (h *LandingHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"company":  h.companyName,
		"mode":     h.mode,
		"sections": catalog.Sections(),
		"login":    "/login",
	})
}

func (h *LandingHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/landing", h.Landing)
}
