package http

import (
	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/middleware"
)

// Register expects Authenticate to already be on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/session", h.GetSession)
	rg.POST("/signin", h.SignIn)
	rg.POST("/signup", h.SignUp)
	rg.POST("/signout", h.SignOut)
	rg.PUT("/profile", middleware.RequireClient(), h.UpdateProfile)
}
