package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyphotography/wedding-portal-backend/internal/admin"
	adminhttp "github.com/skyphotography/wedding-portal-backend/internal/admin/http"
	httpapi "github.com/skyphotography/wedding-portal-backend/internal/api/http"
	"github.com/skyphotography/wedding-portal-backend/internal/api/http/middleware"
	authhttp "github.com/skyphotography/wedding-portal-backend/internal/auth/http"
	authmw "github.com/skyphotography/wedding-portal-backend/internal/auth/middleware"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/service"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform"
	formhttp "github.com/skyphotography/wedding-portal-backend/internal/weddingform/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Mode           string
	CompanyName    string
	AllowedOrigins []string
	CookieTTL      time.Duration
	SecureCookie   bool
	DB             *pgxpool.Pool

	Auth  *service.AuthService
	Forms *weddingform.Service
	Admin *admin.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(dep.AllowedOrigins))
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Mode, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	httpapi.NewLandingHandler(dep.CompanyName, dep.Mode).RegisterRoutes(api)

	api.Use(authmw.Authenticate(dep.Auth))

	authhttp.New(dep.Auth, dep.CookieTTL, dep.SecureCookie).Register(api.Group("/auth"))

	client := api.Group("/client")
	client.Use(authmw.RequireClient())
	formhttp.New(dep.Forms).Register(client)

	adm := api.Group("/admin")
	adm.Use(authmw.RequireAdmin())
	adminhttp.New(dep.Admin).Register(adm)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
	cfg.ExposeHeaders = []string{"X-Request-Id", "Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
