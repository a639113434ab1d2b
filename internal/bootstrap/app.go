package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/skyphotography/wedding-portal-backend/config"
	"github.com/skyphotography/wedding-portal-backend/internal/admin"
	"github.com/skyphotography/wedding-portal-backend/internal/auth"
	authdomain "github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/repository"
	"github.com/skyphotography/wedding-portal-backend/internal/auth/service"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway/memory"
	"github.com/skyphotography/wedding-portal-backend/internal/meetings"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
	cronjob "github.com/skyphotography/wedding-portal-backend/internal/notify/cron"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/ratelimit"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/schedule"
	"github.com/skyphotography/wedding-portal-backend/internal/storage/postgres"
	"github.com/skyphotography/wedding-portal-backend/internal/users"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform"
)

const serviceName = "wedding-portal-backend"

// App holds everything main needs to serve and shut down.
type App struct {
	Router     *gin.Engine
	Backend    gateway.Backend
	Forms      *weddingform.Service
	Dispatcher *cronjob.Dispatcher

	closers []func()
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Infra is the set of live connections. All fields are nil in demo mode.
type Infra struct {
	Pool  *pgxpool.Pool
	SQL   *sql.DB
	Redis *redis.Client
}

// NewApp wires the portal for the configured mode. Demo mode never dials Postgres,
// Redis or Firebase.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Background("bootstrap")
	app := &App{}

	infra, err := OpenInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, infra.Close)

	backend, err := NewBackend(ctx, cfg, infra)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Backend = backend

	authService, err := newAuthService(ctx, cfg, infra, backend)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Forms = weddingform.NewService(backend, schedule.Timer{}, cfg.Form.AutosaveDebounce)
	authService.OnSignOut(app.Forms.Release)

	links := newLinkGenerator(ctx, cfg)
	brand := notify.Branding{CompanyName: cfg.Branding.CompanyName, PhotographerName: cfg.Branding.PhotographerName}
	adminService := admin.NewService(backend, links, brand)

	if cfg.Email.DispatcherEnabled {
		mailer := NewMailer(ctx, cfg)
		app.Dispatcher = cronjob.NewDispatcher(backend, mailer, cronjob.Options{
			Spec:          cfg.Email.DispatchSpec,
			RatePerSecond: cfg.Email.SendRatePerSecond,
			Branding:      brand,
		})
	}

	app.Router = BuildRouter(RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Mode:           string(cfg.Mode()),
		CompanyName:    cfg.Branding.CompanyName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieTTL:      cfg.Session.TTL,
		SecureCookie:   cfg.App.Environment == "production",
		DB:             infra.Pool,
		Auth:           authService,
		Forms:          app.Forms,
		Admin:          adminService,
	})

	log.LogInfof("wire", "mode=%s redis=%t dispatcher=%t", cfg.Mode(), infra.Redis != nil, app.Dispatcher != nil)
	return app, nil
}

// OpenInfra dials the live connections. Redis is optional even in live mode.
func OpenInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	infra := &Infra{}
	if cfg.DemoMode() {
		return infra, nil
	}

	pool, err := OpenDB(ctx, DBOptions{
		DSN:      cfg.Backend.DatabaseURL,
		MaxConns: cfg.Backend.MaxConns,
		MinConns: cfg.Backend.MinConns,
	})
	if err != nil {
		return nil, err
	}
	infra.Pool = pool

	sqlDB, err := postgres.NewConnection(ctx, postgres.ConnOptions{
		DSN:          cfg.Backend.DatabaseURL,
		MaxOpenConns: cfg.Backend.MaxConns,
		MaxIdleConns: cfg.Backend.MinConns,
	})
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.SQL = sqlDB

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			_ = rdb.Close()
			infra.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQL != nil {
		_ = i.SQL.Close()
	}
	if i.Pool != nil {
		i.Pool.Close()
	}
}

// NewBackend picks the persistence gateway: the seeded in-memory store in demo
// mode, Postgres otherwise.
func NewBackend(ctx context.Context, cfg *config.Config, infra *Infra) (gateway.Backend, error) {
	if cfg.DemoMode() {
		mem, err := memory.New()
		if err != nil {
			return nil, fmt.Errorf("load demo seed: %w", err)
		}
		return mem, nil
	}
	if cfg.Backend.AutoMigrate {
		if err := postgres.Migrate(ctx, infra.SQL); err != nil {
			return nil, err
		}
	}
	return postgres.New(infra.SQL, users.NewRepo(infra.Pool)), nil
}

func newAuthService(ctx context.Context, cfg *config.Config, infra *Infra, profiles service.ProfileStore) (*service.AuthService, error) {
	if cfg.DemoMode() {
		return service.NewAuthService(service.Options{
			Demo:        true,
			DemoProfile: authdomain.DemoProfile(cfg.Session.DemoRole),
		}), nil
	}

	fb, err := auth.InitializeFirebase(ctx, cfg.Backend.CredentialsPath)
	if err != nil {
		return nil, err
	}

	opts := service.Options{
		Identity: auth.NewFirebaseIdentity(fb),
		Profiles: profiles,
		Sessions: repository.NewMemorySessionStore(cfg.Session.TTL),
	}
	if infra.Redis != nil {
		opts.Sessions = repository.NewRedisSessionStore(infra.Redis, cfg.Session.TTL)
		limiter, err := ratelimit.NewFixedWindowLimiter(infra.Redis, "portal:ratelimit", cfg.Session.SignInLimitPerMinute, time.Minute)
		if err != nil {
			return nil, err
		}
		opts.Limiter = limiter
	}
	return service.NewAuthService(opts), nil
}

// NewMailer returns SES when a sender and region are configured, a logging mailer otherwise.
func NewMailer(ctx context.Context, cfg *config.Config) notify.Mailer {
	if cfg.DemoMode() || cfg.Email.From == "" || cfg.Email.AWSRegion == "" {
		return notify.NewLogMailer()
	}
	m, err := notify.NewSESMailer(ctx, cfg.Email.AWSRegion, cfg.Email.From)
	if err != nil {
		logger.Background("bootstrap").LogWarnf("mailer", "ses unavailable, logging mail instead: %v", err)
		return notify.NewLogMailer()
	}
	return m
}

func newLinkGenerator(ctx context.Context, cfg *config.Config) meetings.LinkGenerator {
	if cfg.DemoMode() || cfg.Calendar.CalendarID == "" {
		return meetings.StubLinks{}
	}
	gc, err := meetings.NewGoogleCalendar(ctx, cfg.Calendar.CalendarID)
	if err != nil {
		logger.Background("bootstrap").LogWarnf("calendar", "google calendar unavailable, using stub links: %v", err)
		return meetings.StubLinks{}
	}
	return gc
}
