package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Session  SessionConfig
	Form     FormConfig
	Email    EmailConfig
	Calendar CalendarConfig
	Branding BrandingConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// BackendConfig holds the two variables that decide live vs demo mode.
type BackendConfig struct {
	DatabaseURL     string
	CredentialsPath string
	MaxConns        int
	MinConns        int
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL                  time.Duration
	SignInLimitPerMinute int
	DemoRole             string
}

type FormConfig struct {
	AutosaveDebounce time.Duration
}

type EmailConfig struct {
	From              string
	AWSRegion         string
	SendRatePerSecond int
	DispatchSpec      string
	DispatcherEnabled bool
}

type CalendarConfig struct {
	CalendarID string
}

type BrandingConfig struct {
	CompanyName      string
	PhotographerName string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Backend: BackendConfig{
			DatabaseURL:     getEnv("DB_DSN", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:                  getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			SignInLimitPerMinute: getEnvAsInt("SIGNIN_RATE_LIMIT_PER_MINUTE", 10),
			DemoRole:             getEnv("DEMO_ROLE", "client"),
		},
		Form: FormConfig{
			AutosaveDebounce: getEnvAsDuration("AUTOSAVE_DEBOUNCE", 2*time.Second),
		},
		Email: EmailConfig{
			From:              getEnv("EMAIL_FROM", ""),
			AWSRegion:         getEnv("AWS_REGION", ""),
			SendRatePerSecond: getEnvAsInt("EMAIL_SEND_RATE_PER_SECOND", 5),
			DispatchSpec:      getEnv("EMAIL_DISPATCH_SPEC", "0 * * * * *"),
			DispatcherEnabled: getEnvAsBool("EMAIL_DISPATCHER_ENABLED", true),
		},
		Calendar: CalendarConfig{
			CalendarID: getEnv("GOOGLE_CALENDAR_ID", ""),
		},
		Branding: BrandingConfig{
			CompanyName:      getEnv("COMPANY_NAME", "Sky Photography"),
			PhotographerName: getEnv("PHOTOGRAPHER_NAME", "Sky Photography Team"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Form.AutosaveDebounce <= 0 {
		return fmt.Errorf("AUTOSAVE_DEBOUNCE must be positive")
	}
	if c.Session.DemoRole != "client" && c.Session.DemoRole != "admin" {
		return fmt.Errorf("DEMO_ROLE must be client or admin")
	}
	return nil
}

// Mode reports demo when either backend variable is missing or still a placeholder.
func (c *Config) Mode() Mode {
	if isPlaceholder(c.Backend.DatabaseURL) || isPlaceholder(c.Backend.CredentialsPath) {
		return ModeDemo
	}
	return ModeLive
}

func (c *Config) DemoMode() bool {
	return c.Mode() == ModeDemo
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.Contains(strings.ToLower(v), "placeholder")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go durations ("2s") or bare milliseconds ("2000").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
