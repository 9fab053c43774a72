package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	ServerPort  string
	CORSOrigins []string

	DBDriver     string
	DBDSN        string
	StoreTimeout time.Duration

	SessionSecret     string
	SessionTTL        time.Duration
	AdminPassword     string
	AdminPasswordHash string
	LoginRatePerMin   int

	CloudinaryURL string
	UploadDir     string

	RedisAddr     string
	RedisPassword string

	RefreshSchedule   string
	ContactResetDelay time.Duration
	SeedFile          string

	// Warnings lists values that were invalid and replaced by their default.
	Warnings []string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServerPort:  getEnv("SERVER_PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBDSN:        os.Getenv("DB_DSN"),
		StoreTimeout: env.duration("STORE_TIMEOUT", 10*time.Second),

		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        env.duration("SESSION_TTL", 12*time.Hour),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		LoginRatePerMin:   env.int("LOGIN_RATE_PER_MIN", 10),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RefreshSchedule:   getEnv("REFRESH_SCHEDULE", "@every 5m"),
		ContactResetDelay: env.duration("CONTACT_RESET_DELAY", 5*time.Second),
		SeedFile:          os.Getenv("SEED_FILE"),
	}

	cfg.Warnings = env.warnings

	// "off" disables the periodic refresh
	if strings.EqualFold(cfg.RefreshSchedule, "off") {
		cfg.RefreshSchedule = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set")
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and collects a warning for every value
// that falls back to its default.
type envReader struct {
	warnings []string
}

func (r *envReader) int(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.warnings = append(r.warnings, fmt.Sprintf("invalid integer for %s, using default: %d", key, defaultValue))
		return defaultValue
	}
	return value
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value < 0 {
		r.warnings = append(r.warnings, fmt.Sprintf("invalid duration for %s, using default: %s", key, defaultValue))
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
