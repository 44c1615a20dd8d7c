package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/crucial707/idle-clicker/internal/db"
	"github.com/crucial707/idle-clicker/internal/economy"
)

const defaultDBPass = "idlepass"

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", DB_PASS must be set and not the default.
	Env string

	DBHost    string
	DBPort    string
	DBName    string
	DBUser    string
	DBPass    string
	DBSSLMode string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int
	// DBConnMaxLifetime recycles pooled connections (default 30m).
	DBConnMaxLifetime time.Duration

	// RunMigrations applies the embedded schema migrations at startup (default true).
	RunMigrations bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://game.example.com).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent.
	CORSAllowedOrigins []string

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM (default 10s).
	ShutdownTimeout time.Duration

	// Economy is the production and cost curve (BASE_PRODUCTION, PRODUCTION_MULTIPLIER,
	// BASE_COST, COST_MULTIPLIER).
	Economy economy.Params

	// Argon2 tunes password hashing (ARGON2_TIME, ARGON2_MEMORY_KIB, ARGON2_THREADS).
	Argon2 credential.Argon2Params
}

func Load() Config {
	econ := economy.DefaultParams()
	argon := credential.DefaultArgon2Params()

	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "dev"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBName:    getEnv("DB_NAME", "idledb"),
		DBUser:    getEnv("DB_USER", "idleuser"),
		DBPass:    getEnv("DB_PASS", defaultDBPass),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,

		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,

		Economy: economy.Params{
			BaseProduction:       getEnvFloat("BASE_PRODUCTION", econ.BaseProduction),
			ProductionMultiplier: getEnvFloat("PRODUCTION_MULTIPLIER", econ.ProductionMultiplier),
			BaseCost:             getEnvFloat("BASE_COST", econ.BaseCost),
			CostMultiplier:       getEnvFloat("COST_MULTIPLIER", econ.CostMultiplier),
		},

		Argon2: credential.Argon2Params{
			Time:    uint32(getEnvInt("ARGON2_TIME", int(argon.Time))),
			Memory:  uint32(getEnvInt("ARGON2_MEMORY_KIB", int(argon.Memory))),
			Threads: uint8(min(getEnvInt("ARGON2_THREADS", int(argon.Threads)), 255)),
			KeyLen:  argon.KeyLen,
		},
	}
}

// Validate reports every setting the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if err := c.Economy.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Argon2.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Env == "prod" && c.DBPass == defaultDBPass {
		errs = append(errs, errors.New("config: DB_PASS must be set in prod"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("config: TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// TLSEnabled reports whether both certificate and key are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// DBOptions returns the connection settings for db.Connect.
func (c Config) DBOptions() db.Options {
	return db.Options{
		Host:            c.DBHost,
		Port:            c.DBPort,
		Name:            c.DBName,
		User:            c.DBUser,
		Password:        c.DBPass,
		SSLMode:         c.DBSSLMode,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
