package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store kinds for persisting the ingested table.
const (
	StoreNone     = "none"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputCSV       string
	ExportDir      string
	HTMLOutputPath string
	ScreenshotPath string
	BannerURL      string `validate:"omitempty,url"`

	PubYearMin int `validate:"ltefield=PubYearMax"`
	PubYearMax int

	StoreKind        string `validate:"oneof=none postgres sqlite"`
	PostgresHost     string `validate:"required_if=StoreKind postgres"`
	PostgresPort     string `validate:"omitempty,numeric"`
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string `validate:"required_if=StoreKind postgres"`
	PostgresSSLMode  string
	SQLitePath       string `validate:"required_if=StoreKind sqlite"`

	MaxConcurrency int `validate:"min=1"`
	RateLimitMs    int `validate:"min=0"`
	MaxRetries     int `validate:"min=1"`

	ChromeBin string
	LogLevel  string `validate:"oneof=debug info"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		InputCSV:       getEnv("GOODREADS_CSV", ""),
		ExportDir:      getEnv("EXPORT_DIR", ""),
		HTMLOutputPath: getEnv("HTML_OUTPUT_PATH", ""),
		ScreenshotPath: getEnv("SCREENSHOT_PATH", ""),
		BannerURL:      getEnv("BANNER_URL", "https://assets4.lottiefiles.com/temp/lf20_aKAfIn.json"),

		PubYearMin: getEnvInt("PUBYEAR_MIN", 1850),
		PubYearMax: getEnvInt("PUBYEAR_MAX", 2021),

		StoreKind:        strings.ToLower(getEnv("STORE_KIND", StoreNone)),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "reader"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "reader123"),
		PostgresDB:       getEnv("POSTGRES_DB", "goodreads"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "./output/goodreads.db"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		ChromeBin: getEnv("CHROME_BIN", ""),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Validate checks the configuration and returns one error listing every
// offending field, or nil.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), friendlyMessage(fe)))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return "is required for this store kind"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be numeric"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
