package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GOODREADS_CSV", "STORE_KIND", "PUBYEAR_MIN", "PUBYEAR_MAX", "MAX_CONCURRENCY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.InputCSV)
	assert.Equal(t, StoreNone, cfg.StoreKind)
	assert.Equal(t, 1850, cfg.PubYearMin)
	assert.Equal(t, 2021, cfg.PubYearMax)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOODREADS_CSV", "/tmp/export.csv")
	t.Setenv("STORE_KIND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/books.db")
	t.Setenv("PUBYEAR_MIN", "1700")
	t.Setenv("MAX_CONCURRENCY", "not-a-number")

	cfg := Load()
	assert.Equal(t, "/tmp/export.csv", cfg.InputCSV)
	assert.Equal(t, StoreSQLite, cfg.StoreKind)
	assert.Equal(t, "/tmp/books.db", cfg.SQLitePath)
	assert.Equal(t, 1700, cfg.PubYearMin)
	assert.Equal(t, 2, cfg.MaxConcurrency, "unparsable ints fall back to the default")
}

func TestValidateRejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			PubYearMin: 1850, PubYearMax: 2021, StoreKind: StoreNone,
			MaxConcurrency: 1, MaxRetries: 1, LogLevel: "info",
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown store", func(c *Config) { c.StoreKind = "mongo" }, "StoreKind"},
		{"postgres without host", func(c *Config) { c.StoreKind = StorePostgres; c.PostgresDB = "db" }, "PostgresHost"},
		{"sqlite without path", func(c *Config) { c.StoreKind = StoreSQLite }, "SQLitePath"},
		{"inverted window", func(c *Config) { c.PubYearMin = 2030 }, "PubYearMin"},
		{"zero workers", func(c *Config) { c.MaxConcurrency = 0 }, "MaxConcurrency"},
		{"bad banner url", func(c *Config) { c.BannerURL = "not a url" }, "BannerURL"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDSN(t *testing.T) {
	c := &Config{PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u", PostgresPassword: "p", PostgresDB: "books", PostgresSSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=books sslmode=disable", c.DSN())
}
