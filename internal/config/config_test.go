package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// An explicit path that does not exist is a read error, not a "not found".
	require.Error(t, err)
	assert.Nil(t, cfg)

	t.Chdir(t.TempDir())
	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Pagination.DefaultPerPage)
	assert.Equal(t, 25, cfg.Pagination.MaxPerPage)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 8, cfg.Auth.PasswordPolicy.Length)
	assert.InDelta(t, 0.66, cfg.Auth.PasswordPolicy.Strength, 1e-9)
	assert.InDelta(t, 20, cfg.Auth.PasswordPolicy.EntropyBits, 1e-9)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9999
session:
  store: redis
  ttl: 1h
pagination:
  default_per_page: 10
  max_per_page: 50
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("RECIPEBOOK_SERVER_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10, cfg.Pagination.DefaultPerPage)
	assert.Equal(t, 50, cfg.Pagination.MaxPerPage)
}

func validConfig() Config {
	return Config{
		Server:     ServerConfig{Port: 8000},
		Database:   DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Session:    SessionConfig{Store: "memory", CookieName: "session", TTL: time.Hour},
		Auth:       AuthConfig{BcryptCost: 10},
		Pagination: PaginationConfig{DefaultPerPage: 5, MaxPerPage: 25},
		Logging:    LoggingConfig{Level: "info"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.User = "u"
			c.Database.Database = "d"
		}, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "unknown session store", mutate: func(c *Config) { c.Session.Store = "file" }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 1 }, wantErr: true},
		{name: "max per page below default", mutate: func(c *Config) { c.Pagination.MaxPerPage = 2 }, wantErr: true},
		{name: "rate limit without window", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Requests = 10
		}, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "recipebook",
		Password: "",
		Database: "recipes",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host='db.internal' port=5432 user='recipebook' password='' dbname='recipes' sslmode='disable'",
		cfg.DSN())

	cfg.Password = `it's a \secret`
	assert.Contains(t, cfg.DSN(), `password='it\'s a \\secret'`)
}
