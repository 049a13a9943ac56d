package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsAndDurations(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: ./test.db
auth:
  secret: s3cret
links:
  ttl: 720h
quota:
  plans:
    pro: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 720*time.Hour, cfg.Links.TTL)
	assert.Equal(t, float64(50), cfg.Links.MinRadius)
	assert.Equal(t, 6, cfg.Slug.Length)
	assert.Equal(t, 10, cfg.Slug.MaxAttempts)
	assert.Equal(t, 3, cfg.Quota.Default)
	assert.Equal(t, 100, cfg.Quota.Plans["pro"])
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoad_QuotaZeroMeansUnlimited(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: ./test.db
auth:
  secret: s3cret
quota:
  default: 0
  plans:
    business: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Quota.Default)
	assert.Equal(t, 0, cfg.Quota.Plans["business"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOQR_PORT", "9090")
	t.Setenv("GEOQR_JWT_SECRET", "from-env")
	t.Setenv("GEOQR_DB_PATH", "/tmp/override.db")

	path := writeConfig(t, `
database:
  driver: sqlite
  path: ./test.db
auth:
  secret: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, DefaultQuota, cfg.Quota.Default)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{
			Database: DB{Driver: "sqlite", Path: "x.db"},
			Auth:     Auth{Secret: "s"},
		}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mongo" }, wantErr: true},
		{name: "mysql without host", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.Secret = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "slug too short", mutate: func(c *Config) { c.Slug.Length = 2 }, wantErr: true},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Requests = 10
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
