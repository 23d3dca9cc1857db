package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 7, cfg.CodeLength)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFailsWithoutCredentials(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("USERNAME", "")
	t.Setenv("PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFallsBackToPlainCredentialKeys(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("USERNAME", "admin")
	t.Setenv("PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
}

func TestLoadRejectsUnknownAlgorithm(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALGORITHM", "RS256")

	_, err := Load()
	assert.Error(t, err)
}

func TestProdRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://qrlinks:pw@localhost:5432/qrlinks")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestShortURL(t *testing.T) {
	cfg := &Config{PublicBaseURL: "https://qr.example.com/"}
	assert.Equal(t, "https://qr.example.com/aB3xK9q", cfg.ShortURL("aB3xK9q"))
}

func TestIsHTTPS(t *testing.T) {
	assert.True(t, (&Config{PublicBaseURL: "https://qr.example.com"}).IsHTTPS())
	assert.False(t, (&Config{PublicBaseURL: "http://localhost:8000"}).IsHTTPS())
}
