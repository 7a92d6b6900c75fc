package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")

	cfg, err := Load("api")
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.RunMode)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "8090", cfg.ApiPort)
	assert.Equal(t, "8091", cfg.ServiceApiPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "wishlist", cfg.WishlistSlot)
	assert.Equal(t, "adminToken", cfg.TokenSlot)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 200, cfg.AdminPageSize)
	assert.Equal(t, 0, cfg.CountConcurrency)
	assert.Equal(t, 15*time.Minute, cfg.ExportLinkTTL)
	assert.Equal(t, 15*time.Minute, cfg.ViewIdleTTL)
	assert.Equal(t, 1000, cfg.MaxViews)
	assert.Equal(t, "*", cfg.CorsAllowedOrigin)
	assert.Equal(t, 20.0, cfg.ApiRateLimit)
	assert.Equal(t, 40, cfg.ApiRateBurst)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := Load("api")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("ADMIN_PAGE_SIZE", "lots")

	_, err := Load("api")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ADMIN_PAGE_SIZE")
}
