package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15, cfg.JWT.AccessExpireMins)
	assert.Equal(t, 24*7, cfg.JWT.RefreshExpireHours)
	assert.Equal(t, "https://api.flutterwave.com/v3", cfg.Flutterwave.BaseURL)
	assert.Equal(t, 30, cfg.Flutterwave.TimeoutSeconds)
	assert.NotEmpty(t, cfg.Flutterwave.RedirectURL)
	assert.Equal(t, 1500.0, cfg.Shipping.LocalRate)
	assert.Equal(t, 5000.0, cfg.Shipping.InternationalRate)
	assert.Equal(t, []string{"kenya", "nigeria"}, cfg.Shipping.LocalCountries)
	assert.Equal(t, 100, cfg.RateLimits.Global.RPS)
	assert.Equal(t, 20, cfg.RateLimits.Auth.Burst)
	assert.Equal(t, 30, cfg.RateLimits.Checkout.RPS)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Shipping.LocalRate = 2000
	cfg.Shipping.LocalCountries = []string{"kenya"}
	applyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2000.0, cfg.Shipping.LocalRate)
	assert.Equal(t, []string{"kenya"}, cfg.Shipping.LocalCountries)
}
