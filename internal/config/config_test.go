package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("PIXPAY_TEST_STR", "value")
	t.Setenv("PIXPAY_TEST_INT", "42")
	t.Setenv("PIXPAY_TEST_BAD_INT", "forty")
	t.Setenv("PIXPAY_TEST_BOOL", "true")
	t.Setenv("PIXPAY_TEST_DUR", "90s")
	t.Setenv("PIXPAY_TEST_FLOAT", "2.5")

	assert.Equal(t, "value", GetEnv("PIXPAY_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnv("PIXPAY_TEST_MISSING", "x"))
	assert.Equal(t, 42, GetIntEnv("PIXPAY_TEST_INT", 1))
	assert.Equal(t, 1, GetIntEnv("PIXPAY_TEST_BAD_INT", 1))
	assert.True(t, GetBoolEnv("PIXPAY_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetDurationEnv("PIXPAY_TEST_DUR", time.Second))
	assert.Equal(t, 2.5, GetFloatEnv("PIXPAY_TEST_FLOAT", 0))
}

func TestLoadTrimsPublicURL(t *testing.T) {
	t.Setenv("APP_URL", "https://pay.example.com/")
	t.Setenv("BSPAY_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "https://pay.example.com", cfg.Server.PublicURL)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "pixpay", cfg.Database.Name)
}
