package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	require.NoError(t, Load())
	require.NotNil(t, AppConfig)

	assert.Equal(t, "8080", AppConfig.APIPort)
	assert.Equal(t, []byte("test-secret"), AppConfig.JWTKey)
	assert.Equal(t, 24*time.Hour, AppConfig.JWTExp)
	assert.Equal(t, LockoutBackendMemory, AppConfig.LockoutBackend)
	assert.Equal(t, 3, AppConfig.LockoutThreshold)
	assert.Equal(t, 30*time.Minute, AppConfig.LockoutWindow)
	assert.Equal(t, 4, AppConfig.PinLength)
	assert.Equal(t, 100, AppConfig.PinMaxAttempts)
	assert.Contains(t, AppConfig.DBConnStr, "dbname=book_review_db")
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("TOKEN_LIFETIME_HOURS", "1")
	t.Setenv("LOCKOUT_THRESHOLD", "5")
	t.Setenv("LOCKOUT_WINDOW_MINUTES", "10")
	t.Setenv("PIN_LENGTH", "6")
	t.Setenv("LOCKOUT_BACKEND", "redis")

	require.NoError(t, Load())

	assert.Equal(t, time.Hour, AppConfig.JWTExp)
	assert.Equal(t, 5, AppConfig.LockoutThreshold)
	assert.Equal(t, 10*time.Minute, AppConfig.LockoutWindow)
	assert.Equal(t, 6, AppConfig.PinLength)
	assert.Equal(t, LockoutBackendRedis, AppConfig.LockoutBackend)
}

func TestLoadAdminPinMustMatchPinLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ADMIN_NAME", "Abiel Robinson")

	t.Setenv("ADMIN_PIN", "12345")
	err := Load()
	require.Error(t, err, "5-digit seed PIN with default 4-digit width")
	assert.Contains(t, err.Error(), "ADMIN_PIN")

	t.Setenv("ADMIN_PIN", "12ab")
	require.Error(t, Load(), "non-digit seed PIN")

	t.Setenv("ADMIN_PIN", "0000")
	require.NoError(t, Load())

	// Width follows the configured PIN length, not a constant.
	t.Setenv("PIN_LENGTH", "6")
	require.Error(t, Load())
	t.Setenv("ADMIN_PIN", "000000")
	require.NoError(t, Load())
}

func TestLoadRejectsUnknownLockoutBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("LOCKOUT_BACKEND", "dynamo")

	err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCKOUT_BACKEND")
}
