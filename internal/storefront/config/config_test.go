package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "DB_PATH", "LOG_LEVEL", "SEED", "REDIS_ADDR", "PAYMENT_SERVICE_ADDR",
	"PAYMENT_TIMEOUT", "PAYMENT_APPROVAL_DWELL", "JWT_SECRET", "TOKEN_TTL",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "SMTP_HOST", "SMTP_PORT", "SMTP_USER",
	"SMTP_PASSWORD", "EMAIL_FROM", "KAFKA_BROKERS", "KAFKA_TOPIC", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.True(t, cfg.Seed)
	assert.Empty(t, cfg.PaymentServiceAddr)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 2*time.Minute, cfg.PaymentApprovalDwell)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "noreply@surrealsabor.com.br", cfg.EmailFrom)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SEED", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://surrealsabor.com.br")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "smtp.example.com:2525", cfg.SMTP.Addr())
	assert.False(t, cfg.Seed)
	assert.Equal(t, []string{"http://localhost:5173", "https://surrealsabor.com.br"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":            "http",
		"PAYMENT_TIMEOUT": "ten seconds",
		"TOKEN_TTL":       "1 day",
		"SMTP_PORT":       "smtp",
		"SEED":            "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}

	t.Run("zero timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PAYMENT_TIMEOUT", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "PAYMENT_TIMEOUT")
	})
}
