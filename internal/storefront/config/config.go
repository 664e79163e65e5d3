// Package config reads the storefront settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	DBPath   string
	LogLevel string
	Seed     bool

	// RedisAddr empty means an in-process cache.
	RedisAddr string

	// PaymentServiceAddr empty means the simulator runs in-process.
	PaymentServiceAddr   string
	PaymentTimeout       time.Duration
	PaymentApprovalDwell time.Duration

	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string

	SMTP      SMTP
	EmailFrom string

	KafkaBrokers string
	KafkaTopic   string

	CORSOrigins []string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Enabled reports whether e-mail delivery is configured.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

func (s SMTP) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load builds a Config from environment variables, applying defaults.
func Load() (Config, error) {
	var errs []error

	cfg := Config{
		Port:               getEnv("PORT", "3001"),
		DBPath:             getEnv("DB_PATH", "sabor.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		PaymentServiceAddr: getEnv("PAYMENT_SERVICE_ADDR", ""),
		JWTSecret:          getEnv("JWT_SECRET", "surreal-sabor-dev-secret"),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin123"),
		EmailFrom:          getEnv("EMAIL_FROM", "noreply@surrealsabor.com.br"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "sabor.notifications"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}

	cfg.Seed = getBool("SEED", true, &errs)
	cfg.PaymentTimeout = getDuration("PAYMENT_TIMEOUT", 10*time.Second, &errs)
	cfg.PaymentApprovalDwell = getDuration("PAYMENT_APPROVAL_DWELL", 2*time.Minute, &errs)
	cfg.TokenTTL = getDuration("TOKEN_TTL", 24*time.Hour, &errs)
	cfg.SMTP.Port = getInt("SMTP_PORT", 587, &errs)

	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", cfg.Port))
	}
	if cfg.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT: must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func splitList(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
