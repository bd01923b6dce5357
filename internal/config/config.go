// Package config reads the storefront's settings from the environment.
// Every setting has a hardcoded default.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/storefront/internal/money"
	"github.com/mmynk/storefront/internal/order"
)

const (
	DefaultStoreName = "Taquería Los Changos"
	DefaultPhone     = "529994552650"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port        int
	DBPath      string
	StaticPath  string
	CatalogPath string

	Storage  string
	RedisURL string

	StoreName string
	// Phone is the order destination, digits only.
	Phone    string
	Locale   string
	Currency string

	SessionSecret string
	SessionTTL    time.Duration
	// SessionIdle is how long an unused session stays in memory.
	SessionIdle time.Duration
	// SessionRetention is how long an unused session stays in storage.
	SessionRetention time.Duration
}

func getEnv(getenv func(string) string, key, fallback string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads settings through getenv.
func LoadFrom(getenv func(string) string) (Config, error) {
	c := Config{
		DBPath:      getEnv(getenv, "DB_PATH", "./data/storefront.db"),
		StaticPath:  getEnv(getenv, "STATIC_PATH", "./static"),
		CatalogPath: getenv("CATALOG_PATH"),
		Storage:     strings.ToLower(getEnv(getenv, "STORAGE", BackendSQLite)),
		RedisURL:    getEnv(getenv, "REDIS_URL", "redis://localhost:6379/0"),
		Locale:      money.DefaultLocale,
		Currency:    money.DefaultCurrency,

		SessionSecret: getenv("SESSION_SECRET"),
	}

	c.StoreName = strings.TrimSpace(getenv("STORE_NAME"))
	if c.StoreName == "" {
		c.StoreName = DefaultStoreName
	}
	c.Phone = order.DigitsOnly(getenv("WPP_NUMBER"))
	if c.Phone == "" {
		c.Phone = DefaultPhone
	}

	var err error
	if c.Port, err = strconv.Atoi(getEnv(getenv, "PORT", "8080")); err != nil {
		return Config{}, fmt.Errorf("invalid PORT: %w", err)
	}
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"SESSION_TTL", "720h", &c.SessionTTL},
		{"SESSION_IDLE", "30m", &c.SessionIdle},
		{"SESSION_RETENTION", "720h", &c.SessionRetention},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(getEnv(getenv, d.key, d.fallback)); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	switch c.Storage {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RandomSecret returns a fresh signing secret for when SESSION_SECRET is
// unset. Tokens signed with it do not survive a restart.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
