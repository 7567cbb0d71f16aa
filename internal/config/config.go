package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// ErrMissingToken is returned by Load when TELEGRAM_BOT_TOKEN is unset.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	BotToken      string
	AdminIDs      []string
	Port          string
	ContactsFile  string
	StoreDriver   string
	DatabaseURL   string
	AllowedOrigin string
	// NotifyRateLimit is the number of POST /notify requests allowed per client IP per minute.
	NotifyRateLimit int
	// TrustedProxyCount is the number of reverse proxies appending to X-Forwarded-For.
	TrustedProxyCount int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BotToken:        strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN")),
		AdminIDs:        ParseAdminIDs(getenv("ADMIN_USER_IDS")),
		Port:            withDefault(getenv("PORT"), "4001"),
		ContactsFile:    withDefault(getenv("CONTACTS_FILE"), "contacts.json"),
		StoreDriver:     strings.ToLower(withDefault(getenv("STORE_DRIVER"), StoreFile)),
		DatabaseURL:     getenv("DATABASE_URL"),
		AllowedOrigin:   withDefault(getenv("ALLOWED_ORIGIN"), "*"),
		NotifyRateLimit: 30,
	}

	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}

	if v := getenv("NOTIFY_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid NOTIFY_RATE_LIMIT %q", v)
		}
		cfg.NotifyRateLimit = n
	}

	if v := getenv("TRUSTED_PROXY_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXY_COUNT %q", v)
		}
		cfg.TrustedProxyCount = n
	}

	switch cfg.StoreDriver {
	case StoreFile:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// ParseAdminIDs splits a comma-separated list, trimming spaces and dropping empty entries.
func ParseAdminIDs(s string) []string {
	ids := []string{}
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsAdmin reports whether id is one of the configured administrator identifiers.
// Identifiers are compared as text.
func (c *Config) IsAdmin(id string) bool {
	return slices.Contains(c.AdminIDs, id)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func withDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
