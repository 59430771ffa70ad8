package config

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Theme store backends.
const (
	ThemeStoreMemory   = "memory"
	ThemeStorePostgres = "postgres"
	ThemeStoreSQLite   = "sqlite"
)

// Default allowlist. Keys are lowercased when loaded.
var (
	defaultAdmins = []string{
		"ashley@lfglending.com",
		"kaileigh@lfglending.com",
		"Lorena@LFGlending.com",
		"Abbey@LFGlending.com",
		"liz@lfglending.com",
		"byron@teksupport.io",
		"mycrm@innostak.com",
		"jeff@innostak.com",
	}
	defaultViewers = []string{
		"nicole@lfglending.com",
		"Kat@lfglending.com",
		"kevin@lfglending.com",
		"adam@lfglending.com",
		"kate@lfglending.com",
		"brooke@lfglending.com",
		"Dan@lfglending.com",
		"david@lfglending.com",
		"Dawn@lfglending.com",
		"viewer2@example.com",
	}
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	UpstreamBaseURL  string
	DocumentsBaseURL string
	UpstreamTimeout  time.Duration

	AccessAdmins  []string
	AccessViewers []string

	ThemeStore  string
	DatabaseURL string
	SQLitePath  string

	CORSAllowedOrigins []string
	RateLimit          string

	EditSessionTTL     time.Duration
	EditSuccessDisplay time.Duration

	PageSizes       []int
	DefaultPageSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("UPSTREAM_BASE_URL", "https://reporting.lfglending.com/api")
	viper.SetDefault("DOCUMENTS_BASE_URL", "https://link.kicknsaas.com/api")
	viper.SetDefault("UPSTREAM_TIMEOUT", "30s")
	viper.SetDefault("ACCESS_ADMINS", strings.Join(defaultAdmins, ","))
	viper.SetDefault("ACCESS_VIEWERS", strings.Join(defaultViewers, ","))
	viper.SetDefault("THEME_STORE", ThemeStoreMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "loan_dashboard.db")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("EDIT_SESSION_TTL", "30m")
	viper.SetDefault("EDIT_SUCCESS_DISPLAY", "3s")
	viper.SetDefault("PAGE_SIZES", "25,50,100,250")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 100)

	viper.AutomaticEnv()

	cfg := &Config{
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		UpstreamBaseURL:    strings.TrimRight(viper.GetString("UPSTREAM_BASE_URL"), "/"),
		DocumentsBaseURL:   strings.TrimRight(viper.GetString("DOCUMENTS_BASE_URL"), "/"),
		AccessAdmins:       splitList(viper.GetString("ACCESS_ADMINS")),
		AccessViewers:      splitList(viper.GetString("ACCESS_VIEWERS")),
		ThemeStore:         strings.ToLower(viper.GetString("THEME_STORE")),
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		SQLitePath:         viper.GetString("SQLITE_PATH"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		DefaultPageSize:    viper.GetInt("DEFAULT_PAGE_SIZE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	var err error
	if cfg.UpstreamTimeout, err = durationSetting("UPSTREAM_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.EditSessionTTL, err = durationSetting("EDIT_SESSION_TTL"); err != nil {
		return nil, err
	}
	if cfg.EditSuccessDisplay, err = durationSetting("EDIT_SUCCESS_DISPLAY"); err != nil {
		return nil, err
	}

	if cfg.PageSizes, err = intList(viper.GetString("PAGE_SIZES")); err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZES: %w", err)
	}
	if !slices.Contains(cfg.PageSizes, cfg.DefaultPageSize) {
		return nil, fmt.Errorf("DEFAULT_PAGE_SIZE %d is not one of PAGE_SIZES %v", cfg.DefaultPageSize, cfg.PageSizes)
	}

	switch cfg.ThemeStore {
	case ThemeStoreMemory, ThemeStoreSQLite:
	case ThemeStorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("THEME_STORE=%s requires PGSQL_URL", ThemeStorePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown THEME_STORE %q", cfg.ThemeStore)
	}

	if len(cfg.AccessAdmins) == 0 && len(cfg.AccessViewers) == 0 {
		log.Println("Warning: access allowlist is empty. Every request will be denied.")
	}

	return cfg, nil
}

func durationSetting(key string) (time.Duration, error) {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intList(raw string) ([]int, error) {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("page size must be positive, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
