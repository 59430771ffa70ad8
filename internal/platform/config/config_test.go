package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	// Keep a developer's .env out of the test.
	t.Chdir(t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://reporting.lfglending.com/api", cfg.UpstreamBaseURL)
	assert.Equal(t, "https://link.kicknsaas.com/api", cfg.DocumentsBaseURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, ThemeStoreMemory, cfg.ThemeStore)
	assert.Equal(t, 30*time.Minute, cfg.EditSessionTTL)
	assert.Equal(t, 3*time.Second, cfg.EditSuccessDisplay)
	assert.Equal(t, []int{25, 50, 100, 250}, cfg.PageSizes)
	assert.Equal(t, 100, cfg.DefaultPageSize)
	assert.Contains(t, cfg.AccessAdmins, "byron@teksupport.io")
	assert.Contains(t, cfg.AccessViewers, "viewer2@example.com")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:9000/api/")
	t.Setenv("ACCESS_ADMINS", " a@example.com , ,b@example.com")
	t.Setenv("THEME_STORE", "SQLite")
	t.Setenv("PAGE_SIZES", "10,20")
	t.Setenv("DEFAULT_PAGE_SIZE", "20")
	t.Setenv("EDIT_SESSION_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.UpstreamBaseURL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AccessAdmins)
	assert.Equal(t, ThemeStoreSQLite, cfg.ThemeStore)
	assert.Equal(t, []int{10, 20}, cfg.PageSizes)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 5*time.Minute, cfg.EditSessionTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"THEME_STORE": "postgres"}},
		{"unknown store", map[string]string{"THEME_STORE": "redis"}},
		{"bad duration", map[string]string{"UPSTREAM_TIMEOUT": "soon"}},
		{"default size not allowed", map[string]string{"DEFAULT_PAGE_SIZE": "30"}},
		{"bad page sizes", map[string]string{"PAGE_SIZES": "10,abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
