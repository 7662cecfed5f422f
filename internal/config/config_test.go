package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"LDSCREEN_API_URL", "LDSCREEN_REQUEST_TIMEOUT", "LDSCREEN_DB", "LDSCREEN_AGE_GROUP",
	"LDSCREEN_OFFLINE", "LDSCREEN_ADDR", "LDSCREEN_LOG_LEVEL", "LDSCREEN_LOG_FILE",
	"LDSCREEN_LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
}

// isolate clears the variables Load reads and restores them afterwards,
// including ones a .env file sets.
func isolate(t *testing.T) {
	t.Helper()
	for _, v := range configVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "9-11", cfg.AgeGroup)
	assert.False(t, cfg.Offline)
	assert.Equal(t, ":8000", cfg.ServeAddr)
	assert.False(t, cfg.LLM.Enabled())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"LDSCREEN_AGE_GROUP=6-8\nLDSCREEN_OFFLINE=true\nLDSCREEN_LOG_LEVEL=debug\nLDSCREEN_LLM_PROVIDER=mock\n",
	), 0o600))
	t.Setenv("LDSCREEN_AGE_GROUP", "12-14")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "12-14", cfg.AgeGroup, "environment wins over file")
	assert.True(t, cfg.Offline)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, variable, value string
	}{
		{"bad timeout", "LDSCREEN_REQUEST_TIMEOUT", "soon"},
		{"zero timeout", "LDSCREEN_REQUEST_TIMEOUT", "0s"},
		{"relative url", "LDSCREEN_API_URL", "localhost:8000"},
		{"age group", "LDSCREEN_AGE_GROUP", "15-18"},
		{"log level", "LDSCREEN_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.variable, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestOfflineSkipsURLCheck(t *testing.T) {
	cfg := &Config{APIURL: "", RequestTimeout: time.Second, AgeGroup: "9-11", LogLevel: "warn", Offline: true}
	assert.NoError(t, cfg.Validate())
}
