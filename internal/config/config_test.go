package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
)

func missingEnv(t *testing.T) LoadOptions {
	return LoadOptions{EnvFile: filepath.Join(t.TempDir(), "absent.env")}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultConfigPath, cfg.DB)
	assert.Equal(t, constants.DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, constants.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, constants.DefaultGenAIModel, cfg.GenAI.Model)
	assert.Equal(t, constants.DefaultMaxNoteLength, cfg.Limits.MaxNoteLength)
	assert.Equal(t, constants.DefaultStreakMaxLookback, cfg.Limits.StreakMaxLookback)
	assert.Equal(t, constants.DefaultCacheTTL, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Nil(t, cfg.Trends.IncludeNotePoints)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DAYPOINTS_HTTP_ADDR", ":9999")
	t.Setenv("DAYPOINTS_TIMEZONE", "America/New_York")
	t.Setenv("DAYPOINTS_REDIS_ADDR", "localhost:6379")
	t.Setenv("DAYPOINTS_CACHE_TTL", "30s")
	t.Setenv("DAYPOINTS_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("DAYPOINTS_MAX_NOTE_LENGTH", "0")
	t.Setenv("DAYPOINTS_INCLUDE_NOTE_POINTS", "true")
	t.Setenv("DAYPOINTS_TREND_DAYS", "7")

	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, constants.DefaultRequestTimeout, cfg.RequestTimeout, "bad durations fall back")
	assert.Zero(t, cfg.Limits.MaxNoteLength)
	require.NotNil(t, cfg.Trends.IncludeNotePoints)
	assert.True(t, *cfg.Trends.IncludeNotePoints)
	assert.Equal(t, 7, cfg.TrendDays(models.Settings{TrendDays: 30}))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DAYPOINTS_GENAI_MODEL=gemini-test\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("DAYPOINTS_GENAI_MODEL") })

	cfg, err := Load(LoadOptions{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", cfg.GenAI.Model)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daypoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\nstreak_max_lookback: 30\n"), 0600))

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "none"), ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, 30, cfg.Limits.StreakMaxLookback)

	_, err = Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "none"), ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestSettingFallbacks(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, constants.DefaultTrendDays, cfg.TrendDays(models.Settings{}))
	assert.Equal(t, 14, cfg.TrendDays(models.Settings{TrendDays: 14}))
	assert.True(t, cfg.IncludeNotePoints(models.Settings{IncludeNotePoints: true}))

	off := false
	cfg.Trends.IncludeNotePoints = &off
	assert.False(t, cfg.IncludeNotePoints(models.Settings{IncludeNotePoints: true}))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "/data/app", Dir("/data/app/daypoints.db", false))
	assert.Equal(t, constants.AppName, filepath.Base(Dir("postgres://h/db", true)))
}
