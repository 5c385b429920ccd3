// Package config loads runtime settings from the environment, an optional
// .env file and an optional config file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "DAYPOINTS"

type Config struct {
	DB             string
	Timezone       string
	Debug          bool
	HTTPAddr       string
	RequestTimeout time.Duration

	Redis  RedisConfig
	GenAI  GenAIConfig
	Limits LimitsConfig
	Trends TrendsConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type GenAIConfig struct {
	APIKey string
	Model  string
}

type LimitsConfig struct {
	MaxNoteLength     int
	StreakMaxLookback int
}

// TrendsConfig holds overrides for the persisted trend settings. Zero or
// nil means "use the stored setting".
type TrendsConfig struct {
	Days              int
	IncludeNotePoints *bool
}

// LoadOptions points Load at extra sources.
type LoadOptions struct {
	EnvFile    string // defaults to ".env"; a missing file is ignored
	ConfigFile string // optional yaml/json/toml file
}

// Load reads configuration. Environment beats the config file, which beats
// the defaults.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DB:             v.GetString("DB"),
		Timezone:       v.GetString("TIMEZONE"),
		Debug:          v.GetBool("DEBUG"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		RequestTimeout: parseDuration(v.GetString("REQUEST_TIMEOUT"), constants.DefaultRequestTimeout),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		CacheTTL: parseDuration(v.GetString("CACHE_TTL"), constants.DefaultCacheTTL),
	}

	cfg.GenAI = GenAIConfig{
		APIKey: v.GetString("GENAI_API_KEY"),
		Model:  v.GetString("GENAI_MODEL"),
	}

	cfg.Limits = LimitsConfig{
		MaxNoteLength:     v.GetInt("MAX_NOTE_LENGTH"),
		StreakMaxLookback: v.GetInt("STREAK_MAX_LOOKBACK"),
	}
	if cfg.Limits.MaxNoteLength < 0 {
		cfg.Limits.MaxNoteLength = 0
	}
	if cfg.Limits.StreakMaxLookback <= 0 {
		cfg.Limits.StreakMaxLookback = constants.DefaultStreakMaxLookback
	}

	cfg.Trends.Days = v.GetInt("TREND_DAYS")
	if v.IsSet("INCLUDE_NOTE_POINTS") {
		b := v.GetBool("INCLUDE_NOTE_POINTS")
		cfg.Trends.IncludeNotePoints = &b
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB", constants.DefaultConfigPath)
	v.SetDefault("TIMEZONE", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("HTTP_ADDR", constants.DefaultHTTPAddr)
	v.SetDefault("REQUEST_TIMEOUT", constants.DefaultRequestTimeout.String())

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", constants.DefaultCacheTTL.String())

	v.SetDefault("GENAI_API_KEY", "")
	v.SetDefault("GENAI_MODEL", constants.DefaultGenAIModel)

	v.SetDefault("MAX_NOTE_LENGTH", constants.DefaultMaxNoteLength)
	v.SetDefault("STREAK_MAX_LOOKBACK", constants.DefaultStreakMaxLookback)
	v.SetDefault("TREND_DAYS", 0)
}

// TrendDays returns the configured window, else the stored setting, else
// the default.
func (c *Config) TrendDays(s models.Settings) int {
	switch {
	case c.Trends.Days > 0:
		return c.Trends.Days
	case s.TrendDays > 0:
		return s.TrendDays
	default:
		return constants.DefaultTrendDays
	}
}

// IncludeNotePoints returns the configured flag, else the stored setting.
func (c *Config) IncludeNotePoints(s models.Settings) bool {
	if c.Trends.IncludeNotePoints != nil {
		return *c.Trends.IncludeNotePoints
	}
	return s.IncludeNotePoints
}

// Dir returns the directory for logs and backups: the sqlite file's
// directory, or ~/.config/daypoints for server databases.
func Dir(resolvedDB string, isPostgres bool) string {
	if !isPostgres && resolvedDB != "" {
		return filepath.Dir(resolvedDB)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return filepath.Join(home, ".config", constants.AppName)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
