// Package app assembles the services shared by the CLI, the TUI and the
// HTTP server around one loaded storage provider.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/daypoints/internal/aggregator"
	"github.com/julianstephens/daypoints/internal/cache"
	"github.com/julianstephens/daypoints/internal/chat"
	"github.com/julianstephens/daypoints/internal/clock"
	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/keyring"
	"github.com/julianstephens/daypoints/internal/ledger"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/metrics"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/registry"
	"github.com/julianstephens/daypoints/internal/storage"
	"github.com/julianstephens/daypoints/internal/trends"
)

// App holds the wired services.
type App struct {
	Config     *config.Config
	Store      storage.Provider
	Settings   models.Settings
	Clock      *clock.Provider
	Registry   *registry.Registry
	Ledger     *ledger.Ledger
	Aggregator *aggregator.Aggregator
	Trends     *trends.Calculator
	Chat       *chat.Service
	Cache      *cache.Cache
	Metrics    *metrics.Metrics
}

// Options carries optional collaborators. Zero values are fine.
type Options struct {
	Cache     *cache.Cache
	Metrics   *metrics.Metrics
	Generator chat.Generator
	ClockOpts []clock.Option
}

// New builds the services on top of a store that has already been loaded.
func New(ctx context.Context, cfg *config.Config, store storage.Provider, opts Options) (*App, error) {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	clk, err := clock.New(cfg.Timezone, settings.Timezone, opts.ClockOpts...)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Settings: settings,
		Clock:    clk,
		Cache:    opts.Cache,
		Metrics:  opts.Metrics,
	}
	if a.Cache == nil {
		a.Cache = cache.New(nil, cfg.Redis.CacheTTL)
	}

	a.Registry = registry.New(store, validator.New())
	a.Ledger = ledger.New(store)
	a.Aggregator = aggregator.New(a.Ledger, store, aggregator.Options{MaxNoteLength: cfg.Limits.MaxNoteLength})
	a.Trends = trends.NewCalculator(a.Registry, a.Ledger, a.Aggregator, clk, trends.Options{
		MaxLookback:       cfg.Limits.StreakMaxLookback,
		IncludeNotePoints: cfg.IncludeNotePoints(settings),
	})
	a.Chat = chat.NewService(opts.Generator, store)

	a.Registry.OnChange(func(ctx context.Context, _ models.Habit) {
		a.Metrics.RecordHabitChange()
		a.invalidate(ctx)
	})
	a.Ledger.OnChange(func(ctx context.Context, c ledger.Change) {
		a.Metrics.RecordLedgerChange(string(c.Kind), c.Count)
		a.invalidate(ctx)
	})
	a.Aggregator.OnChange(func(ctx context.Context, _ string) {
		a.invalidate(ctx)
	})

	return a, nil
}

// TrendDays is the default chart window.
func (a *App) TrendDays() int {
	return a.Config.TrendDays(a.Settings)
}

func (a *App) invalidate(ctx context.Context) {
	if err := a.Cache.Invalidate(ctx); err != nil {
		logger.Warn("Trend cache invalidation failed", "error", err)
	}
}

// NewGenerator returns a model-backed generator when an API key is found in
// the config or the keyring, and nil (simulated chat) otherwise.
func NewGenerator(ctx context.Context, cfg config.GenAIConfig) chat.Generator {
	apiKey := cfg.APIKey
	if apiKey == "" {
		if key, err := keyring.Get(keyring.SecretGenAI); err == nil {
			apiKey = key
		}
	}
	if apiKey == "" {
		logger.Info("No GenAI API key configured, chat runs in simulated mode")
		return nil
	}

	gen, err := chat.NewGenAIGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		logger.Warn("GenAI client unavailable, chat runs in simulated mode", "error", err)
		return nil
	}
	return gen
}
