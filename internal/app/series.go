package app

import (
	"context"
	"errors"

	"github.com/julianstephens/daypoints/internal/cache"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/trends"
)

// DailySeries is Trends.DailySeries behind the trend cache. The bool
// reports a cache hit. Cache failures fall through to a fresh computation.
func (a *App) DailySeries(ctx context.Context, endDate string, days int) ([]trends.DayPoint, bool, error) {
	if endDate == "" {
		endDate = a.Clock.Today()
	}
	key := a.Cache.TrendKey(endDate, days, a.Trends.Options().IncludeNotePoints)

	if a.Cache.Enabled() {
		var cached []trends.DayPoint
		err := a.Cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			a.Metrics.RecordCacheLookup(true)
			return cached, true, nil
		case !errors.Is(err, cache.ErrMiss):
			logger.Warn("Trend cache read failed", "key", key, "error", err)
		}
		a.Metrics.RecordCacheLookup(false)
	}

	series, err := a.Trends.DailySeries(ctx, endDate, days)
	if err != nil {
		return nil, false, err
	}
	if err := a.Cache.Set(ctx, key, series); err != nil {
		logger.Warn("Trend cache write failed", "key", key, "error", err)
	}
	return series, false, nil
}
