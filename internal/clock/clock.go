// Package clock supplies "today" and day arithmetic in the user's
// effective timezone.
package clock

import (
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/utils"
)

// Source names where the effective timezone came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceSetting Source = "setting"
	SourceHost    Source = "host"
)

// Provider answers date questions in one fixed timezone.
type Provider struct {
	timezone string
	loc      *time.Location
	source   Source
	now      func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithNow replaces the wall clock. Tests use it to pin "today".
func WithNow(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a Provider. The explicit override wins over the persisted
// setting, which wins over the host zone. An unknown zone name is a
// validation error.
func New(override, persisted string, opts ...Option) (*Provider, error) {
	p := &Provider{
		timezone: constants.DefaultTimezone,
		source:   SourceHost,
		now:      time.Now,
	}
	switch {
	case override != "" && override != constants.DefaultTimezone:
		p.timezone, p.source = override, SourceConfig
	case persisted != "" && persisted != constants.DefaultTimezone:
		p.timezone, p.source = persisted, SourceSetting
	}

	loc, err := utils.LoadLocation(p.timezone)
	if err != nil {
		return nil, apperrors.Validation("clock.New", "invalid timezone %q", p.timezone)
	}
	p.loc = loc

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Now returns the current instant in the effective timezone.
func (p *Provider) Now() time.Time {
	return p.now().In(p.loc)
}

// Today returns the current calendar date as YYYY-MM-DD.
func (p *Provider) Today() string {
	return utils.TodayInLocation(p.now(), p.loc)
}

// EffectiveTimezone returns the zone name in use ("Local" for the host zone).
func (p *Provider) EffectiveTimezone() string {
	return p.timezone
}

// Source reports which layer chose the timezone.
func (p *Provider) Source() Source {
	return p.source
}

// Location returns the effective *time.Location.
func (p *Provider) Location() *time.Location {
	return p.loc
}

// HostZone returns the host's zone abbreviation at the current instant.
func (p *Provider) HostZone() string {
	name, _ := p.now().In(time.Local).Zone()
	return name
}

// ParseDate validates a day key and returns midnight of that day in the
// effective timezone.
func (p *Provider) ParseDate(date string) (time.Time, error) {
	t, err := utils.ParseDateInLocation(date, p.loc)
	if err != nil {
		return time.Time{}, apperrors.Validation("clock.ParseDate", "invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// AddDays shifts a day key by n days.
func (p *Provider) AddDays(date string, n int) (string, error) {
	out, err := utils.AddDays(date, n)
	if err != nil {
		return "", apperrors.Validation("clock.AddDays", "invalid date %q: expected YYYY-MM-DD", date)
	}
	return out, nil
}

// LastNDays returns the n day keys ending today, oldest first.
func (p *Provider) LastNDays(n int) []string {
	if n <= 0 {
		return []string{}
	}
	today := p.now().In(p.loc)
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = end.AddDate(0, 0, i-n+1).Format(constants.DateFormat)
	}
	return days
}
