package weather

import (
	"context"
	"time"
)

// DefaultArchiveLag is how far behind real time the archive endpoint runs.
// Days that started more than this long ago are served from the archive.
const DefaultArchiveLag = 48 * time.Hour

// Provider abstracts an hourly weather source (e.g. Open-Meteo, WeatherAPI).
type Provider interface {
	Name() string
	FetchDay(ctx context.Context, coord Coordinate, date Date) (DayWeather, error)
}

// Resolver turns a free-text place name into coordinates.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, place string) (Place, error)
}

// EndpointPolicy decides between the archive and forecast windows of a provider.
type EndpointPolicy struct {
	ArchiveLag time.Duration
	Location   *time.Location
	Now        func() time.Time
}

// NewEndpointPolicy returns a policy with the given lag (DefaultArchiveLag if zero)
// evaluated in loc against the wall clock.
func NewEndpointPolicy(lag time.Duration, loc *time.Location) EndpointPolicy {
	if lag <= 0 {
		lag = DefaultArchiveLag
	}
	if loc == nil {
		loc = time.UTC
	}
	return EndpointPolicy{ArchiveLag: lag, Location: loc, Now: time.Now}
}

// Select returns SourceArchive when the day started strictly more than
// ArchiveLag before now, SourceForecast otherwise.
func (p EndpointPolicy) Select(date Date) Source {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	lag := p.ArchiveLag
	if lag <= 0 {
		lag = DefaultArchiveLag
	}
	if date.Start(loc).Before(now().Add(-lag)) {
		return SourceArchive
	}
	return SourceForecast
}
