package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ProbeResult is the outcome of the last probe for one coordinate.
type ProbeResult struct {
	Coordinate weather.Coordinate `json:"coordinate"`
	Provider   string             `json:"provider"`
	CheckedAt  time.Time          `json:"checkedAt"`
	OK         bool               `json:"ok"`
	Cause      weather.Cause      `json:"cause,omitempty"`
	Hours      int                `json:"hours"`
}

// Fetcher is the slice of weather.Service the prober needs.
type Fetcher interface {
	FetchDay(ctx context.Context, coord weather.Coordinate, date weather.Date, lang weather.Language) (weather.DayWeather, error)
	ProviderName() string
}

// Scheduler periodically fetches today's weather for configured coordinates
// and keeps only whether each fetch worked.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	fetcher     Fetcher
	coordinates []weather.Coordinate
	interval    time.Duration
	location    *time.Location
	now         func() time.Time
	log         *zap.Logger

	mu      sync.RWMutex
	results map[weather.Coordinate]ProbeResult
}

// New creates a new Scheduler. Days are computed in loc.
func New(coordinates []weather.Coordinate, interval time.Duration, loc *time.Location, fetcher Fetcher, log *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(loc),
		fetcher:     fetcher,
		coordinates: coordinates,
		interval:    interval,
		location:    loc,
		now:         time.Now,
		log:         log,
		results:     make(map[weather.Coordinate]ProbeResult),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.coordinates) == 0 {
		s.log.Info("no probe coordinates configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce probes every coordinate, one after another.
func (s *Scheduler) RunOnce() {
	s.log.Debug("running upstream probe", zap.Int("coordinates", len(s.coordinates)))

	today := weather.DateOf(s.now().In(s.location))
	for _, coord := range s.coordinates {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		day, err := s.fetcher.FetchDay(ctx, coord, today, weather.DefaultLanguage)
		cancel()

		res := ProbeResult{
			Coordinate: coord,
			Provider:   s.fetcher.ProviderName(),
			CheckedAt:  s.now().UTC(),
			OK:         err == nil,
			Cause:      weather.CauseOf(err),
			Hours:      len(day.Records),
		}
		if err != nil {
			s.log.Warn("probe failed",
				zap.Stringer("coordinate", coord),
				zap.String("cause", string(res.Cause)),
				zap.Error(err))
		}

		s.mu.Lock()
		s.results[coord] = res
		s.mu.Unlock()
	}
}

// Results returns the latest probe outcomes in configuration order.
func (s *Scheduler) Results() []ProbeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProbeResult, 0, len(s.results))
	for _, c := range s.coordinates {
		if r, ok := s.results[c]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
