package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mode is how the user picked the location.
type Mode string

const (
	ModeMap  Mode = "map"
	ModeCity Mode = "city"
)

// Request is one dashboard render: everything the core needs, passed by value.
type Request struct {
	Date       Date
	Mode       Mode
	Coordinate Coordinate // used in ModeMap
	Place      string     // used in ModeCity
	Lang       Language
}

// Dashboard is the display-ready result of a Request.
type Dashboard struct {
	Date     Date       `json:"date"`
	Place    Place      `json:"place"`
	Language Language   `json:"language"`
	Previous DaySummary `json:"previous"`
	Next     DaySummary `json:"next"`
	Detail   DetailView `json:"detail"`
}

// Service composes resolution, fetching and the views. It holds no per-request state.
type Service struct {
	provider Provider
	resolver Resolver
	now      func() time.Time
	location *time.Location
	log      *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the wall clock, used for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone in which "today" is computed for date validation.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a new Service.
func NewService(provider Provider, resolver Resolver, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		resolver: resolver,
		now:      time.Now,
		location: time.UTC,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today is the current time in the service's zone.
func (s *Service) today() time.Time {
	return s.now().In(s.location)
}

// ProviderName reports the weather provider in use.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Resolve looks up a place name.
func (s *Service) Resolve(ctx context.Context, place string) (Place, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return Place{}, NotFound("", CauseNoMatch, errors.New("empty place name"))
	}
	if s.resolver == nil {
		return Place{}, NotFound("", CauseTransport, errors.New("no geocoder configured"))
	}
	p, err := s.resolver.Resolve(ctx, place)
	if err != nil {
		s.log.Info("place resolution failed",
			zap.String("resolver", s.resolver.Name()),
			zap.String("place", place),
			zap.String("cause", string(CauseOf(err))),
			zap.Error(err))
		return Place{}, err
	}
	return p, nil
}

// FetchDay validates the inputs and fetches one day. Labels are rendered in lang.
func (s *Service) FetchDay(ctx context.Context, coord Coordinate, date Date, lang Language) (DayWeather, error) {
	if err := date.Validate(s.today()); err != nil {
		return DayWeather{}, err
	}
	if err := coord.Validate(); err != nil {
		return DayWeather{}, err
	}
	return s.fetch(ctx, coord, date, lang)
}

func (s *Service) fetch(ctx context.Context, coord Coordinate, date Date, lang Language) (DayWeather, error) {
	if s.provider == nil {
		return DayWeather{}, Unavailable("", CauseTransport, errors.New("no weather provider configured"))
	}
	day, err := s.provider.FetchDay(ctx, coord, date)
	if err != nil {
		s.log.Info("weather fetch failed",
			zap.String("provider", s.provider.Name()),
			zap.Stringer("coordinate", coord),
			zap.Stringer("date", date),
			zap.String("cause", string(CauseOf(err))),
			zap.Error(err))
		return DayWeather{}, err
	}
	if lang != "" && lang != DefaultLanguage {
		day = day.Relabel(lang)
	}
	return day, nil
}

// BuildDashboard renders a Request. Invalid dates, bad coordinates and
// unresolvable places fail the whole request; a failed day fetch only
// blanks that day's section.
func (s *Service) BuildDashboard(ctx context.Context, req Request) (Dashboard, error) {
	if err := req.Date.Validate(s.today()); err != nil {
		return Dashboard{}, err
	}
	if req.Lang == "" {
		req.Lang = DefaultLanguage
	}

	var place Place
	switch req.Mode {
	case ModeCity:
		p, err := s.Resolve(ctx, req.Place)
		if err != nil {
			return Dashboard{}, err
		}
		place = p
	case ModeMap, "":
		if err := req.Coordinate.Validate(); err != nil {
			return Dashboard{}, err
		}
		place = Place{Coordinate: req.Coordinate}
	default:
		return Dashboard{}, fmt.Errorf("unknown location mode %q", req.Mode)
	}

	dash := Dashboard{
		Date:     req.Date,
		Place:    place,
		Language: req.Lang,
	}

	prevDate := req.Date.AddDays(-1)
	nextDate := req.Date.AddDays(1)

	// Fetch order: previous, next, then the selected day.
	if day, err := s.fetch(ctx, place.Coordinate, prevDate, req.Lang); err != nil {
		dash.Previous = missingSummary(prevDate, err)
	} else {
		dash.Previous = Summarize(day)
	}

	if day, err := s.fetch(ctx, place.Coordinate, nextDate, req.Lang); err != nil {
		dash.Next = missingSummary(nextDate, err)
	} else {
		dash.Next = Summarize(day)
	}

	if day, err := s.fetch(ctx, place.Coordinate, req.Date, req.Lang); err != nil {
		dash.Detail = DetailView{Date: req.Date, Reason: Reason(err)}
	} else {
		dash.Detail = Detail(day)
	}

	s.log.Debug("dashboard built",
		zap.Stringer("date", req.Date),
		zap.Stringer("coordinate", place.Coordinate),
		zap.Bool("previous", dash.Previous.Available),
		zap.Bool("next", dash.Next.Available),
		zap.Bool("detail", dash.Detail.Available))

	return dash, nil
}
