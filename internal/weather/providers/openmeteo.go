package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	OpenMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"
	OpenMeteoArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

// hourlyFields are requested from both Open-Meteo endpoints.
var hourlyFields = []string{"temperature_2m", "precipitation", "weather_code"}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo,
// switching between the archive and forecast APIs by date.
type OpenMeteoProvider struct {
	name        string
	forecastURL string
	archiveURL  string
	location    *time.Location
	policy      weather.EndpointPolicy
	httpCfg     HTTPClientConfig
	circuits    map[weather.Source]*gobreaker.CircuitBreaker
}

// OpenMeteoOptions overrides the Open-Meteo defaults. Zero values keep the default.
type OpenMeteoOptions struct {
	ForecastURL string
	ArchiveURL  string
	Policy      weather.EndpointPolicy
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig, opts OpenMeteoOptions) *OpenMeteoProvider {
	p := &OpenMeteoProvider{
		name:        "openmeteo",
		forecastURL: OpenMeteoForecastURL,
		archiveURL:  OpenMeteoArchiveURL,
		policy:      opts.Policy,
		httpCfg:     httpCfg,
		circuits: map[weather.Source]*gobreaker.CircuitBreaker{
			weather.SourceArchive:  newCircuitBreaker("openmeteo-archive"),
			weather.SourceForecast: newCircuitBreaker("openmeteo-forecast"),
		},
	}
	if opts.ForecastURL != "" {
		p.forecastURL = opts.ForecastURL
	}
	if opts.ArchiveURL != "" {
		p.archiveURL = opts.ArchiveURL
	}
	p.location = p.policy.Location
	if p.location == nil {
		p.location = time.UTC
	}
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Endpoint returns the URL that would serve date.
func (p *OpenMeteoProvider) Endpoint(date weather.Date) (string, weather.Source) {
	if src := p.policy.Select(date); src == weather.SourceArchive {
		return p.archiveURL, src
	}
	return p.forecastURL, weather.SourceForecast
}

type openMeteoHourly struct {
	Time          []string   `json:"time"`
	Temperature2m []*float64 `json:"temperature_2m"`
	Precipitation []*float64 `json:"precipitation"`
	WeatherCode   []*int     `json:"weather_code"`
}

type openMeteoResponse struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Timezone  string           `json:"timezone"`
	Hourly    *openMeteoHourly `json:"hourly"`
}

func (p *OpenMeteoProvider) FetchDay(ctx context.Context, coord weather.Coordinate, date weather.Date) (weather.DayWeather, error) {
	endpoint, source := p.Endpoint(date)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
		values.Set("hourly", strings.Join(hourlyFields, ","))
		values.Set("start_date", date.String())
		values.Set("end_date", date.String())
		values.Set("timezone", p.location.String())

		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuits[source], buildRequest)
	if err != nil {
		return weather.DayWeather{}, weather.Unavailable(p.name, openMeteoCause(err), err)
	}

	var payload openMeteoResponse
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.DayWeather{}, weather.Unavailable(p.name, weather.CauseMalformed, err)
	}

	records, nerr := payload.records(date)
	if nerr != nil {
		return weather.DayWeather{}, nerr.withProvider(p.name)
	}

	tz := payload.Timezone
	if tz == "" {
		tz = p.location.String()
	}

	return weather.DayWeather{
		Coordinate: coord,
		Date:       date,
		Timezone:   tz,
		Provider:   p.name,
		Source:     source,
		Records:    records,
	}, nil
}

// normalizeError is a weather.Error waiting for its provider name.
type normalizeError struct {
	cause weather.Cause
	err   error
}

func (e *normalizeError) withProvider(name string) error {
	return weather.Unavailable(name, e.cause, e.err)
}

// records zips the parallel hourly arrays index by index. Hours without a
// temperature or code, or belonging to another date, are dropped; a null
// precipitation counts as zero.
func (r openMeteoResponse) records(date weather.Date) ([]weather.HourlyRecord, *normalizeError) {
	h := r.Hourly
	if h == nil {
		return nil, &normalizeError{weather.CauseMalformed, errors.New("response has no hourly section")}
	}
	n := len(h.Time)
	if len(h.Temperature2m) != n || len(h.Precipitation) != n || len(h.WeatherCode) != n {
		return nil, &normalizeError{weather.CauseMalformed, fmt.Errorf(
			"hourly arrays differ in length: time=%d temperature=%d precipitation=%d code=%d",
			n, len(h.Temperature2m), len(h.Precipitation), len(h.WeatherCode))}
	}

	records := make([]weather.HourlyRecord, 0, n)
	for i := 0; i < n; i++ {
		if h.Temperature2m[i] == nil || h.WeatherCode[i] == nil {
			continue
		}
		day, clock, hour, ok := splitTimestamp(h.Time[i], "T")
		if !ok || day != date.String() {
			continue
		}
		var precip float64
		if h.Precipitation[i] != nil {
			precip = *h.Precipitation[i]
		}
		code := *h.WeatherCode[i]
		records = append(records, weather.HourlyRecord{
			Time:            clock,
			Hour:            hour,
			TemperatureC:    *h.Temperature2m[i],
			PrecipitationMM: precip,
			ConditionCode:   code,
			ConditionLabel:  weather.Classify(code).Label(),
		})
	}

	if len(records) == 0 {
		return nil, &normalizeError{weather.CauseNoData, fmt.Errorf("no hourly values for %s", date)}
	}

	sortRecords(records)
	return records, nil
}

// openMeteoCause refines causeOf: a 400 about the date range means the
// endpoint simply has no data for that day.
func openMeteoCause(err error) weather.Cause {
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusBadRequest &&
		common.ContainsAnyFold(se.reason, "out of allowed range", "invalid date") {
		return weather.CauseNoData
	}
	return causeOf(err)
}

// splitTimestamp splits "YYYY-MM-DD<sep>HH:MM" into date, clock and hour.
func splitTimestamp(ts, sep string) (day, clock string, hour int, ok bool) {
	day, clock, ok = strings.Cut(strings.TrimSpace(ts), sep)
	if !ok {
		return "", "", 0, false
	}
	if len(clock) > 5 {
		clock = clock[:5]
	}
	hh, _, _ := strings.Cut(clock, ":")
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", "", 0, false
	}
	return day, clock, hour, true
}

func sortRecords(records []weather.HourlyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time < records[j].Time
	})
}
