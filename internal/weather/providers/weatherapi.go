package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	WeatherAPIHistoryURL  = "https://api.weatherapi.com/v1/history.json"
	WeatherAPIForecastURL = "https://api.weatherapi.com/v1/forecast.json"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Hours are in the location's own local time; WeatherAPI has no timezone parameter.
type WeatherAPIProvider struct {
	name        string
	apiKey      string
	historyURL  string
	forecastURL string
	policy      weather.EndpointPolicy
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

// WeatherAPIOptions overrides the WeatherAPI defaults. Zero values keep the default.
type WeatherAPIOptions struct {
	HistoryURL  string
	ForecastURL string
	Policy      weather.EndpointPolicy
}

func NewWeatherAPIProvider(httpCfg HTTPClientConfig, apiKey string, opts WeatherAPIOptions) *WeatherAPIProvider {
	p := &WeatherAPIProvider{
		name:        "weatherapi",
		apiKey:      apiKey,
		historyURL:  WeatherAPIHistoryURL,
		forecastURL: WeatherAPIForecastURL,
		policy:      opts.Policy,
		httpCfg:     httpCfg,
		circuit:     newCircuitBreaker("weatherapi"),
	}
	if opts.HistoryURL != "" {
		p.historyURL = opts.HistoryURL
	}
	if opts.ForecastURL != "" {
		p.forecastURL = opts.ForecastURL
	}
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIResponse struct {
	Location *struct {
		TzID string `json:"tz_id"`
	} `json:"location"`
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Hour []struct {
				Time      string  `json:"time"`
				TempC     float64 `json:"temp_c"`
				PrecipMm  float64 `json:"precip_mm"`
				Condition struct {
					Code int `json:"code"`
				} `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchDay(ctx context.Context, coord weather.Coordinate, date weather.Date) (weather.DayWeather, error) {
	if p.apiKey == "" {
		return weather.DayWeather{}, weather.Unavailable(p.name, weather.CauseTransport, fmt.Errorf("weatherapi api key is not configured"))
	}

	source := p.policy.Select(date)
	endpoint := p.forecastURL
	if source == weather.SourceArchive {
		endpoint = p.historyURL
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%f,%f", coord.Lat, coord.Lon))
		values.Set("dt", date.String())
		if source == weather.SourceForecast {
			values.Set("days", "1")
			values.Set("aqi", "no")
			values.Set("alerts", "no")
		}

		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.DayWeather{}, weather.Unavailable(p.name, causeOf(err), err)
	}

	var payload weatherAPIResponse
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.DayWeather{}, weather.Unavailable(p.name, weather.CauseMalformed, err)
	}
	if payload.Forecast == nil {
		return weather.DayWeather{}, weather.Unavailable(p.name, weather.CauseMalformed, errors.New("response has no forecast section"))
	}

	var records []weather.HourlyRecord
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date != date.String() {
			continue
		}
		for _, h := range fd.Hour {
			day, clock, hour, ok := splitTimestamp(h.Time, " ")
			if !ok || day != date.String() {
				continue
			}
			code := wmoFromWeatherAPI(h.Condition.Code)
			records = append(records, weather.HourlyRecord{
				Time:            clock,
				Hour:            hour,
				TemperatureC:    h.TempC,
				PrecipitationMM: h.PrecipMm,
				ConditionCode:   code,
				ConditionLabel:  weather.Classify(code).Label(),
			})
		}
	}
	if len(records) == 0 {
		return weather.DayWeather{}, weather.Unavailable(p.name, weather.CauseNoData, fmt.Errorf("no hourly values for %s", date))
	}
	sortRecords(records)

	tz := time.UTC.String()
	if payload.Location != nil && payload.Location.TzID != "" {
		tz = payload.Location.TzID
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

// weatherAPIToWMO maps WeatherAPI condition codes onto the WMO codes the
// classifier understands.
var weatherAPIToWMO = map[int]int{
	1000: 0,  // sunny / clear
	1003: 2,  // partly cloudy
	1006: 3,  // cloudy
	1009: 3,  // overcast
	1030: 45, // mist
	1135: 45, // fog
	1147: 48, // freezing fog
	1063: 80, // patchy rain possible
	1150: 51, // patchy light drizzle
	1153: 53, // light drizzle
	1168: 56, // freezing drizzle
	1171: 57, // heavy freezing drizzle
	1180: 61, // patchy light rain
	1183: 61, // light rain
	1186: 63, // moderate rain at times
	1189: 63, // moderate rain
	1192: 65, // heavy rain at times
	1195: 65, // heavy rain
	1198: 66, // light freezing rain
	1201: 67, // moderate or heavy freezing rain
	1066: 71, // patchy snow possible
	1210: 71, // patchy light snow
	1213: 71, // light snow
	1216: 73, // patchy moderate snow
	1219: 73, // moderate snow
	1114: 73, // blowing snow
	1222: 75, // patchy heavy snow
	1225: 75, // heavy snow
	1117: 75, // blizzard
	1237: 77, // ice pellets
	1240: 80, // light rain shower
	1243: 81, // moderate or heavy rain shower
	1246: 82, // torrential rain shower
	1255: 85, // light snow showers
	1258: 86, // moderate or heavy snow showers
	1087: 95, // thundery outbreaks possible
	1273: 95, // patchy light rain with thunder
	1276: 95, // moderate or heavy rain with thunder
	1279: 95, // patchy light snow with thunder
	1282: 95, // moderate or heavy snow with thunder
}

// wmoFromWeatherAPI returns -1 for codes with no WMO equivalent, which
// classifies as unknown.
func wmoFromWeatherAPI(code int) int {
	if wmo, ok := weatherAPIToWMO[code]; ok {
		return wmo
	}
	return -1
}
