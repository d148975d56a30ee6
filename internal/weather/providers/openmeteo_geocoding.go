package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const OpenMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocoder implements weather.Resolver using the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	name     string
	baseURL  string
	language weather.Language
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(httpCfg HTTPClientConfig, baseURL string, lang weather.Language) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = OpenMeteoGeocodingURL
	}
	if lang == "" {
		lang = weather.DefaultLanguage
	}
	return &OpenMeteoGeocoder{
		name:     "openmeteo-geocoding",
		baseURL:  baseURL,
		language: lang,
		httpCfg:  httpCfg,
		circuit:  newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

func (g *OpenMeteoGeocoder) Resolve(ctx context.Context, place string) (weather.Place, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", place)
		values.Set("count", "1")
		values.Set("language", string(g.language))
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return weather.Place{}, weather.NotFound(g.name, causeOf(err), err)
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Place{}, weather.NotFound(g.name, weather.CauseMalformed, err)
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, weather.NotFound(g.name, weather.CauseNoMatch, fmt.Errorf("no results for %q", place))
	}

	res := payload.Results[0]
	var parts []string
	for _, s := range []string{res.Name, res.Admin1, res.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}

	return newPlace(g.name, strings.Join(parts, ", "), res.Latitude, res.Longitude)
}
