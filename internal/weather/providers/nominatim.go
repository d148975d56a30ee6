package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const NominatimSearchURL = "https://nominatim.openstreetmap.org/search"

// DefaultUserAgent identifies this client to geocoding services that require it.
const DefaultUserAgent = "weather-dashboard/1.0"

// NominatimResolver implements weather.Resolver using OpenStreetMap Nominatim.
// Nominatim rejects requests without an identifying User-Agent.
type NominatimResolver struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNominatimResolver(httpCfg HTTPClientConfig, baseURL string) *NominatimResolver {
	if baseURL == "" {
		baseURL = NominatimSearchURL
	}
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = DefaultUserAgent
	}
	return &NominatimResolver{
		name:    "nominatim",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("nominatim"),
	}
}

func (r *NominatimResolver) Name() string {
	return r.name
}

func (r *NominatimResolver) Resolve(ctx context.Context, place string) (weather.Place, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", place)
		values.Set("format", "json")
		values.Set("limit", "1")

		u := fmt.Sprintf("%s?%s", r.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, r.httpCfg, r.circuit, buildRequest)
	if err != nil {
		return weather.Place{}, weather.NotFound(r.name, causeOf(err), err)
	}

	var payload []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Place{}, weather.NotFound(r.name, weather.CauseMalformed, err)
	}
	if len(payload) == 0 {
		return weather.Place{}, weather.NotFound(r.name, weather.CauseNoMatch, fmt.Errorf("no results for %q", place))
	}

	lat, latErr := strconv.ParseFloat(payload[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(payload[0].Lon, 64)
	if err := errors.Join(latErr, lonErr); err != nil {
		return weather.Place{}, weather.NotFound(r.name, weather.CauseMalformed, err)
	}

	return newPlace(r.name, payload[0].DisplayName, lat, lon)
}

// newPlace validates the coordinate an upstream returned.
func newPlace(provider, name string, lat, lon float64) (weather.Place, error) {
	coord := weather.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return weather.Place{}, weather.NotFound(provider, weather.CauseMalformed, err)
	}
	return weather.Place{Name: name, Coordinate: coord}, nil
}
