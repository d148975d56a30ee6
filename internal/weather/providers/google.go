package providers

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// GoogleGeocoder implements weather.Resolver with the Google Geocoding API.
// The underlying client keeps its API key in a package variable, so only one
// key can be active per process.
type GoogleGeocoder struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google",
		circuit: newCircuitBreaker("google-geocoding"),
		lookup:  geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, place string) (weather.Place, error) {
	if err := ctx.Err(); err != nil {
		return weather.Place{}, weather.NotFound(g.name, weather.CauseTransport, err)
	}

	// The client takes no context, so the lookup runs in its own goroutine
	// and is abandoned if ctx ends first.
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := g.circuit.Execute(func() (interface{}, error) {
			return g.lookup(geocoder.Address{City: place})
		})
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{loc: out.(geocoder.Location)}
	}()

	var res result
	select {
	case <-ctx.Done():
		return weather.Place{}, weather.NotFound(g.name, weather.CauseTransport, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return weather.Place{}, weather.NotFound(g.name, googleCause(res.err), res.err)
	}
	if res.loc.Latitude == 0 && res.loc.Longitude == 0 {
		return weather.Place{}, weather.NotFound(g.name, weather.CauseNoMatch, errors.New("empty location"))
	}

	return newPlace(g.name, place, res.loc.Latitude, res.loc.Longitude)
}

func googleCause(err error) weather.Cause {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.CauseCircuitOpen
	}
	msg := err.Error()
	switch {
	case common.ContainsAnyFold(msg, "ZERO_RESULTS", "no results"):
		return weather.CauseNoMatch
	case common.ContainsAnyFold(msg, "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT"):
		return weather.CauseRateLimited
	case common.ContainsAnyFold(msg, "REQUEST_DENIED", "INVALID_REQUEST"):
		return weather.CauseUpstream
	}
	return weather.CauseTransport
}
