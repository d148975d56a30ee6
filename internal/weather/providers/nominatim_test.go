package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestNominatimResolve(t *testing.T) {
	var gotUA, gotQuery, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		fmt.Fprint(w, `[{"lat":"36.3418","lon":"140.4468","display_name":"Mito, Ibaraki, Japan"}]`)
	}))
	defer srv.Close()

	cfg := DefaultHTTPConfig(srv.Client(), 0)
	cfg.UserAgent = "weather-dashboard-test"
	r := NewNominatimResolver(cfg, srv.URL)

	place, err := r.Resolve(context.Background(), "水戸")
	require.NoError(t, err)

	assert.Equal(t, "weather-dashboard-test", gotUA)
	assert.Equal(t, "水戸", gotQuery)
	assert.Equal(t, "1", gotLimit)
	assert.Equal(t, "Mito, Ibaraki, Japan", place.Name)
	assert.InDelta(t, 36.3418, place.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 140.4468, place.Coordinate.Lon, 1e-9)
}

func TestNominatimDefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	r := NewNominatimResolver(DefaultHTTPConfig(srv.Client(), 0), srv.URL)
	_, _ = r.Resolve(context.Background(), "x")

	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestNominatimFailureCauses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		cause  weather.Cause
	}{
		{"no match", http.StatusOK, `[]`, weather.CauseNoMatch},
		{"not json", http.StatusOK, `<html></html>`, weather.CauseMalformed},
		{"bad lat", http.StatusOK, `[{"lat":"north","lon":"1"}]`, weather.CauseMalformed},
		{"out of range", http.StatusOK, `[{"lat":"91","lon":"1"}]`, weather.CauseMalformed},
		{"server error", http.StatusServiceUnavailable, ``, weather.CauseUpstream},
		{"blocked", http.StatusForbidden, `Access blocked`, weather.CauseUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			r := NewNominatimResolver(DefaultHTTPConfig(srv.Client(), 0), srv.URL)
			_, err := r.Resolve(context.Background(), "Nowhere")

			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrNotFound)
			assert.Equal(t, tc.cause, weather.CauseOf(err))
		})
	}
}

func TestOpenMeteoGeocoderResolve(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("language")
		if r.URL.Query().Get("name") == "Atlantis" {
			fmt.Fprint(w, `{"generationtime_ms":0.5}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"name":"Mito","admin1":"Ibaraki","country":"Japan","latitude":36.365,"longitude":140.471}]}`)
	}))
	defer srv.Close()

	g := NewOpenMeteoGeocoder(DefaultHTTPConfig(srv.Client(), 0), srv.URL, weather.LangEnglish)

	place, err := g.Resolve(context.Background(), "Mito")
	require.NoError(t, err)
	assert.Equal(t, "en", gotLang)
	assert.Equal(t, "Mito, Ibaraki, Japan", place.Name)
	assert.Equal(t, weather.Coordinate{Lat: 36.365, Lon: 140.471}, place.Coordinate)

	_, err = g.Resolve(context.Background(), "Atlantis")
	require.ErrorIs(t, err, weather.ErrNotFound)
	assert.Equal(t, weather.CauseNoMatch, weather.CauseOf(err))
}
