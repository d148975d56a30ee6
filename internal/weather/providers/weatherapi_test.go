package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func weatherAPIBody(date string) string {
	hours := make([]string, 0, 24)
	for h := 0; h < 24; h++ {
		code := 1000
		if h >= 12 {
			code = 1183
		}
		hours = append(hours, fmt.Sprintf(
			`{"time":"%s %02d:00","temp_c":%d.5,"precip_mm":0.1,"condition":{"code":%d}}`,
			date, h, h, code))
	}
	return fmt.Sprintf(`{"location":{"tz_id":"Asia/Tokyo"},"forecast":{"forecastday":[{"date":%q,"hour":[%s]}]}}`,
		date, strings.Join(hours, ","))
}

func newTestWeatherAPI(t *testing.T, handler http.HandlerFunc, apiKey string) *WeatherAPIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWeatherAPIProvider(DefaultHTTPConfig(srv.Client(), 0), apiKey, WeatherAPIOptions{
		HistoryURL:  srv.URL + "/history.json",
		ForecastURL: srv.URL + "/forecast.json",
		Policy: weather.EndpointPolicy{
			ArchiveLag: weather.DefaultArchiveLag,
			Location:   jst,
			Now:        func() time.Time { return fixedNow },
		},
	})
}

func TestWeatherAPIEndpointsAndMapping(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	var queries []url.Values
	p := newTestWeatherAPI(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		queries = append(queries, r.URL.Query())
		mu.Unlock()
		fmt.Fprint(w, weatherAPIBody(r.URL.Query().Get("dt")))
	}, "secret")

	old := weather.Date{Year: 2024, Month: 6, Day: 1}
	day, err := p.FetchDay(context.Background(), tokyo, old)
	require.NoError(t, err)

	assert.Equal(t, weather.SourceArchive, day.Source)
	assert.Equal(t, "weatherapi", day.Provider)
	assert.Equal(t, "Asia/Tokyo", day.Timezone)
	require.Len(t, day.Records, 24)
	assert.Equal(t, "00:00", day.Records[0].Time)
	assert.Equal(t, 0, day.Records[0].ConditionCode)
	assert.Equal(t, "☀️ 晴天", day.Records[0].ConditionLabel)
	assert.Equal(t, 61, day.Records[12].ConditionCode)
	assert.Equal(t, 12.5, day.Records[12].TemperatureC)

	_, err = p.FetchDay(context.Background(), tokyo, weather.Date{Year: 2024, Month: 6, Day: 11})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/history.json", "/forecast.json"}, paths)
	assert.Equal(t, "secret", queries[0].Get("key"))
	assert.Equal(t, "2024-06-01", queries[0].Get("dt"))
	assert.Empty(t, queries[0].Get("days"))
	assert.Equal(t, "1", queries[1].Get("days"))
	assert.True(t, strings.HasPrefix(queries[1].Get("q"), "35.68"))
}

func TestWeatherAPIMissingKey(t *testing.T) {
	called := false
	p := newTestWeatherAPI(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	_, err := p.FetchDay(context.Background(), tokyo, weather.Date{Year: 2024, Month: 6, Day: 1})

	require.ErrorIs(t, err, weather.ErrUnavailable)
	assert.False(t, called)
}

func TestWeatherAPIFailureCauses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		cause  weather.Cause
	}{
		{"no forecast", http.StatusOK, `{"location":{"tz_id":"Asia/Tokyo"}}`, weather.CauseMalformed},
		{"other day only", http.StatusOK, weatherAPIBody("2024-05-31"), weather.CauseNoData},
		{"bad key", http.StatusUnauthorized, `{"error":{"code":2006,"message":"API key is invalid."}}`, weather.CauseUpstream},
		{"quota", http.StatusTooManyRequests, ``, weather.CauseRateLimited},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestWeatherAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}, "secret")

			_, err := p.FetchDay(context.Background(), tokyo, weather.Date{Year: 2024, Month: 6, Day: 1})

			require.ErrorIs(t, err, weather.ErrUnavailable)
			assert.Equal(t, tc.cause, weather.CauseOf(err))
		})
	}
}

func TestWMOFromWeatherAPI(t *testing.T) {
	assert.Equal(t, 0, wmoFromWeatherAPI(1000))
	assert.Equal(t, 95, wmoFromWeatherAPI(1276))
	assert.Equal(t, -1, wmoFromWeatherAPI(4242))
	assert.Equal(t, "❓ 不明", weather.Classify(wmoFromWeatherAPI(4242)).Label())
}
