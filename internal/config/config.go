package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Weather provider selection.
	WeatherProvider string `envconfig:"WEATHER_PROVIDER" default:"openmeteo" validate:"oneof=openmeteo weatherapi"`
	WeatherAPIKey   string `envconfig:"WEATHERAPI_API_KEY" validate:"required_if=WeatherProvider weatherapi"`

	OpenMeteoForecastURL string `envconfig:"OPENMETEO_FORECAST_URL" validate:"omitempty,url"`
	OpenMeteoArchiveURL  string `envconfig:"OPENMETEO_ARCHIVE_URL" validate:"omitempty,url"`

	// Timezone hours are reported in, and in which day boundaries are computed.
	Timezone string `envconfig:"WEATHER_TIMEZONE" default:"Asia/Tokyo" validate:"required"`

	// ArchiveLag: days older than this are served from the archive endpoint.
	ArchiveLag time.Duration `envconfig:"ARCHIVE_LAG" default:"48h" validate:"gt=0"`

	// MaxRetries for upstream calls; 0 means a single attempt.
	MaxRetries int `envconfig:"UPSTREAM_MAX_RETRIES" default:"0" validate:"gte=0,lte=5"`

	// Geocoding.
	Geocoder             string `envconfig:"GEOCODER" default:"nominatim" validate:"oneof=nominatim openmeteo google"`
	GeocoderUserAgent    string `envconfig:"GEOCODER_USER_AGENT" default:"weather-dashboard/1.0" validate:"required"`
	GoogleGeocoderAPIKey string `envconfig:"GOOGLE_GEOCODER_API_KEY" validate:"required_if=Geocoder google"`
	NominatimURL         string `envconfig:"NOMINATIM_URL" validate:"omitempty,url"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"ja" validate:"oneof=ja en"`
	DefaultPlace    string `envconfig:"DEFAULT_PLACE" default:"Ibaraki"`

	// Upstream probe.
	ProbeInterval    time.Duration  `envconfig:"PROBE_INTERVAL" default:"15m" validate:"gt=0"`
	ProbeCoordinates CoordinateList `envconfig:"PROBE_COORDINATES"`

	location *time.Location
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv is Load without the .env file.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEZONE: %w", err)
	}
	cfg.location = loc

	for _, c := range cfg.ProbeCoordinates {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid PROBE_COORDINATES: %w", err)
		}
	}

	return cfg, nil
}

// Location is the parsed Timezone.
func (c *AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Language is DefaultLanguage as a weather.Language.
func (c *AppConfig) Language() weather.Language {
	return weather.Language(c.DefaultLanguage)
}

// CoordinateList decodes "lat,lon;lat,lon" from a single environment variable.
type CoordinateList []weather.Coordinate

func (l *CoordinateList) Decode(value string) error {
	var out CoordinateList
	for _, pair := range strings.Split(value, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		latStr, lonStr, ok := strings.Cut(pair, ",")
		if !ok {
			return fmt.Errorf("coordinate %q: want lat,lon", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", pair, err)
		}
		out = append(out, weather.Coordinate{Lat: lat, Lon: lon})
	}
	*l = out
	return nil
}
