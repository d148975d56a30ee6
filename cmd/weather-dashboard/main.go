package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.DefaultHTTPConfig(httpClient, cfg.MaxRetries)
	policy := weather.NewEndpointPolicy(cfg.ArchiveLag, cfg.Location())

	provider := newProvider(cfg, httpCfg, policy)
	resolver := newResolver(cfg, httpCfg)

	service := weather.NewService(provider, resolver,
		weather.WithLocation(cfg.Location()),
		weather.WithLogger(zlog.Named("weather")))

	zlog.Info("weather dashboard configured",
		zap.String("provider", provider.Name()),
		zap.String("geocoder", resolver.Name()),
		zap.String("timezone", cfg.Timezone),
		zap.Duration("archiveLag", cfg.ArchiveLag))

	// Periodic upstream probe for /health.
	sched := scheduler.New(cfg.ProbeCoordinates, cfg.ProbeInterval, cfg.Location(), service, zlog.Named("probe"))
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Three sequential upstream calls may each take up to HTTPTimeout.
		WriteTimeout: 3*cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-dashboard",
			"provider": provider.Name(),
			"geocoder": resolver.Name(),
			"probes":   sched.Results(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, httpapi.Options{
		DefaultLanguage: cfg.Language(),
		DefaultPlace:    cfg.DefaultPlace,
	})

	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}

func newProvider(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig, policy weather.EndpointPolicy) weather.Provider {
	if cfg.WeatherProvider == "weatherapi" {
		return providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey, providers.WeatherAPIOptions{
			Policy: policy,
		})
	}
	return providers.NewOpenMeteoProvider(httpCfg, providers.OpenMeteoOptions{
		ForecastURL: cfg.OpenMeteoForecastURL,
		ArchiveURL:  cfg.OpenMeteoArchiveURL,
		Policy:      policy,
	})
}

func newResolver(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) weather.Resolver {
	switch cfg.Geocoder {
	case "google":
		return providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	case "openmeteo":
		return providers.NewOpenMeteoGeocoder(httpCfg, "", cfg.Language())
	}
	httpCfg.UserAgent = cfg.GeocoderUserAgent
	return providers.NewNominatimResolver(httpCfg, cfg.NominatimURL)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}
