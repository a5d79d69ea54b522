package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sliceops-ai/sliceops-backend/api/routes"
	"github.com/sliceops-ai/sliceops-backend/internal/blocks"
	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	"github.com/sliceops-ai/sliceops-backend/internal/workflows"
	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	"github.com/sliceops-ai/sliceops-backend/pkg/db"
	"github.com/sliceops-ai/sliceops-backend/pkg/eventbrite"
	"github.com/sliceops-ai/sliceops-backend/pkg/gmaps"
	"github.com/sliceops-ai/sliceops-backend/pkg/holidays"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
	"github.com/sliceops-ai/sliceops-backend/pkg/metrics"
	"github.com/sliceops-ai/sliceops-backend/pkg/migrate"
	"github.com/sliceops-ai/sliceops-backend/pkg/openai"
	"github.com/sliceops-ai/sliceops-backend/pkg/predicthq"
	"github.com/sliceops-ai/sliceops-backend/pkg/redis"
	"github.com/sliceops-ai/sliceops-backend/pkg/seatgeek"
	"github.com/sliceops-ai/sliceops-backend/pkg/ticketmaster"
	"github.com/sliceops-ai/sliceops-backend/pkg/weather"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()

	insightService, err := buildInsightService(cfg, logg, redisClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to build insight engine", err)
		os.Exit(1)
	}

	locationService, err := locations.NewService(locations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}
	blockService, err := blocks.NewService(blocks.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create block service", err)
		os.Exit(1)
	}
	workflowService, err := workflows.NewService(workflows.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			locationService,
			blockService,
			workflowService,
			insightService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildInsightService wires the external-signal clients into the insight
// engine. Providers without configured credentials stay nil; the fetcher
// treats them as permanently unavailable signals.
func buildInsightService(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, registry *prometheus.Registry) (*intelligence.Service, error) {
	params := intelligence.FetcherParams{
		Intel:          cfg.Intel,
		HolidayCountry: cfg.Holidays.CountryCode,
		RadiusMiles:    cfg.Events.RadiusMiles,
		LookaheadDays:  cfg.Events.LookaheadDays,
		Cache:          intelligence.NewCache(),
		Limiter: intelligence.NewRateLimiter(intelligence.RateLimitDelays{
			General:   cfg.Intel.GeneralMinDelay,
			Ticketing: cfg.Intel.TicketingMinDelay,
			Mapping:   cfg.Intel.MappingMinDelay,
		}),
		Holidays: holidays.NewClient(),
		Metrics:  metrics.NewProviderMetrics(registry),
		Logger:   logg,
	}

	if cfg.Weather.APIKey != "" {
		client, err := weather.NewClient(cfg.Weather.APIKey)
		if err != nil {
			return nil, err
		}
		params.Weather = client
	}
	if cfg.Traffic.APIKey != "" {
		client, err := gmaps.NewClient(cfg.Traffic.APIKey)
		if err != nil {
			return nil, err
		}
		params.Routes = client
	}
	if cfg.Events.TicketmasterAPIKey != "" {
		client, err := ticketmaster.NewClient(cfg.Events.TicketmasterAPIKey)
		if err != nil {
			return nil, err
		}
		params.EventSources = append(params.EventSources, intelligence.TicketmasterSource(client))
	}
	if cfg.Events.SeatGeekClientID != "" {
		client, err := seatgeek.NewClient(cfg.Events.SeatGeekClientID)
		if err != nil {
			return nil, err
		}
		params.EventSources = append(params.EventSources, intelligence.SeatGeekSource(client))
	}
	if cfg.Events.PredictHQToken != "" {
		client, err := predicthq.NewClient(cfg.Events.PredictHQToken)
		if err != nil {
			return nil, err
		}
		params.EventSources = append(params.EventSources, intelligence.PredictHQSource(client))
	}
	if cfg.Events.EventbriteToken != "" {
		client, err := eventbrite.NewClient(cfg.Events.EventbriteToken)
		if err != nil {
			return nil, err
		}
		params.EventSources = append(params.EventSources, intelligence.EventbriteSource(client))
	}

	fetcher, err := intelligence.NewFetcher(params)
	if err != nil {
		return nil, err
	}
	collector, err := intelligence.NewCollector(fetcher, logg)
	if err != nil {
		return nil, err
	}
	classifier := intelligence.NewClassifier(redisClient, cfg.Intel.ClassificationTTL, logg)

	var completion intelligence.CompletionProvider
	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(cfg.OpenAI.APIKey, openai.WithModel(cfg.OpenAI.Model), openai.WithTimeout(cfg.OpenAI.Timeout))
		if err != nil {
			return nil, err
		}
		completion = client
	}

	return intelligence.NewService(collector, classifier, completion, logg)
}
