package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sliceops-ai/sliceops-backend/internal/blocks"
	"github.com/sliceops-ai/sliceops-backend/internal/cron"
	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	"github.com/sliceops-ai/sliceops-backend/pkg/db"
	"github.com/sliceops-ai/sliceops-backend/pkg/eventbrite"
	"github.com/sliceops-ai/sliceops-backend/pkg/gmaps"
	"github.com/sliceops-ai/sliceops-backend/pkg/holidays"
	"github.com/sliceops-ai/sliceops-backend/pkg/instance"
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

const lockKeyFormat = "so:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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
	jobMetrics := metrics.NewCronJobMetrics(registry)

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	locationRepo := locations.NewRepository(dbClient.DB())
	blockService, err := blocks.NewService(blocks.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create block service", err)
		os.Exit(1)
	}
	insightService, err := buildInsightService(cfg, logg, redisClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to build insight engine", err)
		os.Exit(1)
	}

	warmupJob, err := cron.NewInsightWarmupJob(cron.InsightWarmupJobParams{
		Logger:    logg,
		Locations: locationRepo,
		Insights:  insightService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create insight warmup job", err)
		os.Exit(1)
	}
	expiryJob, err := cron.NewBlockExpiryJob(cron.BlockExpiryJobParams{
		Logger: logg,
		Blocks: blockService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create block expiry job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expiryJob, warmupJob),
		Lock:     lock,
		Metrics:  jobMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

// buildInsightService mirrors the API wiring so warmed cache entries match
// what interactive requests would fetch.
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
