package di

import (
	"fmt"

	"FundCorr/internal/domain/repository"
	"FundCorr/internal/handler/api"
	mid "FundCorr/internal/middleware"
	"FundCorr/internal/service/names"
	"FundCorr/internal/service/okanebox"
	"FundCorr/internal/service/ratelimit"
	"FundCorr/internal/usecase"
	"FundCorr/pkg/cache"
	"FundCorr/pkg/config"
	"FundCorr/pkg/logger"
	"FundCorr/pkg/metrics"
	"FundCorr/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCache creates the cache backend configured in YAML.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		), nil
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	case "layered":
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache,
			cache.WithLayeredMemorySize(cfg.Cache.MaxSize),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideQuotaSource creates the quota history client.
func ProvideQuotaSource(cfg *config.Config) repository.QuotaSource {
	return okanebox.New(
		okanebox.WithAPIBaseURL(cfg.Okanebox.APIBaseURL),
		okanebox.WithUserAgent(cfg.Okanebox.UserAgent),
		okanebox.WithDateRange(cfg.Okanebox.StartDate, cfg.Okanebox.EndDate),
		okanebox.WithTimeout(cfg.Okanebox.Timeout),
	)
}

// ProvideNameResolver creates the display-name resolver.
func ProvideNameResolver(cfg *config.Config, c cache.Service, l *logger.Logger) repository.NameResolver {
	return names.New(c, l,
		names.WithFundBaseURL(cfg.Okanebox.FundBaseURL),
		names.WithUserAgent(cfg.Okanebox.UserAgent),
		names.WithTTL(cfg.Cache.NameTTL),
	)
}

// ProvidePacer creates the outbound request pacer.
func ProvidePacer(cfg *config.Config) repository.Pacer {
	return ratelimit.NewPacer(cfg.Collector.PaceInterval)
}

// ProvideProgressHub creates the run progress broadcaster.
func ProvideProgressHub() *mid.ProgressHub {
	return mid.NewProgressHub()
}

// ProvideFundCollector creates the collection orchestrator.
func ProvideFundCollector(
	cfg *config.Config,
	source repository.QuotaSource,
	resolver repository.NameResolver,
	pacer repository.Pacer,
	m repository.Metrics,
	hub *mid.ProgressHub,
	l *logger.Logger,
) *usecase.FundCollector {
	return usecase.NewFundCollector(source, resolver, pacer,
		usecase.WithMaxFunds(cfg.Collector.MaxFunds),
		usecase.WithWorkers(cfg.Collector.Workers),
		usecase.WithMetrics(m),
		usecase.WithProgress(hub),
		usecase.WithLogger(l),
	)
}

// ProvideCorrelationUseCase creates the correlation use case.
func ProvideCorrelationUseCase(collector *usecase.FundCollector) *usecase.CorrelationUseCase {
	return usecase.NewCorrelationUseCase(collector)
}

// ProvideHandler creates the API handler.
func ProvideHandler(
	cfg *config.Config,
	correlation *usecase.CorrelationUseCase,
	hub *mid.ProgressHub,
	l *logger.Logger,
) *api.Handler {
	return api.NewHandler(correlation, hub, l,
		api.WithMaxFunds(cfg.Collector.MaxFunds),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.Handler,
	c cache.Service,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, handler, c, l)
}
