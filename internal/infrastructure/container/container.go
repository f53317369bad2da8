// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/application/chat"
	"github.com/zoenutrition/zoe/internal/application/offline"
	"github.com/zoenutrition/zoe/internal/application/pricing"
	"github.com/zoenutrition/zoe/internal/application/recommendation"
	"github.com/zoenutrition/zoe/internal/application/scoring"
	"github.com/zoenutrition/zoe/internal/application/search"
	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/apiserver"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/handlers"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/opsserver"
	"github.com/zoenutrition/zoe/internal/infrastructure/messaging"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/internal/infrastructure/network"
	gormrepo "github.com/zoenutrition/zoe/internal/infrastructure/persistence/gorm"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/memory"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/zoenutrition/zoe/internal/infrastructure/persistence/redis"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/sqlite"
	"github.com/zoenutrition/zoe/internal/infrastructure/pricesource"
	"github.com/zoenutrition/zoe/internal/infrastructure/security"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/healthcheck"
	"github.com/zoenutrition/zoe/pkg/logger"
)

// ConfigPath is the config file handed to the container; empty searches
// the default locations
type ConfigPath string

// Core provides everything the use cases need. Batch commands start it
// without the servers.
var Core = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	EventModule,
	MetricsModule,
	ServiceModule,
)

// Module provides the full API process
var Module = fx.Options(
	Core,
	ObservabilityModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging. The atomic level is adjusted when the
// config file changes.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM handle for the configured driver
var DatabaseModule = fx.Provide(
	NewDatabase,
	func(db *gorm.DB) (*sql.DB, error) {
		return db.DB()
	},
)

// NewDatabase opens sqlite or postgres, seeds the catalog when asked and
// closes the pool on stop
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case "postgres":
		cm, cmErr := postgres.NewConnectionManager(cfg, log)
		if cmErr != nil {
			return nil, cmErr
		}
		db = cm.DB()
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path,
			gormrepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
	}

	if cfg.Database.Seed {
		if err := sqlite.SeedDatabase(db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}
	return db, nil
}

// CacheModule provides the offline snapshot cache. The redis client is
// nil unless cache.provider is redis.
var CacheModule = fx.Provide(NewCache)

// NewCache selects the cache backend
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, *redis.Client, error) {
	if cfg.Cache.Provider == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
		defer cancel()

		client, err := redisrepo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		log.Info("Using Redis cache", zap.String("addr", cfg.RedisAddr()))
		return redisrepo.NewCacheRepository(client, log), client, nil
	}

	cache := memory.NewCacheRepository()
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		cache.Close()
		return nil
	}})
	log.Info("Using in-memory cache")
	return cache, nil, nil
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(gormrepo.NewFoodRepository, fx.As(new(outbound.FoodCatalog))),
	fx.Annotate(gormrepo.NewProfileRepository, fx.As(new(outbound.ProfileRepository))),
	fx.Annotate(gormrepo.NewConsumptionRepository, fx.As(new(outbound.ConsumptionRepository))),
	fx.Annotate(gormrepo.NewRecommendationRepository, fx.As(new(outbound.RecommendationStore))),
	fx.Annotate(gormrepo.NewPriceHistoryRepository, fx.As(new(outbound.PriceHistoryRepository))),
	fx.Annotate(gormrepo.NewChatRepository, fx.As(new(outbound.ChatHistoryRepository))),
)

// MetricsModule provides the Prometheus collectors
var MetricsModule = fx.Options(
	fx.Provide(monitoring.NewMetrics),
	fx.Invoke(func(cfg *config.Config, metrics *monitoring.Metrics, sqlDB *sql.DB) {
		if cfg.Monitoring.EnableMetrics {
			metrics.RegisterDB(sqlDB, "primary")
		}
	}),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config) (*scoring.Engine, error) {
		strategy, err := scoring.NewStrategy(cfg.Scoring.Strategy)
		if err != nil {
			return nil, err
		}
		return scoring.NewEngine(strategy), nil
	},
	fx.Annotate(recommendation.NewService, fx.As(new(inbound.RecommendationService))),
	fx.Annotate(search.NewService, fx.As(new(inbound.SearchService))),

	chat.NewIntentClassifier,
	func(cfg *config.Config) *chat.UserLimiter {
		if !cfg.RateLimit.Enable {
			return nil
		}
		return chat.NewUserLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize)
	},
	fx.Annotate(chat.NewService, fx.As(new(inbound.ChatService))),

	NewPriceSource,
	func(b *pricesource.Breaker) outbound.PriceSource { return b },
	func(
		cfg *config.Config,
		catalog outbound.FoodCatalog,
		history outbound.PriceHistoryRepository,
		source outbound.PriceSource,
		log *zap.Logger,
	) inbound.PriceService {
		return pricing.NewService(catalog, history, source, pricing.Options{
			UpdateInterval: cfg.Pricing.UpdateInterval,
			FetchTimeout:   cfg.Pricing.FetchTimeout,
		}, log)
	},

	func(cfg *config.Config, log *zap.Logger) outbound.ConnectivityProber {
		return network.NewDialProber(cfg.Offline.ProbeAddress, cfg.Offline.ProbeTimeout, log)
	},
	func(
		cfg *config.Config,
		profiles outbound.ProfileRepository,
		catalog outbound.FoodCatalog,
		recommendations inbound.RecommendationService,
		cache outbound.CacheRepository,
		prober outbound.ConnectivityProber,
		log *zap.Logger,
	) inbound.OfflineService {
		return offline.NewService(profiles, catalog, recommendations, cache, prober, cfg.Offline.SnapshotTTL, log)
	},
)

// NewPriceSource wraps the simulated market feed in a circuit breaker
// whose transitions are exported as metrics
func NewPriceSource(cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) *pricesource.Breaker {
	source := pricesource.NewSimulated(cfg.Pricing.Location, cfg.Pricing.BasePrice, cfg.Pricing.Variation, time.Now().UnixNano())
	return pricesource.NewBreaker(source, pricesource.BreakerSettings{
		MaxFailures: cfg.Pricing.BreakerMaxFailures,
		Timeout:     cfg.Pricing.BreakerTimeout,
		OnChange:    metrics.BreakerStateChanged,
	}, log)
}

// EventModule provides the message bus and its subscribers
var EventModule = fx.Options(
	fx.Provide(
		fx.Annotate(messaging.NewBus, fx.As(new(outbound.MessageBus))),
	),
	fx.Invoke(RegisterEventHandlers),
)

// RegisterEventHandlers subscribes the audit log to recommendation events
func RegisterEventHandlers(bus outbound.MessageBus, log *zap.Logger) {
	audit := log.Named("audit")
	for _, topic := range []string{"recommendation.created", "recommendation.accepted", "recommendation.rejected"} {
		bus.Subscribe(topic, func(ctx context.Context, msg outbound.Message) error {
			audit.Info("Recommendation event",
				zap.String("type", msg.Type),
				zap.String("message_id", msg.ID),
				zap.ByteString("payload", msg.Payload),
			)
			return nil
		})
	}
}

// ObservabilityModule provides tracing and health checks
var ObservabilityModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    "zoe-api",
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	NewHealthCheck,
)

// NewHealthCheck registers the database, cache and price source checks
func NewHealthCheck(cfg *config.Config, log *zap.Logger, sqlDB *sql.DB, redisClient *redis.Client, breaker *pricesource.Breaker) *healthcheck.HealthCheck {
	health := healthcheck.New(cfg.App.Version, log.Named("health"))
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	if redisClient != nil {
		health.Register("redis", healthcheck.NewRedisChecker(redisClient))
	}
	// an open breaker only blocks price refreshes, the API keeps serving
	health.Register("price_source", healthcheck.NewCustomChecker("price_source",
		func(ctx context.Context) (healthcheck.Status, string, interface{}) {
			state := breaker.State()
			if state == "closed" {
				return healthcheck.StatusHealthy, "", map[string]string{"breaker": state}
			}
			return healthcheck.StatusDegraded, "Price source circuit is " + state, map[string]string{"breaker": state}
		}))
	return health
}

type handlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *monitoring.Metrics
	Recommendations inbound.RecommendationService
	Search          inbound.SearchService
	Chat            inbound.ChatService
	Prices          inbound.PriceService
	Offline         inbound.OfflineService
}

// HTTPModule provides the API and ops servers
var HTTPModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *security.AuthService {
		return security.NewAuthService(cfg.Auth, log)
	},
	func(p handlerParams) *handlers.APIHandlers {
		return handlers.NewAPIHandlers(handlers.Services{
			Recommendations: p.Recommendations,
			Search:          p.Search,
			Chat:            p.Chat,
			Prices:          p.Prices,
			Offline:         p.Offline,
		}, p.Metrics, p.Config.Server.AllowedOrigins, p.Logger)
	},
	apiserver.NewAPIServer,
	opsserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	ConfigPath ConfigPath
	Logger     *zap.Logger
	Level      zap.AtomicLevel
	API        *apiserver.APIServer
	Ops        *opsserver.Server
}

// RegisterLifecycleHooks starts both servers, follows log level changes
// in the config file and shuts the servers down on stop
func RegisterLifecycleHooks(p lifecycleParams) {
	log := p.Logger

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting ZOE",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
				zap.String("scoring_strategy", p.Config.Scoring.Strategy),
			)

			err := config.Watch(string(p.ConfigPath),
				func(cfg *config.Config) {
					p.Level.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
					log.Info("Configuration reloaded", zap.String("log_level", cfg.App.LogLevel))
				},
				func(err error) {
					log.Warn("Ignoring invalid configuration change", zap.Error(err))
				},
			)
			if err != nil {
				log.Warn("Config watch disabled", zap.Error(err))
			}

			serve := func(name string, start func() error) {
				go func() {
					if err := start(); err != nil {
						log.Error("Server stopped", zap.String("server", name), zap.Error(err))
						_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
			}
			serve("api", p.API.Start)
			serve("ops", p.Ops.Start)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down ZOE")

			if err := p.API.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if err := p.Ops.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown ops server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
