package config

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/models"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
	"github.com/nimbuslabs/waitlist-service/pkg/constants"
	"github.com/nimbuslabs/waitlist-service/pkg/utils"
)

// ApplicationConfig aggregates every shared dependency the domain layer
// mounts against.
type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Catalog         *i18n.Catalog
	Notifier        notify.Notifier
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow(),
		RequestTimeout:    30 * time.Second,
	}

	if raw := utils.GetEnvTrimmed("RATE_LIMIT_REQUESTS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	if raw := utils.GetEnvTrimmed("RATE_LIMIT_WINDOW"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			config.RateLimitWindow = parsed
		}
	}

	if raw := utils.GetEnvTrimmed("REQUEST_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			config.RequestTimeout = parsed
		}
	}

	return config
}

// LoadApplicationConfiguration wires database, cache, locale catalogs,
// notifier, tracing and the router into one ApplicationConfig.
func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, nil)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	catalog, err := i18n.Load(utils.GetEnvTrimmedOrDefault("DEFAULT_LOCALE", constants.DefaultLocale))
	if err != nil {
		return nil, err
	}
	logger.Info("Locale catalogs loaded", "locales", catalog.Locales())

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Catalog:         catalog,
		Notifier:        notify.FromEnv(logger),
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}
