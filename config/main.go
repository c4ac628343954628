package config

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/akeren/waitlist-api/pkg/utils"
	"github.com/akeren/waitlist-api/pkg/worker"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Mailer          mailer.Mailer
	Workers         *worker.Pool
	Config          *AppConfig
	Waitlist        *WaitlistConfig
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

	config.RateLimitRequests = utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", config.RateLimitRequests)
	config.RateLimitWindow = utils.GetEnvPositiveDuration("RATE_LIMIT_WINDOW", config.RateLimitWindow)
	config.RequestTimeout = utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", config.RequestTimeout)

	return config
}

// Cleanup drains background work before closing the stores it depends on.
func (ac *ApplicationConfig) Cleanup() {
	if ac.Workers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := ac.Workers.Shutdown(ctx); err != nil {
			ac.Logger.Error("Background tasks did not finish before shutdown", "error", err)
		}
		cancel()
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

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

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

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

	db, err := NewDatabase(logger, NewDBConfigFromEnv())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	waitlistConfig := NewWaitlistConfig()

	mail, err := NewMailConfig().NewMailer(logger)
	if err != nil {
		CloseDatabase(db, logger)
		return nil, err
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	workers := worker.NewPool(worker.Config{
		Name:        "notifier",
		Workers:     waitlistConfig.NotifierWorkers,
		QueueSize:   waitlistConfig.NotifierQueueSize,
		TaskTimeout: 2 * waitlistConfig.NotifierSendTimeout,
	}, logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Mailer:          mail,
		Workers:         workers,
		Config:          appConfig,
		Waitlist:        waitlistConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
