package domain

import (
	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/monitoring"
	"github.com/akeren/waitlist-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	var queue monitoring.QueueInspector
	if appConfig.Workers != nil {
		queue = appConfig.Workers
	}
	appConfig.RouterService.MountController(
		monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache, queue).CreateController(),
	)

	appConfig.RouterService.MountController(
		waitlist.NewWaitlistServiceFactory(WaitlistOptions(appConfig)).CreateController(),
	)
}

// WaitlistOptions maps the loaded configuration onto the waitlist domain.
func WaitlistOptions(appConfig *config.ApplicationConfig) waitlist.Options {
	opts := waitlist.Options{
		DB:     appConfig.DB,
		Logger: appConfig.Logger,
		Mailer: appConfig.Mailer,
	}
	if appConfig.Cache != nil {
		opts.Cache = appConfig.Cache
	}
	if appConfig.Workers != nil {
		opts.Workers = appConfig.Workers
	}

	if wc := appConfig.Waitlist; wc != nil {
		opts.ProductName = wc.ProductName
		opts.EarlyAdopterLimit = wc.EarlyAdopterLimit
		opts.ReceiptSecret = wc.ReceiptSecret
		opts.ReceiptTTL = wc.ReceiptTTL
		opts.EmailSendTimeout = wc.NotifierSendTimeout
		opts.StatsSchedule = wc.StatsSchedule
		opts.SignupRateLimitRequests = wc.SignupRateLimitRequests
		opts.SignupRateLimitWindow = wc.SignupRateLimitWindow
	}

	return opts
}
