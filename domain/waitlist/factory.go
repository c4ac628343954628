package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/constants"
	"github.com/akeren/waitlist-api/pkg/factory"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/akeren/waitlist-api/pkg/worker"
	"gorm.io/gorm"
)

// Options wires the waitlist domain. Zero values fall back to the defaults
// in pkg/constants; a nil Mailer logs emails instead of sending them and a
// nil Workers gets a pool owned by the controller.
type Options struct {
	DB      *gorm.DB
	Logger  *log.Logger
	Cache   factory.Cache
	Mailer  mailer.Mailer
	Workers Submitter

	ProductName       string
	EarlyAdopterLimit int
	ReceiptSecret     string
	ReceiptTTL        time.Duration
	EmailSendTimeout  time.Duration
	// StatsSchedule drives the gauge refresher; empty disables it.
	StatsSchedule string

	SignupRateLimitRequests int
	SignupRateLimitWindow   time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.NewLoggerWithJSONOutput()
	}
	if o.ProductName == "" {
		o.ProductName = constants.DefaultProductName
	}
	if o.EarlyAdopterLimit <= 0 {
		o.EarlyAdopterLimit = constants.DefaultEarlyAdopterLimit
	}
	if o.ReceiptTTL <= 0 {
		o.ReceiptTTL = constants.DefaultReceiptTTL
	}
	if o.EmailSendTimeout <= 0 {
		o.EmailSendTimeout = constants.DefaultNotifierSendTimeout
	}
	if o.Mailer == nil {
		o.Mailer = mailer.NewLogMailer(o.Logger)
	}
	return o
}

func (o Options) signupLimit() (int, time.Duration) {
	requests, window := o.SignupRateLimitRequests, o.SignupRateLimitWindow
	if requests <= 0 {
		requests = constants.SignupRateLimitRequests
	}
	if window <= 0 {
		window = constants.SignupRateLimitWindow
	}
	return requests, window
}

type WaitlistServiceFactory interface {
	// CreateService builds a service without HTTP wiring. Confirmation
	// emails are only scheduled when Options.Workers is set.
	CreateService() (WaitlistService, error)
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	opts Options
}

func NewWaitlistServiceFactory(opts Options) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{opts: opts.withDefaults()}
}

func (f *DefaultWaitlistServiceFactory) CreateService() (WaitlistService, error) {
	var notifier Notifier = unscheduledNotifier{logger: f.opts.Logger}
	if f.opts.Workers != nil {
		renderer, err := NewEmailRenderer(f.opts.ProductName)
		if err != nil {
			return nil, err
		}
		notifier = NewConfirmationNotifier(f.opts.Logger, f.opts.Workers, f.opts.Mailer, renderer, NotifierConfig{
			SendTimeout: f.opts.EmailSendTimeout,
		})
	}

	receipts, err := newReceiptIssuer(f.opts)
	if err != nil {
		return nil, err
	}

	return NewWaitlistService(f.opts.Logger, NewWaitlistRepository(f.opts.DB), notifier, ServiceConfig{
		EarlyAdopterLimit: f.opts.EarlyAdopterLimit,
		Receipts:          receipts,
	}), nil
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.opts)
}

// mustPrepare builds the service graph for a mounted controller. Anything
// that needs stopping is registered on the router's cleanup hooks.
func mustPrepare(rs *router.RouterService, opts Options) WaitlistService {
	logger := opts.Logger

	metrics := NewMetrics(rs.MetricsRegistry())

	workers := opts.Workers
	if workers == nil {
		pool := worker.NewPool(worker.Config{
			Name:        "notifier",
			Workers:     constants.DefaultNotifierWorkers,
			QueueSize:   constants.DefaultNotifierQueueSize,
			TaskTimeout: 2 * opts.EmailSendTimeout,
		}, logger)
		rs.OnCleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = pool.Shutdown(ctx)
		})
		workers = pool
	}

	renderer, err := NewEmailRenderer(opts.ProductName)
	if err != nil {
		panic(fmt.Sprintf("waitlist: %v", err))
	}

	receipts, err := newReceiptIssuer(opts)
	if err != nil {
		panic(fmt.Sprintf("waitlist: %v", err))
	}

	notifier := NewConfirmationNotifier(logger, workers, opts.Mailer, renderer, NotifierConfig{
		SendTimeout: opts.EmailSendTimeout,
		Metrics:     metrics,
	})

	service := NewWaitlistService(logger, NewWaitlistRepository(opts.DB), notifier, ServiceConfig{
		EarlyAdopterLimit: opts.EarlyAdopterLimit,
		Receipts:          receipts,
		Metrics:           metrics,
	})

	if opts.StatsSchedule != "" {
		refresher, err := NewStatsRefresher(logger, service, metrics, opts.StatsSchedule)
		if err != nil {
			logger.Error("Invalid WAITLIST_STATS_SCHEDULE; stats refresher disabled", "schedule", opts.StatsSchedule, "error", err)
		} else {
			refresher.Start()
			rs.OnCleanup(refresher.Stop)
		}
	}

	return service
}

func newReceiptIssuer(opts Options) (*ReceiptIssuer, error) {
	if opts.ReceiptSecret == "" {
		opts.Logger.Warn("WAITLIST_RECEIPT_SECRET not set; using a per-process secret")
	}
	return NewReceiptIssuer(opts.ReceiptSecret, opts.ReceiptTTL)
}

type unscheduledNotifier struct {
	logger *log.Logger
}

func (n unscheduledNotifier) Dispatch(ctx context.Context, c Confirmation) {
	log.GetLoggerInstanceFromContext(ctx, n.logger).Warn("Confirmation email not scheduled: no worker pool", "email", c.Email)
}
