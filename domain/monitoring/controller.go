package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"gorm.io/gorm"
)

const (
	monitoringRequestsPerMinute = 10
	probeTimeout                = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// QueueInspector reports on the background notifier pool.
type QueueInspector interface {
	Accepting() bool
	Pending() int
}

type HealthStatus struct {
	Database       int `json:"database"`        // 1 = healthy, 0 = unhealthy
	Cache          int `json:"cache"`           // 1 = healthy, 0 = unhealthy/not configured
	Notifier       int `json:"notifier"`        // 1 = accepting work
	NotifierQueued int `json:"notifier_queued"` // tasks waiting for a worker
	Uptime         int `json:"uptime"`          // uptime in seconds
}

// Healthy reports whether the dependencies the waitlist cannot work without are up.
func (s HealthStatus) Healthy() bool {
	return s.Database == 1
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	queue     QueueInspector
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache, queue QueueInspector) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		queue:     queue,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			monitoringRateLimiter := ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
				Requests: monitoringRequestsPerMinute,
				Window:   time.Minute,
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", ctrl.liveness)
			routerService.AddHeadHandler(controller, monitoringRateLimiter, "", ctrl.liveness)
			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", ctrl.healthCheck)
		},
	)
}

func (ctrl *MonitoringController) liveness(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("Waitlist API is operational.", "Monitoring successful")
}

func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	status := ctrl.performHealthChecks(ctx, logger)
	if !status.Healthy() {
		return router.NewResult(http.StatusServiceUnavailable, status, "Waitlist API is degraded").WithHeader("Retry-After", "5")
	}

	return router.OKResult(status, "Waitlist API health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		logger.Error("Database health check failed")
	}

	switch {
	case ctrl.cache == nil:
		logger.Debug("Cache not configured, cache health check skipped")
	case ctrl.cache.Ping(ctx) == nil:
		status.Cache = 1
	default:
		logger.Warn("Cache health check failed")
	}

	if ctrl.queue != nil {
		if ctrl.queue.Accepting() {
			status.Notifier = 1
		} else {
			logger.Warn("Notifier pool is not accepting work")
		}
		status.NotifierQueued = ctrl.queue.Pending()
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
