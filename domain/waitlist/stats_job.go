package waitlist

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/robfig/cron/v3"
)

type statsSource interface {
	GetStats(ctx context.Context) (*StatsResponse, error)
}

// StatsRefresher keeps the waitlist gauges current between signups.
type StatsRefresher struct {
	logger  *log.Logger
	source  statsSource
	metrics *Metrics
	cron    *cron.Cron
	timeout time.Duration
}

// NewStatsRefresher schedules a refresh on schedule (cron syntax or
// "@every <duration>"). It does not start the scheduler.
func NewStatsRefresher(logger *log.Logger, source statsSource, metrics *Metrics, schedule string) (*StatsRefresher, error) {
	r := &StatsRefresher{
		logger:  logger,
		source:  source,
		metrics: metrics,
		cron:    cron.New(),
		timeout: 10 * time.Second,
	}

	if _, err := r.cron.AddFunc(schedule, r.Refresh); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *StatsRefresher) Start() {
	r.Refresh()
	r.cron.Start()
	r.logger.Info("Waitlist stats refresher started")
}

// Stop waits for a running refresh to finish.
func (r *StatsRefresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("Waitlist stats refresher stopped")
}

func (r *StatsRefresher) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	stats, err := r.source.GetStats(ctx)
	if err != nil {
		r.logger.Warn("Waitlist stats refresh failed", "error", err)
		return
	}
	r.metrics.observeStats(stats)
}
