package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCache struct{ err error }

func (c stubCache) Ping(context.Context) error { return c.err }

type stubQueue struct {
	accepting bool
	pending   int
}

func (q stubQueue) Accepting() bool { return q.accepting }
func (q stubQueue) Pending() int    { return q.pending }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger := log.NewDiscardLogger()
	db, err := config.NewDatabase(logger, &config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "health.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { config.CloseDatabase(db, logger) })
	return db
}

func serve(t *testing.T, factory MonitoringControllerFactory, method, target string) (*httptest.ResponseRecorder, HealthStatus) {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "false")

	rs := router.CreateRouterService(log.NewDiscardLogger(), nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	t.Cleanup(rs.Cleanup)
	rs.MountController(factory.CreateController())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(method, target, nil))

	var body struct {
		Data HealthStatus `json:"data"`
	}
	if method != http.MethodHead && target == "/health" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body.Data
}

func TestHealth_AllUp(t *testing.T) {
	factory := NewMonitoringControllerFactory(newTestDB(t), log.NewDiscardLogger(), stubCache{}, stubQueue{accepting: true, pending: 3})

	w, status := serve(t, factory, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 1, status.Cache)
	assert.Equal(t, 1, status.Notifier)
	assert.Equal(t, 3, status.NotifierQueued)
}

func TestHealth_OptionalDependenciesDown(t *testing.T) {
	factory := NewMonitoringControllerFactory(newTestDB(t), log.NewDiscardLogger(), stubCache{err: errors.New("redis down")}, stubQueue{})

	w, status := serve(t, factory, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, status.Database)
	assert.Zero(t, status.Cache)
	assert.Zero(t, status.Notifier)
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	factory := NewMonitoringControllerFactory(db, log.NewDiscardLogger(), nil, nil)
	w, status := serve(t, factory, http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
	assert.Zero(t, status.Database)
}

func TestLiveness(t *testing.T) {
	factory := NewMonitoringControllerFactory(nil, log.NewDiscardLogger(), nil, nil)

	w, _ := serve(t, factory, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operational")

	w, _ = serve(t, factory, http.MethodHead, "/")
	assert.Equal(t, http.StatusOK, w.Code)
}
