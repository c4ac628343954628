package waitlist

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger := log.NewDiscardLogger()
	db, err := config.NewDatabase(logger, &config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "waitlist.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { config.CloseDatabase(db, logger) })

	require.NoError(t, config.AutoMigrate(logger, db, models.ModelRegistry...))
	return db
}

func upsertCmd(email, name string) UpsertCommand {
	return UpsertCommand{
		Email:          NormalizeEmail(email),
		Name:           name,
		Role:           models.RoleUser,
		Source:         models.SourceHomepage,
		IsEarlyAdopter: true,
		IPAddress:      "127.0.0.1",
	}
}

func TestRepository_UpsertCreatesThenUpdates(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	first, created, err := repo.Upsert(ctx, upsertCmd("ann@x.com", "Ann"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.IsEarlyAdopter)
	assert.True(t, first.IsInvited)
	assert.Equal(t, "127.0.0.1", first.IPAddress)

	cmd := upsertCmd("ANN@X.COM ", "Ann B")
	cmd.Role = models.RoleCoach
	cmd.Source = models.SourceFriendReferral
	cmd.IsEarlyAdopter = false
	cmd.IPAddress = "10.9.9.9"

	second, created, err := repo.Upsert(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann B", second.Name)
	assert.Equal(t, models.RoleCoach, second.Role)
	assert.Equal(t, models.SourceFriendReferral, second.Source)
	assert.True(t, second.IsEarlyAdopter, "flag is fixed at creation")
	assert.Equal(t, "127.0.0.1", second.IPAddress, "ip is fixed at creation")
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "created_at never changes")

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_FindByEmail(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@x.com")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetErrorType(err))
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, _, err = repo.Upsert(ctx, upsertCmd("Bob@Example.com", "Bob"))
	require.NoError(t, err)

	entry, err := repo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob", entry.Name)
}

func TestRepository_PositionsAreMonotonic(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	var entries []*models.WaitlistEntry
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		entry, _, err := repo.Upsert(ctx, upsertCmd(email, "N"))
		require.NoError(t, err)
		entries = append(entries, entry)
		time.Sleep(2 * time.Millisecond)
	}

	for i, entry := range entries {
		ahead, err := repo.CountBefore(ctx, entry.CreatedAt)
		require.NoError(t, err)
		assert.Equal(t, int64(i), ahead, entry.Email)
	}

	// Updating the first entry keeps its place in line.
	_, _, err := repo.Upsert(ctx, upsertCmd("a@x.com", "Renamed"))
	require.NoError(t, err)
	reloaded, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	ahead, err := repo.CountBefore(ctx, reloaded.CreatedAt)
	require.NoError(t, err)
	assert.Zero(t, ahead)
}

func TestRepository_Counts(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	coach := upsertCmd("coach@x.com", "C")
	coach.Role = models.RoleCoach
	late := upsertCmd("late@x.com", "L")
	late.IsEarlyAdopter = false

	for _, cmd := range []UpsertCommand{upsertCmd("u@x.com", "U"), coach, late} {
		_, _, err := repo.Upsert(ctx, cmd)
		require.NoError(t, err)
	}

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	coaches, err := repo.CountByRole(ctx, models.RoleCoach)
	require.NoError(t, err)
	early, err := repo.CountEarlyAdopters(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(1), coaches)
	assert.Equal(t, int64(2), early)
}

func TestRepository_ConcurrentSameEmailCreatesOnce(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
		ids     = map[uint]struct{}{}
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, created, err := repo.Upsert(ctx, upsertCmd("race@x.com", "Racer"))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if created {
				creates++
			}
			ids[entry.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, creates)
	assert.Len(t, ids, 1)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_ClosedDatabaseIsRetryable(t *testing.T) {
	db := newTestDB(t)
	repo := NewWaitlistRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.CountAll(context.Background())
	assert.True(t, apperrors.IsRetryable(err))
}
