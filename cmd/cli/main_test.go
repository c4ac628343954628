package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRootCommand_Tree(t *testing.T) {
	root := newRootCommand(log.NewDiscardLogger())

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"}, {"stats"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	steps, err := down.Flags().GetInt("steps")
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "no migrations applied", formatStatus(migrations.Status{Empty: true}))
	assert.Equal(t, "version 3", formatStatus(migrations.Status{Version: 3}))
	assert.Equal(t, "version 2 (dirty)", formatStatus(migrations.Status{Version: 2, Dirty: true}))
}

func TestPrintStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := waitlist.NewMockWaitlistRepository(ctrl)
	repo.EXPECT().CountAll(gomock.Any()).Return(int64(5), nil)
	repo.EXPECT().CountByRole(gomock.Any(), models.RoleCoach).Return(int64(2), nil)
	repo.EXPECT().CountEarlyAdopters(gomock.Any()).Return(int64(5), nil)

	service := waitlist.NewWaitlistService(log.NewDiscardLogger(), repo, nil, waitlist.ServiceConfig{EarlyAdopterLimit: 100})

	cmd := newStatsCommand(log.NewDiscardLogger())
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, printStats(context.Background(), cmd, service))
	assert.JSONEq(t, `{"total":5,"coaches":2,"early_adopters":5,"remaining_spots":95}`, out.String())
}
