package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/testutil"
)

func TestRetentionService_Sweep(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := NewRetentionService(repo, 24*time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("DeleteBefore", mock.Anything, now.Add(-24*time.Hour)).Return(int64(7), nil)

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	repo.AssertExpectations(t)
}

func TestRetentionService_Sweep_Error(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := NewRetentionService(repo, time.Hour)
	repo.On("DeleteBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("boom"))

	_, err := svc.Sweep(context.Background())
	assert.ErrorContains(t, err, "sweep run log")
}

func TestRetentionService_Sweep_Disabled(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := NewRetentionService(repo, 0)

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	repo.AssertNotCalled(t, "DeleteBefore", mock.Anything, mock.Anything)
}

func TestRetentionService_Start_InvalidSchedule(t *testing.T) {
	svc := NewRetentionService(new(testutil.MockRunRepo), time.Hour)
	assert.Error(t, svc.Start("not a schedule"))
}

func TestRetentionService_StartStop(t *testing.T) {
	svc := NewRetentionService(new(testutil.MockRunRepo), time.Hour)
	require.NoError(t, svc.Start("@daily"))
	svc.Stop()
}
