package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

func newRun(smiles string, risk domain.RiskLevel, created time.Time) *domain.Run {
	return &domain.Run{
		ID:        uuid.New(),
		CreatedAt: created,
		SMILES:    smiles,
		Risk:      risk,
		Params:    domain.DefaultParams(),
		Alerts:    []string{},
	}
}

func TestRunRepo_SaveAndGet(t *testing.T) {
	repo := NewRunRepository(10)
	ctx := context.Background()

	run := newRun("CCO", domain.RiskLow, time.Now())
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "CCO", got.SMILES)

	got.SMILES = "mutated"
	again, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "CCO", again.SMILES)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRunRepo_EvictsOldest(t *testing.T) {
	repo := NewRunRepository(2)
	ctx := context.Background()

	a := newRun("C", domain.RiskLow, time.Now())
	b := newRun("CC", domain.RiskLow, time.Now())
	c := newRun("CCC", domain.RiskLow, time.Now())
	for _, r := range []*domain.Run{a, b, c} {
		require.NoError(t, repo.Save(ctx, r))
	}

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	runs, total, err := repo.List(ctx, ports.RunListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, c.ID, runs[0].ID)
	assert.Equal(t, b.ID, runs[1].ID)
}

func TestRunRepo_ListFilters(t *testing.T) {
	repo := NewRunRepository(0)
	ctx := context.Background()
	batch := uuid.New()

	low := newRun("CCO", domain.RiskLow, time.Now())
	low.BatchID = batch
	high := newRun("Clc1ccccc1", domain.RiskHigh, time.Now())
	high.BatchID = batch
	other := newRun("CCCl", domain.RiskLow, time.Now())
	for _, r := range []*domain.Run{low, high, other} {
		require.NoError(t, repo.Save(ctx, r))
	}

	runs, total, err := repo.List(ctx, ports.RunListFilter{Risk: "high"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, high.ID, runs[0].ID)

	runs, total, err = repo.List(ctx, ports.RunListFilter{BatchID: &batch})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, runs, 2)

	_, total, err = repo.List(ctx, ports.RunListFilter{SMILES: "Cl"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	runs, total, err = repo.List(ctx, ports.RunListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, runs, 1)
	assert.Equal(t, high.ID, runs[0].ID)

	runs, _, err = repo.List(ctx, ports.RunListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunRepo_DeleteBefore(t *testing.T) {
	repo := NewRunRepository(0)
	ctx := context.Background()
	now := time.Now()

	old := newRun("C", domain.RiskLow, now.Add(-48*time.Hour))
	recent := newRun("CC", domain.RiskLow, now)
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, recent))

	n, err := repo.DeleteBefore(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	_, err = repo.GetByID(ctx, recent.ID)
	assert.NoError(t, err)
	assert.NoError(t, repo.Ping(ctx))
}
