package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
	"digital-liver/internal/testutil"
)

func newService(repo ports.RunRepository, opts SimulationOptions) *SimulationService {
	return NewSimulationService(nil, nil, repo, opts)
}

func TestSplitSMILES(t *testing.T) {
	lines := SplitSMILES("CCO\r\n\n  c1ccccc1  \n\t\nClC\n")
	assert.Equal(t, []string{"CCO", "c1ccccc1", "ClC"}, lines)
	assert.Empty(t, SplitSMILES(" \n "))
}

func TestSimulationService_Simulate(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Run")).Return(nil)
	svc := newService(repo, SimulationOptions{Workers: 2})

	smiles := []string{domain.DefaultSMILES, "", "Clc1ccccc1", "C1CO1"}
	results, err := svc.Simulate(context.Background(), domain.DefaultParams(), smiles, "req-1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].Compound.Index)
	assert.Equal(t, domain.DefaultSMILES, results[0].Compound.SMILES)
	assert.Equal(t, 1.0, results[0].Compound.Amplifier)
	assert.Equal(t, 2, results[1].Compound.Index)
	assert.Equal(t, 2.5, results[1].Compound.Amplifier)
	assert.Equal(t, "C1CO1", results[2].Compound.SMILES)

	for _, r := range results {
		assert.NotEqual(t, uuid.Nil, r.RunID)
		assert.Len(t, r.Trajectory.T, domain.DefaultPoints)
	}
	repo.AssertNumberOfCalls(t, "Save", 3)

	saved := repo.Calls[1].Arguments.Get(1).(*domain.Run)
	assert.Equal(t, "Clc1ccccc1", saved.SMILES)
	assert.Equal(t, []string{"chlorine"}, saved.Alerts)
	assert.Equal(t, "req-1", saved.RequestID)
	assert.Equal(t, results[1].Score, saved.Score)

	first := repo.Calls[0].Arguments.Get(1).(*domain.Run)
	assert.Equal(t, first.BatchID, saved.BatchID)
}

func TestSimulationService_Simulate_RunLogFailureIsNotFatal(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc := newService(repo, SimulationOptions{})

	results, err := svc.Simulate(context.Background(), domain.DefaultParams(), []string{"CCO"}, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uuid.Nil, results[0].RunID)
}

func TestSimulationService_Simulate_WithoutRunLog(t *testing.T) {
	svc := newService(nil, SimulationOptions{})

	results, err := svc.Simulate(context.Background(), domain.DefaultParams(), []string{"CCO"}, "")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, results[0].RunID)
}

func TestSimulationService_Simulate_Validation(t *testing.T) {
	svc := newService(nil, SimulationOptions{MaxCompounds: 2})
	ctx := context.Background()

	_, err := svc.Simulate(ctx, domain.DefaultParams(), []string{" ", ""}, "")
	assert.ErrorIs(t, err, domain.ErrNoCompounds)

	_, err = svc.Simulate(ctx, domain.DefaultParams(), []string{"C", "CC", "CCC"}, "")
	assert.ErrorIs(t, err, domain.ErrTooManyCompounds)

	bad := domain.DefaultParams()
	bad.Dose = 3.5
	_, err = svc.Simulate(ctx, bad, []string{"C"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidDose)

	bad = domain.DefaultParams()
	bad.DurationHours = 100
	_, err = svc.Simulate(ctx, bad, []string{"C"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestSimulationService_Simulate_InvalidLineKeepsBatch(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Run")).Return(nil)
	svc := newService(repo, SimulationOptions{Workers: 2})

	results, err := svc.Simulate(context.Background(), domain.DefaultParams(), []string{"CCO", "C((", "CCCl"}, "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	bad := results[1]
	assert.True(t, bad.Failed())
	assert.Contains(t, bad.Error, domain.ErrInvalidSMILES.Error())
	assert.Equal(t, 2, bad.Compound.Index)
	assert.Equal(t, "C((", bad.Compound.SMILES)
	assert.Nil(t, bad.Trajectory)
	assert.Equal(t, uuid.Nil, bad.RunID)

	for _, r := range []*domain.SimulationResult{results[0], results[2]} {
		assert.False(t, r.Failed())
		assert.Empty(t, r.Error)
		assert.NotEqual(t, uuid.Nil, r.RunID)
		assert.True(t, r.Risk.IsValid())
		assert.Len(t, r.Trajectory.T, domain.DefaultPoints)
	}
	assert.Equal(t, 3, results[2].Compound.Index)
	assert.Equal(t, 2.5, results[2].Compound.Amplifier)

	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestSimulationService_Simulate_AllLinesInvalid(t *testing.T) {
	svc := newService(nil, SimulationOptions{})

	results, err := svc.Simulate(context.Background(), domain.DefaultParams(), []string{"C((", "C1CC"}, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Failed())
	}
}

func TestSimulationService_Simulate_DefaultsPoints(t *testing.T) {
	svc := newService(nil, SimulationOptions{})
	params := domain.SimulationParams{Dose: 1, DurationHours: 24}

	results, err := svc.Simulate(context.Background(), params, []string{"CCO"}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPoints, results[0].Params.Points)
	assert.Len(t, results[0].Trajectory.T, domain.DefaultPoints)
}

func TestSimulationService_SimulateEach(t *testing.T) {
	svc := newService(nil, SimulationOptions{})

	var seen []int
	err := svc.SimulateEach(context.Background(), domain.DefaultParams(), []string{"CCO", "CCCl"}, "", func(r *domain.SimulationResult) error {
		seen = append(seen, r.Compound.Index)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)

	stop := errors.New("client gone")
	calls := 0
	err = svc.SimulateEach(context.Background(), domain.DefaultParams(), []string{"CCO", "CCCl"}, "", func(r *domain.SimulationResult) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestSimulationService_SimulateEach_InvalidLine(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Run")).Return(nil)
	svc := newService(repo, SimulationOptions{})

	var got []*domain.SimulationResult
	err := svc.SimulateEach(context.Background(), domain.DefaultParams(), []string{"CCO", "C((", "CCCl"}, "", func(r *domain.SimulationResult) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.False(t, got[0].Failed())
	assert.True(t, got[1].Failed())
	assert.Equal(t, "C((", got[1].Compound.SMILES)
	assert.False(t, got[2].Failed())
	assert.Equal(t, 3, got[2].Compound.Index)
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestSimulationService_Evaluate(t *testing.T) {
	svc := newService(nil, SimulationOptions{})

	res, err := svc.Evaluate(context.Background(), 4, "Clc1ccccc1", domain.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Compound.Index)
	assert.Equal(t, 2.5, res.Compound.Amplifier)

	res, err = svc.Evaluate(context.Background(), 0, "CCO", domain.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Compound.Index)
}

func TestSimulationService_Analyze(t *testing.T) {
	svc := newService(nil, SimulationOptions{})

	c, err := svc.Analyze(context.Background(), "O=N(=O)c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"nitro"}, c.AlertIDs())
	assert.Equal(t, "C6H5NO2", c.Descriptors.Formula)
}

func TestSimulationService_ReplayRun(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := newService(repo, SimulationOptions{})

	id := uuid.New()
	run := &domain.Run{ID: id, Index: 2, SMILES: "Clc1ccccc1", Params: domain.DefaultParams()}
	repo.On("GetByID", mock.Anything, id).Return(run, nil)

	res, err := svc.ReplayRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, res.RunID)
	assert.Equal(t, 2, res.Compound.Index)

	direct, err := svc.Evaluate(context.Background(), 2, "Clc1ccccc1", domain.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, direct.Score, res.Score)
}

func TestSimulationService_ReplayRun_NotFound(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := newService(repo, SimulationOptions{})

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRunNotFound)

	_, err := svc.ReplayRun(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	_, err = newService(nil, SimulationOptions{}).GetRun(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestSimulationService_ListRuns_DefaultLimit(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := newService(repo, SimulationOptions{})

	expected := ports.RunListFilter{Limit: 20}
	repo.On("List", mock.Anything, expected).Return([]*domain.Run{}, 0, nil)

	_, _, err := svc.ListRuns(context.Background(), ports.RunListFilter{})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSimulationService_ListRuns_CapsLimit(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	svc := newService(repo, SimulationOptions{})

	expected := ports.RunListFilter{Limit: 100, Risk: "LOW"}
	repo.On("List", mock.Anything, expected).Return([]*domain.Run{{ID: uuid.New()}}, 1, nil)

	runs, total, err := svc.ListRuns(context.Background(), ports.RunListFilter{Limit: 500, Risk: "LOW"})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, runs, 1)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 20, ClampLimit(-3))
	assert.Equal(t, 50, ClampLimit(50))
	assert.Equal(t, 100, ClampLimit(101))
}
