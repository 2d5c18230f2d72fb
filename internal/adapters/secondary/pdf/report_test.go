package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/core/chem"
	"digital-liver/internal/core/domain"
	"digital-liver/internal/core/simulation"
)

func simulate(t *testing.T, smiles string, index int) *domain.SimulationResult {
	t.Helper()
	c, err := chem.DefaultCatalog().Analyze(index, smiles)
	require.NoError(t, err)
	res, err := simulation.NewSimulator(nil, simulation.DefaultSubsteps).Run(context.Background(), c, domain.DefaultParams())
	require.NoError(t, err)
	return res
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()
	res := simulate(t, "Clc1ccc([N+](=O)[O-])cc1", 2)

	data, err := r.Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 1000)
}

func TestRenderer_RenderWithoutTrajectory(t *testing.T) {
	r := NewRenderer()
	res := simulate(t, domain.DefaultSMILES, 1)
	res.Trajectory = nil

	data, err := r.Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderer_RenderNil(t *testing.T) {
	_, err := NewRenderer().Render(nil)
	assert.Error(t, err)
}

func TestRenderer_FileName(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "dili_report_3.pdf", r.FileName(&domain.SimulationResult{Compound: &domain.Compound{Index: 3}}))
	assert.Equal(t, "dili_report_1.pdf", r.FileName(&domain.SimulationResult{}))
}

func TestTrimFloat(t *testing.T) {
	assert.Equal(t, "48", trimFloat(48))
	assert.Equal(t, "0.5", trimFloat(0.5))
	assert.Equal(t, "0", trimFloat(0))
}
