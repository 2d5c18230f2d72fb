package simulation

import (
	"context"

	"digital-liver/internal/core/domain"
)

const DefaultSubsteps = 8

// Simulator runs the model for analyzed compounds.
type Simulator struct {
	kinetics *Kinetics
	substeps int
}

func NewSimulator(k *Kinetics, substeps int) *Simulator {
	if k == nil {
		k = DefaultKinetics()
	}
	if substeps < 1 {
		substeps = DefaultSubsteps
	}
	return &Simulator{kinetics: k, substeps: substeps}
}

func (s *Simulator) Kinetics() *Kinetics {
	return s.kinetics
}

// Run integrates the model for one compound. Params must already be validated.
func (s *Simulator) Run(ctx context.Context, compound *domain.Compound, params domain.SimulationParams) (*domain.SimulationResult, error) {
	model := NewModel(s.kinetics, compound.Amplifier, params.IdiosyncraticFactor())
	grid := Linspace(0, float64(params.DurationHours), params.Points)

	states, err := Integrate(ctx, model.Derivatives, domain.InitialState(params.Dose), grid, s.substeps)
	if err != nil {
		return nil, err
	}

	traj := &domain.Trajectory{T: grid, Y: states}
	final := traj.Final()
	score := Score(final)

	return &domain.SimulationResult{
		Compound:   compound,
		Params:     params,
		Trajectory: traj,
		Final:      final,
		Score:      score,
		Risk:       Classify(score),
	}, nil
}
