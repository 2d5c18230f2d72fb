// Package simulation evaluates the liver injury model for one compound and
// turns the final state into a DILI score.
package simulation

import (
	"math"

	"digital-liver/internal/core/domain"
)

// Model is the right-hand side of the liver ODE system for one compound.
type Model struct {
	k    *Kinetics
	amp  float64
	idio float64
}

func NewModel(k *Kinetics, amplifier, idiosyncratic float64) *Model {
	return &Model{k: k, amp: amplifier, idio: idiosyncratic}
}

// Sensitivity is the fluctuating idiosyncratic multiplier applied to
// cholestasis and necrosis.
func (m *Model) Sensitivity(t float64) float64 {
	return 1 + math.Sin(t/m.k.Idiosyncrasy.PeriodHours)*m.idio
}

func (m *Model) Derivatives(t float64, y domain.State) domain.State {
	k := m.k
	var d domain.State

	conjugated := k.Metabolism.GSH * math.Min(y[domain.ToxicMetabolite], y[domain.GSH])
	sens := m.Sensitivity(t)

	d[domain.Drug] = -k.Metabolism.CYP * y[domain.Drug]
	d[domain.ToxicMetabolite] = k.Metabolism.CYP*y[domain.Drug]*k.Metabolism.Bioactivation - conjugated
	d[domain.GSH] = -conjugated
	d[domain.ROS] = k.Stress.ROS*m.amp*y[domain.ToxicMetabolite] - k.Stress.ROSClearance*y[domain.ROS]
	d[domain.ALT] = k.Stress.EnzymeRelease * y[domain.ROS]
	d[domain.AST] = k.Stress.EnzymeRelease * y[domain.ROS]
	d[domain.MitoStress] = k.Stress.Mito * m.amp * (y[domain.ROS] + y[domain.ToxicMetabolite])
	d[domain.Cholestasis] = k.Injury.Cholestasis * m.amp * y[domain.ToxicMetabolite] * sens
	d[domain.Apoptosis] = k.Injury.Apoptosis*m.amp*y[domain.ROS] + k.Injury.MitoApoptosis*y[domain.MitoStress]
	d[domain.Necrosis] = k.Injury.Necrosis * m.amp * y[domain.ROS] * sens
	d[domain.Fibrosis] = k.Injury.Fibrosis * m.amp * (y[domain.Apoptosis] + y[domain.Necrosis])

	return d
}
