package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Parameters
// ============================================================================

const (
	MinDose         = 0.1
	MaxDose         = 3.0
	DefaultDose     = 1.0
	MinDuration     = 12
	MaxDuration     = 96
	DefaultDuration = 48
	DefaultPoints   = 300
	MaxPoints       = 5000
	DefaultSMILES   = "CC(=O)NC1=CC=C(C=C1)O"
	doseTolerance   = 1e-9
)

// SimulationParams are the user-controlled inputs shared by every compound in a batch.
type SimulationParams struct {
	Dose          float64 `json:"dose"`
	DurationHours int     `json:"duration_hours"`
	Idiosyncratic bool    `json:"idiosyncratic"`
	Points        int     `json:"points"`
}

// DefaultParams mirrors the initial state of the input form.
func DefaultParams() SimulationParams {
	return SimulationParams{
		Dose:          DefaultDose,
		DurationHours: DefaultDuration,
		Idiosyncratic: true,
		Points:        DefaultPoints,
	}
}

// Validate checks the parameter ranges. A zero Points value is replaced by the default.
func (p *SimulationParams) Validate() error {
	if p.Dose < MinDose-doseTolerance || p.Dose > MaxDose+doseTolerance {
		return ErrInvalidDose
	}
	if p.DurationHours < MinDuration || p.DurationHours > MaxDuration {
		return ErrInvalidDuration
	}
	if p.Points == 0 {
		p.Points = DefaultPoints
	}
	if p.Points < 2 || p.Points > MaxPoints {
		return ErrInvalidPoints
	}
	return nil
}

// IdiosyncraticFactor is the amplitude of the fluctuating-sensitivity term.
func (p SimulationParams) IdiosyncraticFactor() float64 {
	if p.Idiosyncratic {
		return 1.0
	}
	return 0.0
}

// ============================================================================
// State
// ============================================================================

// Species indexes the state vector of the liver model.
type Species int

const (
	Drug Species = iota
	ToxicMetabolite
	GSH
	ROS
	ALT
	AST
	MitoStress
	Cholestasis
	Apoptosis
	Necrosis
	Fibrosis

	SpeciesCount = 11
)

var speciesLabels = [SpeciesCount]string{
	"Drug", "Toxic Metabolite", "GSH", "ROS", "ALT", "AST", "Mito Stress",
	"Cholestasis", "Apoptosis", "Necrosis", "Fibrosis",
}

func (s Species) String() string {
	if s < 0 || int(s) >= SpeciesCount {
		return "Unknown"
	}
	return speciesLabels[s]
}

// SpeciesLabels returns the display labels in state-vector order.
func SpeciesLabels() []string {
	out := make([]string, SpeciesCount)
	copy(out, speciesLabels[:])
	return out
}

// State is one sample of the model.
type State [SpeciesCount]float64

// InitialState places the whole dose in the drug compartment with full glutathione reserve.
func InitialState(dose float64) State {
	var s State
	s[Drug] = dose
	s[GSH] = 1.0
	return s
}

// Trajectory holds the sampled solution on an evenly spaced time grid.
type Trajectory struct {
	T []float64 `json:"t"`
	Y []State   `json:"y"`
}

// Final returns the last sampled state.
func (tr *Trajectory) Final() State {
	if tr == nil || len(tr.Y) == 0 {
		return State{}
	}
	return tr.Y[len(tr.Y)-1]
}

// Series extracts one species across all samples.
func (tr *Trajectory) Series(s Species) []float64 {
	out := make([]float64, len(tr.Y))
	for i, y := range tr.Y {
		out[i] = y[s]
	}
	return out
}

// ============================================================================
// Outcome
// ============================================================================

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

func (r RiskLevel) IsValid() bool {
	return r == RiskLow || r == RiskModerate || r == RiskHigh
}

// SimulationResult is everything shown for one compound. A line that could not
// be analyzed carries only its Compound index and SMILES plus Error.
type SimulationResult struct {
	Compound   *Compound        `json:"compound"`
	Params     SimulationParams `json:"params"`
	Trajectory *Trajectory      `json:"trajectory,omitempty"`
	Final      State            `json:"final"`
	Score      float64          `json:"score"`
	Risk       RiskLevel        `json:"risk,omitempty"`
	RunID      uuid.UUID        `json:"run_id"`
	Error      string           `json:"error,omitempty"`
}

// FailedResult records a line that was rejected before simulation.
func FailedResult(index int, smiles string, params SimulationParams, err error) *SimulationResult {
	return &SimulationResult{
		Compound: &Compound{Index: index, SMILES: smiles},
		Params:   params,
		Error:    err.Error(),
	}
}

func (r *SimulationResult) Failed() bool {
	return r.Error != ""
}

// Run is a log entry for one evaluated compound. It carries only the inputs and
// the outcome; the trajectory is recomputed on demand.
type Run struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	BatchID   uuid.UUID        `json:"batch_id"`
	Index     int              `json:"index"`
	SMILES    string           `json:"smiles"`
	Params    SimulationParams `json:"params"`
	Amplifier float64          `json:"amplifier"`
	Alerts    []string         `json:"alerts"`
	Score     float64          `json:"score"`
	Risk      RiskLevel        `json:"risk"`
	RequestID string           `json:"request_id,omitempty"`
}
