package dto

import (
	"time"

	"github.com/google/uuid"

	"digital-liver/internal/core/domain"
)

// ============================================================================
// Requests
// ============================================================================

// ParamsRequest carries optional simulation parameters. Missing fields take
// the form defaults.
type ParamsRequest struct {
	Dose          *float64 `json:"dose" form:"dose"`
	DurationHours *int     `json:"duration_hours" form:"duration"`
	Idiosyncratic *bool    `json:"idiosyncratic" form:"idiosyncratic"`
	Points        int      `json:"points" form:"points"`
}

type SimulationRequest struct {
	ParamsRequest
	SMILES            []string `json:"smiles" binding:"required,min=1"`
	IncludeTrajectory bool     `json:"include_trajectory"`
}

type DescriptorRequest struct {
	SMILES string `json:"smiles" binding:"required"`
}

type ReportRequest struct {
	ParamsRequest
	SMILES string `json:"smiles" form:"smiles" binding:"required"`
	Index  int    `json:"index" form:"index"`
}

// ToParams overlays the request on defaults.
func (r ParamsRequest) ToParams(defaults domain.SimulationParams) domain.SimulationParams {
	p := defaults
	if r.Dose != nil {
		p.Dose = *r.Dose
	}
	if r.DurationHours != nil {
		p.DurationHours = *r.DurationHours
	}
	if r.Idiosyncratic != nil {
		p.Idiosyncratic = *r.Idiosyncratic
	}
	if r.Points != 0 {
		p.Points = r.Points
	}
	return p
}

// ============================================================================
// Responses
// ============================================================================

type CompoundResponse struct {
	Index       int                `json:"index"`
	SMILES      string             `json:"smiles"`
	Descriptors domain.Descriptors `json:"descriptors"`
	Alerts      []domain.Alert     `json:"alerts"`
	Amplifier   float64            `json:"amplifier"`
}

type TrajectoryResponse struct {
	T      []float64            `json:"t"`
	Series map[string][]float64 `json:"series"`
}

type ResultResponse struct {
	CompoundResponse
	RunID      *uuid.UUID              `json:"run_id,omitempty"`
	Params     domain.SimulationParams `json:"params"`
	Score      float64                 `json:"score"`
	Risk       string                  `json:"risk,omitempty"`
	Final      map[string]float64      `json:"final,omitempty"`
	Trajectory *TrajectoryResponse     `json:"trajectory,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

type SimulationResponse struct {
	Results []ResultResponse `json:"results"`
	Count   int              `json:"count"`
}

type RunResponse struct {
	ID        uuid.UUID               `json:"id"`
	CreatedAt string                  `json:"created_at"`
	BatchID   uuid.UUID               `json:"batch_id"`
	Index     int                     `json:"index"`
	SMILES    string                  `json:"smiles"`
	Params    domain.SimulationParams `json:"params"`
	Amplifier float64                 `json:"amplifier"`
	Alerts    []string                `json:"alerts"`
	Score     float64                 `json:"score"`
	Risk      string                  `json:"risk"`
	RequestID string                  `json:"request_id,omitempty"`
}

type ListRunsResponse struct {
	Items      []RunResponse `json:"items"`
	Total      int           `json:"total"`
	PageSize   int           `json:"page_size"`
	NextOffset int           `json:"next_offset"`
}

func ToCompoundResponse(c *domain.Compound) CompoundResponse {
	alerts := c.Alerts
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return CompoundResponse{
		Index:       c.Index,
		SMILES:      c.SMILES,
		Descriptors: c.Descriptors,
		Alerts:      alerts,
		Amplifier:   c.Amplifier,
	}
}

func ToResultResponse(r *domain.SimulationResult, includeTrajectory bool) ResultResponse {
	resp := ResultResponse{
		CompoundResponse: ToCompoundResponse(r.Compound),
		Params:           r.Params,
		Score:            r.Score,
		Risk:             string(r.Risk),
		Error:            r.Error,
	}
	if r.Failed() {
		return resp
	}
	resp.Final = stateMap(r.Final)
	if r.RunID != uuid.Nil {
		id := r.RunID
		resp.RunID = &id
	}
	if includeTrajectory && r.Trajectory != nil {
		resp.Trajectory = ToTrajectoryResponse(r.Trajectory)
	}
	return resp
}

func ToTrajectoryResponse(tr *domain.Trajectory) *TrajectoryResponse {
	series := make(map[string][]float64, domain.SpeciesCount)
	for s := domain.Species(0); s < domain.SpeciesCount; s++ {
		series[s.String()] = tr.Series(s)
	}
	return &TrajectoryResponse{T: tr.T, Series: series}
}

func ToRunResponse(r *domain.Run) RunResponse {
	alerts := r.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return RunResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		BatchID:   r.BatchID,
		Index:     r.Index,
		SMILES:    r.SMILES,
		Params:    r.Params,
		Amplifier: r.Amplifier,
		Alerts:    alerts,
		Score:     r.Score,
		Risk:      string(r.Risk),
		RequestID: r.RequestID,
	}
}

func stateMap(s domain.State) map[string]float64 {
	out := make(map[string]float64, domain.SpeciesCount)
	for i, v := range s {
		out[domain.Species(i).String()] = v
	}
	return out
}
