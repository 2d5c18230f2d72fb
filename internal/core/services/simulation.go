package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"digital-liver/internal/core/chem"
	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
	"digital-liver/internal/core/simulation"
)

const (
	DefaultMaxCompounds = 20
	DefaultWorkers      = 4

	defaultPageSize = 20
	maxPageSize     = 100
)

type SimulationOptions struct {
	MaxCompounds int
	Workers      int
}

// SimulationService turns SMILES input into scored liver simulations.
type SimulationService struct {
	catalog      *chem.Catalog
	simulator    *simulation.Simulator
	runs         ports.RunRepository
	maxCompounds int
	workers      int
}

// NewSimulationService creates the service. runs may be nil, in which case
// nothing is logged and run lookups report ErrRunNotFound.
func NewSimulationService(catalog *chem.Catalog, simulator *simulation.Simulator, runs ports.RunRepository, opts SimulationOptions) *SimulationService {
	if catalog == nil {
		catalog = chem.DefaultCatalog()
	}
	if simulator == nil {
		simulator = simulation.NewSimulator(nil, simulation.DefaultSubsteps)
	}
	if opts.MaxCompounds <= 0 {
		opts.MaxCompounds = DefaultMaxCompounds
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &SimulationService{
		catalog:      catalog,
		simulator:    simulator,
		runs:         runs,
		maxCompounds: opts.MaxCompounds,
		workers:      opts.Workers,
	}
}

func (s *SimulationService) MaxCompounds() int {
	return s.maxCompounds
}

// SplitSMILES splits multi-line input into one SMILES per line, dropping blank lines.
func SplitSMILES(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return CleanSMILES(lines)
}

func CleanSMILES(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Analyze parses one structure without simulating it.
func (s *SimulationService) Analyze(ctx context.Context, smiles string) (*domain.Compound, error) {
	return s.catalog.Analyze(1, smiles)
}

// Simulate evaluates every compound of a batch. Compounds run concurrently up to
// the worker limit; results keep the input order. A line that cannot be analyzed
// gets a result with Error set and the rest of the batch still runs. Each
// simulated result is logged as a run.
func (s *SimulationService) Simulate(ctx context.Context, params domain.SimulationParams, smiles []string, requestID string) ([]*domain.SimulationResult, error) {
	compounds, results, err := s.prepare(&params, smiles)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range compounds {
		if c == nil {
			continue
		}
		g.Go(func() error {
			res, err := s.simulator.Run(gctx, c, params)
			if err != nil {
				return fmt.Errorf("compound %d: %w", c.Index, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batchID := uuid.New()
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			continue
		}
		s.record(ctx, batchID, res, requestID)
	}

	log.WithFields(log.Fields{
		"batch_id":   batchID,
		"compounds":  len(results),
		"failed":     failed,
		"dose":       params.Dose,
		"hours":      params.DurationHours,
		"request_id": requestID,
	}).Info("simulation batch completed")

	return results, nil
}

// SimulateEach evaluates compounds one at a time and hands each result to emit
// as soon as it is ready. Lines that cannot be analyzed are emitted as failed
// results. A non-nil error from emit stops the batch.
func (s *SimulationService) SimulateEach(ctx context.Context, params domain.SimulationParams, smiles []string, requestID string, emit func(*domain.SimulationResult) error) error {
	compounds, results, err := s.prepare(&params, smiles)
	if err != nil {
		return err
	}

	batchID := uuid.New()
	for i, c := range compounds {
		res := results[i]
		if c != nil {
			if res, err = s.simulator.Run(ctx, c, params); err != nil {
				return fmt.Errorf("compound %d: %w", c.Index, err)
			}
			s.record(ctx, batchID, res, requestID)
		}
		if err := emit(res); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate simulates a single compound without logging it.
func (s *SimulationService) Evaluate(ctx context.Context, index int, smiles string, params domain.SimulationParams) (*domain.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if index < 1 {
		index = 1
	}
	c, err := s.catalog.Analyze(index, smiles)
	if err != nil {
		return nil, err
	}
	return s.simulator.Run(ctx, c, params)
}

func (s *SimulationService) GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	if s.runs == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runs.GetByID(ctx, id)
}

// ClampLimit applies the default and maximum page size for run listings.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func (s *SimulationService) ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.Run, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	if s.runs == nil {
		return []*domain.Run{}, 0, nil
	}
	return s.runs.List(ctx, filter)
}

// ReplayRun recomputes the full result of a logged run. The model is
// deterministic, so the replay matches the original evaluation.
func (s *SimulationService) ReplayRun(ctx context.Context, id uuid.UUID) (*domain.SimulationResult, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.Evaluate(ctx, run.Index, run.SMILES, run.Params)
	if err != nil {
		return nil, err
	}
	res.RunID = run.ID
	return res, nil
}

// prepare validates the batch and analyzes every line. The two slices are
// index-aligned: a nil compound has a failed result in its slot, a non-nil
// compound still needs simulating.
func (s *SimulationService) prepare(params *domain.SimulationParams, smiles []string) ([]*domain.Compound, []*domain.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	lines := CleanSMILES(smiles)
	if len(lines) == 0 {
		return nil, nil, domain.ErrNoCompounds
	}
	if len(lines) > s.maxCompounds {
		return nil, nil, fmt.Errorf("%w: %d given, limit is %d", domain.ErrTooManyCompounds, len(lines), s.maxCompounds)
	}

	compounds := make([]*domain.Compound, len(lines))
	results := make([]*domain.SimulationResult, len(lines))
	for i, line := range lines {
		c, err := s.catalog.Analyze(i+1, line)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"index":  i + 1,
				"smiles": line,
			}).Debug("compound rejected")
			results[i] = domain.FailedResult(i+1, line, *params, err)
			continue
		}
		compounds[i] = c
	}
	return compounds, results, nil
}

// record logs the run. A failing run log never fails the simulation.
func (s *SimulationService) record(ctx context.Context, batchID uuid.UUID, res *domain.SimulationResult, requestID string) {
	if s.runs == nil {
		return
	}

	run := &domain.Run{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		BatchID:   batchID,
		Index:     res.Compound.Index,
		SMILES:    res.Compound.SMILES,
		Params:    res.Params,
		Amplifier: res.Compound.Amplifier,
		Alerts:    res.Compound.AlertIDs(),
		Score:     res.Score,
		Risk:      res.Risk,
		RequestID: requestID,
	}
	if err := s.runs.Save(ctx, run); err != nil {
		log.WithError(err).WithField("smiles", run.SMILES).Warn("run log write failed")
		return
	}
	res.RunID = run.ID
}
