package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

const DefaultCapacity = 500

// runRepo keeps the most recent runs in process memory. When full, the oldest
// entry is evicted.
type runRepo struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID
	runs     map[uuid.UUID]*domain.Run
}

func NewRunRepository(capacity int) ports.RunRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &runRepo{
		capacity: capacity,
		runs:     make(map[uuid.UUID]*domain.Run),
	}
}

func (r *runRepo) Save(ctx context.Context, run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	cp := *run
	cp.Alerts = append([]string(nil), run.Alerts...)
	r.runs[run.ID] = &cp

	for len(r.order) > r.capacity {
		delete(r.runs, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// List returns newest first.
func (r *runRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.Run, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Run, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		run := r.runs[r.order[i]]
		if filter.BatchID != nil && run.BatchID != *filter.BatchID {
			continue
		}
		if filter.Risk != "" && !strings.EqualFold(string(run.Risk), filter.Risk) {
			continue
		}
		if filter.SMILES != "" && !strings.Contains(run.SMILES, filter.SMILES) {
			continue
		}
		cp := *run
		matched = append(matched, &cp)
	}

	total := len(matched)
	if filter.Offset >= total {
		return []*domain.Run{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (r *runRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	kept := r.order[:0]
	for _, id := range r.order {
		if r.runs[id].CreatedAt.Before(cutoff) {
			delete(r.runs, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return deleted, nil
}

func (r *runRepo) Ping(ctx context.Context) error {
	return nil
}
