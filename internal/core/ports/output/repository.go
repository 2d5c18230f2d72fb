package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"digital-liver/internal/core/domain"
)

type RunListFilter struct {
	BatchID *uuid.UUID
	Risk    string
	SMILES  string
	Limit   int
	Offset  int
}

// RunRepository keeps the log of evaluated compounds.
type RunRepository interface {
	Save(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	List(ctx context.Context, filter RunListFilter) ([]*domain.Run, int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}
