package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

//go:embed schema.sql
var schema string

const runColumns = `id, created_at, batch_id, compound_index, smiles, params,
	amplifier, alerts, score, risk, request_id`

type runRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by PostgreSQL
func NewRunRepository(pool *pgxpool.Pool) ports.RunRepository {
	return &runRepo{pool: pool}
}

// EnsureSchema creates the run log table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *runRepo) Save(ctx context.Context, run *domain.Run) error {
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	alerts := run.Alerts
	if alerts == nil {
		alerts = []string{}
	}

	query := `
		INSERT INTO simulation_run
			(id, created_at, batch_id, compound_index, smiles, params,
			 amplifier, alerts, score, risk, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.pool.Exec(ctx, query,
		run.ID, run.CreatedAt, run.BatchID, run.Index, run.SMILES, paramsJSON,
		run.Amplifier, alerts, run.Score, string(run.Risk), run.RequestID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("run %s already logged: %w", run.ID, err)
		}
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM simulation_run WHERE id = $1`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return run, nil
}

func (r *runRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.Run, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.BatchID != nil {
		conditions = append(conditions, fmt.Sprintf("batch_id = $%d", argPos))
		args = append(args, *filter.BatchID)
		argPos++
	}
	if filter.Risk != "" {
		conditions = append(conditions, fmt.Sprintf("risk = $%d", argPos))
		args = append(args, strings.ToUpper(filter.Risk))
		argPos++
	}
	if filter.SMILES != "" {
		conditions = append(conditions, fmt.Sprintf("strpos(smiles, $%d) > 0", argPos))
		args = append(args, filter.SMILES)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM simulation_run WHERE %s`, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM simulation_run
		WHERE %s
		ORDER BY created_at DESC, compound_index ASC
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, total, nil
}

func (r *runRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM simulation_run WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *runRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanRun(row pgx.Row) (*domain.Run, error) {
	run := &domain.Run{}
	var paramsJSON []byte
	var risk string

	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.BatchID, &run.Index, &run.SMILES, &paramsJSON,
		&run.Amplifier, &run.Alerts, &run.Score, &risk, &run.RequestID,
	)
	if err != nil {
		return nil, err
	}

	run.Risk = domain.RiskLevel(risk)
	if err := json.Unmarshal(paramsJSON, &run.Params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if run.Alerts == nil {
		run.Alerts = []string{}
	}
	return run, nil
}
