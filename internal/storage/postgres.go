package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dappshell/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS probe_outcomes (
		id               BIGSERIAL PRIMARY KEY,
		generation       BIGINT      NOT NULL,
		contract_address TEXT        NOT NULL,
		chain_id         TEXT        NOT NULL,
		account          TEXT        NOT NULL DEFAULT '',
		session_status   TEXT        NOT NULL DEFAULT '',
		calls            JSONB       NOT NULL,
		error            TEXT        NOT NULL DEFAULT '',
		started_at       TIMESTAMPTZ NOT NULL,
		finished_at      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS probe_outcomes_started_at_idx ON probe_outcomes (started_at DESC);
`

const selectOutcomes = `
	SELECT
		id, generation, contract_address, chain_id, account,
		session_status, calls, error, started_at, finished_at
	FROM probe_outcomes
`

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

// EnsureSchema creates the probe_outcomes table when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveProbeOutcome inserts an outcome and sets its ID
func (r *PostgresRepository) SaveProbeOutcome(ctx context.Context, outcome *models.ProbeOutcome) error {
	callsJSON, err := json.Marshal(outcome.Calls)
	if err != nil {
		return fmt.Errorf("failed to marshal calls: %w", err)
	}

	query := `
		INSERT INTO probe_outcomes (
			generation, contract_address, chain_id, account,
			session_status, calls, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err = r.pool.QueryRow(ctx, query,
		int64(outcome.Generation),
		outcome.ContractAddress,
		outcome.ChainID,
		outcome.Account,
		outcome.SessionStatus,
		callsJSON,
		outcome.Error,
		outcome.StartedAt,
		outcome.FinishedAt,
	).Scan(&outcome.ID)

	if err != nil {
		return fmt.Errorf("failed to save probe outcome: %w", err)
	}

	return nil
}

// ListProbeOutcomes lists outcomes newest first with pagination
func (r *PostgresRepository) ListProbeOutcomes(ctx context.Context, limit, offset int) ([]*models.ProbeOutcome, error) {
	query := selectOutcomes + `
		ORDER BY started_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list probe outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.ProbeOutcome
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating probe outcomes: %w", err)
	}

	return outcomes, nil
}

// LatestProbeOutcome returns the most recent outcome
func (r *PostgresRepository) LatestProbeOutcome(ctx context.Context) (*models.ProbeOutcome, error) {
	query := selectOutcomes + `
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	outcome, err := scanOutcome(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func scanOutcome(row pgx.Row) (*models.ProbeOutcome, error) {
	var outcome models.ProbeOutcome
	var generation int64
	var callsJSON []byte

	err := row.Scan(
		&outcome.ID,
		&generation,
		&outcome.ContractAddress,
		&outcome.ChainID,
		&outcome.Account,
		&outcome.SessionStatus,
		&callsJSON,
		&outcome.Error,
		&outcome.StartedAt,
		&outcome.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan probe outcome: %w", err)
	}

	outcome.Generation = uint64(generation)
	if err := json.Unmarshal(callsJSON, &outcome.Calls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calls: %w", err)
	}

	return &outcome, nil
}

// Ping verifies the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
