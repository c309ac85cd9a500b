package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo reads and writes reference-data records in the
// reference_data table. The record body is stored as a JSONB document;
// the key columns are stored lowercase so lookups stay case-insensitive.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo wraps an existing pool (see Connect).
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Get(ctx context.Context, key Key) (*Record, error) {
	k := key.normalized()
	query := `
		SELECT data
		FROM reference_data
		WHERE process = $1 AND feedstock = $2 AND country = $3
		LIMIT 1
	`
	var dataJSON []byte
	err := r.pool.QueryRow(ctx, query, k.Process, k.Feedstock, k.Country).Scan(&dataJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w for %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reference data query failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(dataJSON, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference data: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepo) Put(ctx context.Context, key Key, rec *Record) error {
	k := key.normalized()
	dataJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal reference data: %w", err)
	}

	query := `
		INSERT INTO reference_data (process, feedstock, country, data, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (process, feedstock, country)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, k.Process, k.Feedstock, k.Country, dataJSON); err != nil {
		return fmt.Errorf("reference data upsert failed: %w", err)
	}
	return nil
}
