package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediagen/internal/domain"
)

// OptionRepositoryPG is the service's key-value options store, the
// settings backing the admin-facing configuration.
type OptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOptionRepository creates a new options repository.
func NewOptionRepository(pool *pgxpool.Pool) *OptionRepositoryPG {
	return &OptionRepositoryPG{pool: pool}
}

// Get returns the value stored under name.
func (r *OptionRepositoryPG) Get(ctx context.Context, name string) (string, error) {
	row := r.pool.QueryRow(ctx, `SELECT value FROM options WHERE name = $1;`, name)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts the value stored under name.
func (r *OptionRepositoryPG) Set(ctx context.Context, name, value string) error {
	query := `
INSERT INTO options (name, value)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value;
`
	_, err := r.pool.Exec(ctx, query, name, value)
	return err
}

// All returns the full options map.
func (r *OptionRepositoryPG) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, value FROM options;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opts := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		opts[name] = value
	}
	return opts, rows.Err()
}
