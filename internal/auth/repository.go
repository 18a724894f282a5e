package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed token store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetToken loads a token with its carrier name, or nil when absent.
func (r *Repository) GetToken(ctx context.Context, id string) (*AccessToken, error) {
	const query = `
		SELECT t.id, t.carrier_id, c.name, t.secret_hash, t.expires_at, t.created_at
		FROM access_tokens t
		JOIN carriers c ON c.id = t.carrier_id
		WHERE t.id = $1`

	var token AccessToken
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&token.ID,
		&token.CarrierID,
		&token.CarrierName,
		&token.SecretHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// CreateToken persists a new token.
func (r *Repository) CreateToken(ctx context.Context, token AccessToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO access_tokens (id, carrier_id, secret_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.CarrierID, token.SecretHash, token.ExpiresAt, token.CreatedAt)
	return err
}
