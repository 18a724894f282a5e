package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the dashboard count queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ActiveDrivers(ctx context.Context, carrierID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM drivers WHERE carrier_id = $1 AND active`,
		carrierID).Scan(&n)
	return n, err
}

func (r *Repository) OpenLoads(ctx context.Context, carrierID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM loads
		 WHERE carrier_id = $1 AND status IN ('PENDING', 'COMPLETED')`,
		carrierID).Scan(&n)
	return n, err
}

func (r *Repository) PendingExpenses(ctx context.Context, carrierID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE carrier_id = $1 AND status = 'PENDING'`,
		carrierID).Scan(&n)
	return n, err
}

func (r *Repository) AssignmentsInProgress(ctx context.Context, carrierID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM driver_assignments
		 WHERE carrier_id = $1 AND status = 'IN_PROGRESS'`,
		carrierID).Scan(&n)
	return n, err
}
