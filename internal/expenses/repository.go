package expenses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed expense store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, carrier_id, category, amount, incurred_on,
	load_id, driver_id, receipt_ref, note, status, created_at, updated_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID, &e.CarrierID, &e.Category, &e.Amount, &e.IncurredOn,
		&e.LoadID, &e.DriverID, &e.ReceiptRef, &e.Note, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an expense in PENDING state.
func (r *Repository) Create(ctx context.Context, carrierID string, req CreateExpenseRequest) (*Expense, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (id, carrier_id, category, amount, incurred_on,
			load_id, driver_id, receipt_ref, note, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'PENDING', $10, $10)
		 RETURNING `+expenseColumns,
		uuid.NewString(), carrierID, req.Category, req.Amount, req.IncurredOn,
		req.LoadID, req.DriverID, req.ReceiptRef, req.Note, time.Now())
	return scanExpense(row)
}

// Get loads one carrier-scoped expense, or nil when absent.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Expense, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND carrier_id = $2`,
		id, carrierID)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// List returns a page of expenses filtered by status, category and incurred
// window. Nil window bounds leave that side open.
func (r *Repository) List(ctx context.Context, req ListExpensesRequest, from, to *time.Time) ([]Expense, int, error) {
	page := req.Page.Normalize()

	const where = `WHERE carrier_id = $1
		AND ($2 = '' OR status = $2)
		AND ($3 = '' OR category = $3)
		AND ($4::timestamptz IS NULL OR incurred_on >= $4)
		AND ($5::timestamptz IS NULL OR incurred_on <= $5)`

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses `+where,
		req.CarrierID, string(req.Status), req.Category, from, to).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses `+where+`
		 ORDER BY incurred_on DESC
		 LIMIT $6 OFFSET $7`,
		req.CarrierID, string(req.Status), req.Category, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

// SetStatus writes the approval decision for one expense.
func (r *Repository) SetStatus(ctx context.Context, carrierID, id string, status Status) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// BulkSetStatus applies one decision to many expenses. It returns the number
// of rows updated.
func (r *Repository) BulkSetStatus(ctx context.Context, carrierID string, ids []string, status Status) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET status = $3, updated_at = NOW()
		 WHERE carrier_id = $1 AND id = ANY($2)`,
		carrierID, ids, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BulkDelete removes many expenses. It returns the number of rows deleted.
func (r *Repository) BulkDelete(ctx context.Context, carrierID string, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE carrier_id = $1 AND id = ANY($2)`,
		carrierID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Categories lists the distinct categories in use for the carrier.
func (r *Repository) Categories(ctx context.Context, carrierID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM expenses WHERE carrier_id = $1 ORDER BY category ASC`,
		carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
