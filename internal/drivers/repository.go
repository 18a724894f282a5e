package drivers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed driver store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const driverColumns = `id, carrier_id, name, email, phone, active,
	default_charge_type, default_charge_value, created_at, updated_at`

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.CarrierID, &d.Name, &d.Email, &d.Phone, &d.Active,
		&d.DefaultChargeType, &d.DefaultChargeValue, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a driver.
func (r *Repository) Create(ctx context.Context, carrierID string, req CreateDriverRequest) (*Driver, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO drivers (id, carrier_id, name, email, phone, active,
			default_charge_type, default_charge_value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8, $8)
		 RETURNING `+driverColumns,
		uuid.NewString(), carrierID, req.Name, req.Email, req.Phone,
		req.DefaultChargeType, req.DefaultChargeValue, time.Now())
	return scanDriver(row)
}

// Get loads one carrier-scoped driver, or nil when absent.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Driver, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1 AND carrier_id = $2`,
		id, carrierID)
	d, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// List returns a page of drivers plus the total count.
func (r *Repository) List(ctx context.Context, req ListDriversRequest) ([]Driver, int, error) {
	page := req.Page.Normalize()

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM drivers WHERE carrier_id = $1 AND ($2 = FALSE OR active)`,
		req.CarrierID, req.ActiveOnly).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+driverColumns+` FROM drivers
		 WHERE carrier_id = $1 AND ($2 = FALSE OR active)
		 ORDER BY name ASC
		 LIMIT $3 OFFSET $4`,
		req.CarrierID, req.ActiveOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req.
func (r *Repository) Update(ctx context.Context, carrierID, id string, req UpdateDriverRequest) (*Driver, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE drivers SET
			name = COALESCE($3, name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			active = COALESCE($6, active),
			default_charge_type = COALESCE($7, default_charge_type),
			default_charge_value = COALESCE($8, default_charge_value),
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2
		 RETURNING `+driverColumns,
		id, carrierID, req.Name, req.Email, req.Phone, req.Active,
		req.DefaultChargeType, req.DefaultChargeValue)
	d, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// ListPayments returns driver-invoice payments recorded for a driver, newest
// first.
func (r *Repository) ListPayments(ctx context.Context, carrierID, driverID string) ([]PaymentRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.driver_invoice_id, di.number, p.amount, p.paid_at
		 FROM driver_invoice_payments p
		 JOIN driver_invoices di ON di.id = p.driver_invoice_id
		 WHERE di.carrier_id = $1 AND di.driver_id = $2
		 ORDER BY p.paid_at DESC`,
		carrierID, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRow
	for rows.Next() {
		var p PaymentRow
		if err := rows.Scan(&p.ID, &p.DriverInvoiceID, &p.InvoiceNumber, &p.Amount, &p.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
