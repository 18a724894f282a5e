package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed customer store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, carrier_id, name, contact_email, billing_email, payment_status_email,
	street, city, state, zip, country, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.CarrierID, &c.Name, &c.ContactEmail, &c.BillingEmail, &c.PaymentStatusEmail,
		&c.Street, &c.City, &c.State, &c.Zip, &c.Country, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, carrierID string, req CreateCustomerRequest) (*Customer, error) {
	now := time.Now()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customers (id, carrier_id, name, contact_email, billing_email, payment_status_email,
			street, city, state, zip, country, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		 RETURNING `+customerColumns,
		uuid.NewString(), carrierID, req.Name, req.ContactEmail, req.BillingEmail, req.PaymentStatusEmail,
		req.Street, req.City, req.State, req.Zip, req.Country, now)
	return scanCustomer(row)
}

// Get loads one carrier-scoped customer, or nil when absent.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND carrier_id = $2`,
		id, carrierID)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// List returns a page of customers plus the total count.
func (r *Repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	page := req.Page.Normalize()
	search := "%" + req.Search + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE carrier_id = $1 AND ($2 = '%%' OR name ILIKE $2)`,
		req.CarrierID, search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE carrier_id = $1 AND ($2 = '%%' OR name ILIKE $2)
		 ORDER BY name ASC
		 LIMIT $3 OFFSET $4`,
		req.CarrierID, search, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req.
func (r *Repository) Update(ctx context.Context, carrierID, id string, req UpdateCustomerRequest) (*Customer, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE customers SET
			name = COALESCE($3, name),
			contact_email = COALESCE($4, contact_email),
			billing_email = COALESCE($5, billing_email),
			payment_status_email = COALESCE($6, payment_status_email),
			street = COALESCE($7, street),
			city = COALESCE($8, city),
			state = COALESCE($9, state),
			zip = COALESCE($10, zip),
			country = COALESCE($11, country),
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2
		 RETURNING `+customerColumns,
		id, carrierID, req.Name, req.ContactEmail, req.BillingEmail, req.PaymentStatusEmail,
		req.Street, req.City, req.State, req.Zip, req.Country)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Delete removes a customer. It reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, carrierID, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM customers WHERE id = $1 AND carrier_id = $2`, id, carrierID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
