package driverpay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/platform/db"
)

// Repository is the pgx-backed driver-invoice store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const driverInvoiceColumns = `di.id, di.carrier_id, di.driver_id, d.name, di.number,
	di.from_date, di.to_date,
	di.total_amount, di.paid_amount, di.remaining_amount, di.status,
	di.last_payment_at, di.created_at, di.updated_at`

const driverInvoiceJoins = `FROM driver_invoices di
	JOIN drivers d ON d.id = di.driver_id`

func scanDriverInvoice(row pgx.Row) (*DriverInvoice, error) {
	var di DriverInvoice
	err := row.Scan(
		&di.ID, &di.CarrierID, &di.DriverID, &di.DriverName, &di.Number,
		&di.FromDate, &di.ToDate,
		&di.TotalAmount, &di.PaidAmount, &di.RemainingAmount, &di.Status,
		&di.LastPaymentAt, &di.CreatedAt, &di.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &di, nil
}

// Create inserts the driver invoice and its snapshotted items in one
// transaction. Numbers are sequential per carrier; the per-carrier advisory
// lock serializes concurrent creates so two transactions never read the same
// count.
func (r *Repository) Create(ctx context.Context, carrierID, driverID string, from, to time.Time, total decimal.Decimal, items []Item) (string, error) {
	id := uuid.NewString()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockScope(ctx, tx, "driver_invoices", carrierID); err != nil {
			return err
		}

		var seq int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*) + 1 FROM driver_invoices WHERE carrier_id = $1`, carrierID).Scan(&seq)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO driver_invoices (id, carrier_id, driver_id, number,
				from_date, to_date,
				total_amount, paid_amount, remaining_amount, status,
				created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $7, 'PENDING', $8, $8)`,
			id, carrierID, driverID, fmt.Sprintf("DRV-%06d", seq),
			from, to, total, time.Now())
		if err != nil {
			return err
		}

		for _, item := range items {
			_, err = tx.Exec(ctx,
				`INSERT INTO driver_invoice_items (id, driver_invoice_id, kind,
					assignment_id, description, amount)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.NewString(), id, item.Kind, item.AssignmentID, item.Description, item.Amount)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get loads one carrier-scoped driver invoice with items and payments.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*DriverInvoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+driverInvoiceColumns+` `+driverInvoiceJoins+`
		 WHERE di.id = $1 AND di.carrier_id = $2`,
		id, carrierID)
	di, err := scanDriverInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if di.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	if di.Payments, err = r.ListPayments(ctx, id); err != nil {
		return nil, err
	}
	return di, nil
}

func (r *Repository) listItems(ctx context.Context, driverInvoiceID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, driver_invoice_id, kind, assignment_id, description, amount
		 FROM driver_invoice_items WHERE driver_invoice_id = $1
		 ORDER BY kind ASC, description ASC`,
		driverInvoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(&item.ID, &item.DriverInvoiceID, &item.Kind,
			&item.AssignmentID, &item.Description, &item.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListPayments returns every payment on a driver invoice, oldest first.
func (r *Repository) ListPayments(ctx context.Context, driverInvoiceID string) ([]Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, driver_invoice_id, amount, paid_at, note
		 FROM driver_invoice_payments WHERE driver_invoice_id = $1 ORDER BY paid_at ASC`,
		driverInvoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.DriverInvoiceID, &p.Amount, &p.PaidAt, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns a page of driver invoices.
func (r *Repository) List(ctx context.Context, req ListDriverInvoicesRequest) ([]DriverInvoice, int, error) {
	page := req.Page.Normalize()

	const where = `WHERE di.carrier_id = $1
		AND ($2 = '' OR di.driver_id::text = $2)
		AND ($3 = '' OR di.status = $3)`

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) `+driverInvoiceJoins+` `+where,
		req.CarrierID, req.DriverID, string(req.Status)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+driverInvoiceColumns+` `+driverInvoiceJoins+` `+where+`
		 ORDER BY di.created_at DESC
		 LIMIT $4 OFFSET $5`,
		req.CarrierID, req.DriverID, string(req.Status), page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []DriverInvoice
	for rows.Next() {
		di, err := scanDriverInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *di)
	}
	return out, total, rows.Err()
}

// SetStatus writes the lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, carrierID, id string, status Status) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE driver_invoices SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, status)
	return err
}

// AddPayment inserts a payment row.
func (r *Repository) AddPayment(ctx context.Context, driverInvoiceID string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO driver_invoice_payments (id, driver_invoice_id, amount, paid_at, note)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, driverInvoiceID, amount, paidAt, note)
	return id, err
}

// DeletePayment removes a payment row. It reports whether a row was deleted.
func (r *Repository) DeletePayment(ctx context.Context, driverInvoiceID, paymentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM driver_invoice_payments WHERE id = $1 AND driver_invoice_id = $2`,
		paymentID, driverInvoiceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyBalance persists the paid and remaining figures with the new status.
func (r *Repository) ApplyBalance(ctx context.Context, carrierID, id string, paid, remaining decimal.Decimal, status Status, lastPaymentAt *time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE driver_invoices SET
			paid_amount = $3,
			remaining_amount = $4,
			status = $5,
			last_payment_at = $6,
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, paid, remaining, status, lastPaymentAt)
	return err
}

// Stats aggregates count and total per status.
func (r *Repository) Stats(ctx context.Context, carrierID string) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		 FROM driver_invoices WHERE carrier_id = $1
		 GROUP BY status ORDER BY status ASC`,
		carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count, &sc.Total); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
