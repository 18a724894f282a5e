package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/platform/db"
)

// Repository is the pgx-backed invoice store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// overdueCond matches invoices that are past due and not settled. The stored
// status column only ever holds NOT_PAID, PARTIALLY_PAID or PAID.
const overdueCond = `i.due_net_days > 0 AND i.due_date < NOW()
	AND i.status IN ('NOT_PAID', 'PARTIALLY_PAID')`

const effectiveStatus = `CASE WHEN ` + overdueCond + ` THEN 'OVERDUE' ELSE i.status END`

const invoiceColumns = `i.id, i.carrier_id, i.load_id, l.ref_num, c.name, i.number,
	i.invoiced_at, i.due_net_days, i.due_date,
	i.total_amount, i.paid_amount, i.remaining_amount, ` + effectiveStatus + `,
	i.overpaid, i.last_payment_at, i.created_at, i.updated_at`

const invoiceJoins = `FROM invoices i
	JOIN loads l ON l.id = i.load_id
	JOIN customers c ON c.id = l.customer_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.CarrierID, &inv.LoadID, &inv.LoadRefNum, &inv.CustomerName, &inv.Number,
		&inv.InvoicedAt, &inv.DueNetDays, &inv.DueDate,
		&inv.TotalAmount, &inv.PaidAmount, &inv.RemainingAmount, &inv.Status,
		&inv.Overpaid, &inv.LastPaymentAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts the invoice and its line items and marks the load INVOICED
// in one transaction. Numbers are sequential per carrier; the per-carrier
// advisory lock serializes concurrent creates so two transactions never read
// the same count.
func (r *Repository) Create(ctx context.Context, carrierID string, loadID string, invoicedAt time.Time, dueNetDays int, total decimal.Decimal, items []ItemInput) (string, error) {
	id := uuid.NewString()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockScope(ctx, tx, "invoices", carrierID); err != nil {
			return err
		}

		var seq int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*) + 1 FROM invoices WHERE carrier_id = $1`, carrierID).Scan(&seq)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO invoices (id, carrier_id, load_id, number,
				invoiced_at, due_net_days, due_date,
				total_amount, paid_amount, remaining_amount, status, overpaid,
				created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $8, 'NOT_PAID', FALSE, $9, $9)`,
			id, carrierID, loadID, fmt.Sprintf("INV-%06d", seq),
			invoicedAt, dueNetDays, billing.DueDate(invoicedAt, dueNetDays),
			total, time.Now())
		if err != nil {
			return err
		}

		for _, item := range items {
			_, err = tx.Exec(ctx,
				`INSERT INTO invoice_items (id, invoice_id, description, amount)
				 VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), id, item.Description, item.Amount)
			if err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE loads SET status = 'INVOICED', updated_at = NOW()
			 WHERE id = $1 AND carrier_id = $2`,
			loadID, carrierID)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get loads one carrier-scoped invoice with items and payments, or nil.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` `+invoiceJoins+`
		 WHERE i.id = $1 AND i.carrier_id = $2`,
		id, carrierID)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if inv.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	if inv.Payments, err = r.ListPayments(ctx, id); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *Repository) listItems(ctx context.Context, invoiceID string) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, description, amount
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY description ASC`,
		invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListPayments returns every payment on an invoice, oldest first.
func (r *Repository) ListPayments(ctx context.Context, invoiceID string) ([]Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, amount, paid_at, note
		 FROM invoice_payments WHERE invoice_id = $1 ORDER BY paid_at ASC`,
		invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaidAt, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns a page of invoices filtered on the derived status.
func (r *Repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	page := req.Page.Normalize()

	const where = `WHERE i.carrier_id = $1 AND ($2 = '' OR ` + effectiveStatus + ` = $2)`

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) `+invoiceJoins+` `+where,
		req.CarrierID, string(req.Status)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` `+invoiceJoins+` `+where+`
		 ORDER BY i.invoiced_at DESC
		 LIMIT $3 OFFSET $4`,
		req.CarrierID, string(req.Status), page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

// AddPayment inserts a payment row.
func (r *Repository) AddPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoice_payments (id, invoice_id, amount, paid_at, note)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, invoiceID, amount, paidAt, note)
	return id, err
}

// DeletePayment removes a payment row. It reports whether a row was deleted.
func (r *Repository) DeletePayment(ctx context.Context, invoiceID, paymentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invoice_payments WHERE id = $1 AND invoice_id = $2`,
		paymentID, invoiceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyBalance persists a reconciled balance. The stored status excludes
// OVERDUE, which stays derived.
func (r *Repository) ApplyBalance(ctx context.Context, carrierID, id string, bal billing.Balance, stored billing.InvoiceStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invoices SET
			paid_amount = $3,
			remaining_amount = $4,
			status = $5,
			overpaid = $6,
			last_payment_at = $7,
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, bal.Paid, bal.Remaining, stored, bal.Overpaid, bal.LastPaymentAt)
	return err
}

// Stats aggregates the invoicing digest: payments received this calendar
// month, open balance, and overdue balance.
func (r *Repository) Stats(ctx context.Context, carrierID string, monthStart, monthEnd time.Time) (*Stats, error) {
	var s Stats

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM invoice_payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE i.carrier_id = $1 AND p.paid_at >= $2 AND p.paid_at <= $3`,
		carrierID, monthStart, monthEnd).Scan(&s.TotalPaidThisMonth)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.remaining_amount), 0)
		 FROM invoices i WHERE i.carrier_id = $1 AND i.status <> 'PAID'`,
		carrierID).Scan(&s.TotalUnpaid)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.remaining_amount), 0)
		 FROM invoices i WHERE i.carrier_id = $1 AND `+overdueCond,
		carrierID).Scan(&s.TotalOverdue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListOverdue returns invoices currently past due, for the worker scan.
func (r *Repository) ListOverdue(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` `+invoiceJoins+`
		 WHERE `+overdueCond+`
		 ORDER BY i.due_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}
