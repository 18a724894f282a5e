package loads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carrierdesk/carrierdesk/internal/platform/db"
)

// Repository is the pgx-backed load store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// effectiveStatus overlays OVERDUE from the joined invoice; the stored status
// column never holds OVERDUE.
const effectiveStatus = `CASE
	WHEN i.id IS NOT NULL AND i.due_net_days > 0 AND i.due_date < NOW()
		AND i.status IN ('NOT_PAID', 'PARTIALLY_PAID') THEN 'OVERDUE'
	ELSE l.status
END`

const loadColumns = `l.id, l.carrier_id, l.ref_num, l.customer_id, c.name,
	l.rate, l.route_distance_miles, l.route_duration_hours, ` + effectiveStatus + `,
	i.id, l.created_at, l.updated_at`

const loadJoins = `FROM loads l
	JOIN customers c ON c.id = l.customer_id
	LEFT JOIN invoices i ON i.load_id = l.id`

func scanLoad(row pgx.Row) (*Load, error) {
	var l Load
	err := row.Scan(
		&l.ID, &l.CarrierID, &l.RefNum, &l.CustomerID, &l.CustomerName,
		&l.Rate, &l.RouteDistanceMiles, &l.RouteDurationHours, &l.Status,
		&l.InvoiceID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a load and its stops in one transaction.
func (r *Repository) Create(ctx context.Context, carrierID string, req CreateLoadRequest) (string, error) {
	id := uuid.NewString()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO loads (id, carrier_id, ref_num, customer_id, rate,
				route_distance_miles, route_duration_hours, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 'PENDING', $8, $8)`,
			id, carrierID, req.RefNum, req.CustomerID, req.Rate,
			req.RouteDistanceMiles, req.RouteDurationHours, time.Now())
		if err != nil {
			return err
		}
		return insertStops(ctx, tx, id, req.Stops)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func insertStops(ctx context.Context, tx pgx.Tx, loadID string, stops []StopInput) error {
	for seq, s := range stops {
		_, err := tx.Exec(ctx,
			`INSERT INTO load_stops (id, load_id, type, sequence, name,
				street, city, state, zip, lat, lng, stop_window)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.NewString(), loadID, s.Type, seq, s.Name,
			s.Street, s.City, s.State, s.Zip, s.Lat, s.Lng, s.Window)
		if err != nil {
			return err
		}
	}
	return nil
}

// Get loads one carrier-scoped load with its stops, or nil when absent.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Load, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+loadColumns+` `+loadJoins+`
		 WHERE l.id = $1 AND l.carrier_id = $2`,
		id, carrierID)
	l, err := scanLoad(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	l.Stops, err = r.listStops(ctx, id)
	return l, err
}

func (r *Repository) listStops(ctx context.Context, loadID string) ([]Stop, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, load_id, type, sequence, name, street, city, state, zip, lat, lng, stop_window
		 FROM load_stops WHERE load_id = $1 ORDER BY sequence ASC`,
		loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stop
	for rows.Next() {
		var s Stop
		err := rows.Scan(&s.ID, &s.LoadID, &s.Type, &s.Sequence, &s.Name,
			&s.Street, &s.City, &s.State, &s.Zip, &s.Lat, &s.Lng, &s.Window)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var loadSortColumns = map[string]string{
	"createdAt": "l.created_at DESC",
	"refNum":    "l.ref_num ASC",
	"rate":      "l.rate DESC",
}

// List returns a page of loads filtered on the derived status.
func (r *Repository) List(ctx context.Context, req ListLoadsRequest) ([]Load, int, error) {
	page := req.Page.Normalize()
	order, ok := loadSortColumns[req.Sort]
	if !ok {
		order = loadSortColumns["createdAt"]
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) `+loadJoins+`
		 WHERE l.carrier_id = $1 AND ($2 = '' OR `+effectiveStatus+` = $2)`,
		req.CarrierID, string(req.Status)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+loadColumns+` `+loadJoins+`
		 WHERE l.carrier_id = $1 AND ($2 = '' OR `+effectiveStatus+` = $2)
		 ORDER BY `+order+`
		 LIMIT $3 OFFSET $4`,
		req.CarrierID, string(req.Status), page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req; stops, when present, are replaced
// wholesale.
func (r *Repository) Update(ctx context.Context, carrierID, id string, req UpdateLoadRequest) (bool, error) {
	var found bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE loads SET
				ref_num = COALESCE($3, ref_num),
				customer_id = COALESCE($4, customer_id),
				rate = COALESCE($5, rate),
				route_distance_miles = COALESCE($6, route_distance_miles),
				route_duration_hours = COALESCE($7, route_duration_hours),
				status = COALESCE($8, status),
				updated_at = NOW()
			 WHERE id = $1 AND carrier_id = $2`,
			id, carrierID, req.RefNum, req.CustomerID, req.Rate,
			req.RouteDistanceMiles, req.RouteDurationHours, req.Status)
		if err != nil {
			return err
		}
		found = tag.RowsAffected() > 0
		if !found || req.Stops == nil {
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM load_stops WHERE load_id = $1`, id); err != nil {
			return err
		}
		return insertStops(ctx, tx, id, req.Stops)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// SetStatus moves a load's stored status. Used by invoicing when a load is
// invoiced or fully paid.
func (r *Repository) SetStatus(ctx context.Context, carrierID, id string, status Status) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loads SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a load and its stops. It reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, carrierID, id string) (bool, error) {
	var found bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM load_stops WHERE load_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`DELETE FROM loads WHERE id = $1 AND carrier_id = $2`, id, carrierID)
		if err != nil {
			return err
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
