package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
)

// Repository is the pgx-backed assignment store. Leg distance is persisted in
// meters as delivered by the mapping provider and converted to miles when rows
// are scanned.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const assignmentColumns = `a.id, a.carrier_id, a.load_id, a.driver_id, d.name, l.ref_num,
	a.charge_type, a.charge_value,
	a.billed_distance_miles, a.billed_duration_hours, a.billed_load_rate,
	a.empty_miles, a.route_distance_meters, a.route_duration_hours, l.rate,
	a.pickup_lat, a.pickup_lng, a.delivery_lat, a.delivery_lng,
	a.status, a.started_at, a.completed_at, a.created_at, a.updated_at`

const assignmentJoins = `FROM driver_assignments a
	JOIN drivers d ON d.id = a.driver_id
	JOIN loads l ON l.id = a.load_id`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	var meters decimal.Decimal
	err := row.Scan(
		&a.ID, &a.CarrierID, &a.LoadID, &a.DriverID, &a.DriverName, &a.LoadRefNum,
		&a.ChargeType, &a.ChargeValue,
		&a.BilledDistanceMiles, &a.BilledDurationHours, &a.BilledLoadRate,
		&a.EmptyMiles, &meters, &a.RouteDurationHours, &a.LoadRate,
		&a.PickupLat, &a.PickupLng, &a.DeliveryLat, &a.DeliveryLng,
		&a.Status, &a.StartedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.RouteDistanceMiles = billing.MilesFromMeters(meters)
	return &a, nil
}

// Create inserts an assignment leg.
func (r *Repository) Create(ctx context.Context, carrierID string, chargeType billing.ChargeType, chargeValue decimal.Decimal, req CreateAssignmentRequest) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO driver_assignments (id, carrier_id, load_id, driver_id,
			charge_type, charge_value, empty_miles,
			route_distance_meters, route_duration_hours,
			pickup_lat, pickup_lng, delivery_lat, delivery_lng,
			status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11, $12, 'ASSIGNED', $13, $13)`,
		id, carrierID, req.LoadID, req.DriverID,
		chargeType, chargeValue,
		req.RouteDistanceMeters, req.RouteDurationHours,
		req.PickupLat, req.PickupLng, req.DeliveryLat, req.DeliveryLng,
		time.Now())
	return id, err
}

// Get loads one carrier-scoped assignment, or nil when absent.
func (r *Repository) Get(ctx context.Context, carrierID, id string) (*Assignment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` `+assignmentJoins+`
		 WHERE a.id = $1 AND a.carrier_id = $2`,
		id, carrierID)
	a, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// List returns a page of assignments filtered by driver, load, and status.
func (r *Repository) List(ctx context.Context, req ListAssignmentsRequest) ([]Assignment, int, error) {
	page := req.Page.Normalize()

	const where = `WHERE a.carrier_id = $1
		AND ($2 = '' OR a.driver_id::text = $2)
		AND ($3 = '' OR a.load_id::text = $3)
		AND ($4 = '' OR a.status = $4)`

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) `+assignmentJoins+` `+where,
		req.CarrierID, req.DriverID, req.LoadID, string(req.Status)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` `+assignmentJoins+` `+where+`
		 ORDER BY a.created_at DESC
		 LIMIT $5 OFFSET $6`,
		req.CarrierID, req.DriverID, req.LoadID, string(req.Status), page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

// ListCompletedForDriver returns all completed legs for a driver, oldest
// first. Period filtering happens above, where the calendar semantics live.
func (r *Repository) ListCompletedForDriver(ctx context.Context, carrierID, driverID string) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` `+assignmentJoins+`
		 WHERE a.carrier_id = $1 AND a.driver_id = $2 AND a.status = 'COMPLETED'
		 ORDER BY a.started_at ASC NULLS LAST, a.created_at ASC`,
		carrierID, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// SetStatus moves the leg status and stamps the transition time.
func (r *Repository) SetStatus(ctx context.Context, carrierID, id string, status Status, at time.Time) (bool, error) {
	var started, completed *time.Time
	switch status {
	case StatusInProgress:
		started = &at
	case StatusCompleted:
		completed = &at
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE driver_assignments SET
			status = $3,
			started_at = COALESCE($4, started_at),
			completed_at = COALESCE($5, completed_at),
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, status, started, completed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateBilling applies the non-nil charge and override fields.
func (r *Repository) UpdateBilling(ctx context.Context, carrierID, id string, req UpdateBillingRequest) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE driver_assignments SET
			charge_type = COALESCE($3, charge_type),
			charge_value = COALESCE($4, charge_value),
			billed_distance_miles = COALESCE($5, billed_distance_miles),
			billed_duration_hours = COALESCE($6, billed_duration_hours),
			billed_load_rate = COALESCE($7, billed_load_rate),
			empty_miles = COALESCE($8, empty_miles),
			updated_at = NOW()
		 WHERE id = $1 AND carrier_id = $2`,
		id, carrierID, req.ChargeType, req.ChargeValue,
		req.BilledDistanceMiles, req.BilledDurationHours, req.BilledLoadRate,
		req.EmptyMiles)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
