package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recipient is one notification target.
type Recipient struct {
	DriverID string  `json:"driverId"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// RecipientSource loads the eligible recipients for a carrier.
type RecipientSource interface {
	ListEligible(ctx context.Context, carrierID string) ([]Recipient, error)
}

// Repository is the pgx-backed recipient source: active drivers with at
// least one contact channel.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListEligible(ctx context.Context, carrierID string) ([]Recipient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, phone FROM drivers
		 WHERE carrier_id = $1 AND active
		   AND (email IS NOT NULL OR phone IS NOT NULL)
		 ORDER BY name ASC`,
		carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.DriverID, &rec.Name, &rec.Email, &rec.Phone); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Targeting resolves notification recipients with cache-aside: hit serves
// the cached list, miss or expiry computes and rewrites it.
type Targeting struct {
	logger *slog.Logger
	source RecipientSource
	cache  Cache
	ttl    time.Duration
}

// NewTargeting builds a Targeting service.
func NewTargeting(logger *slog.Logger, source RecipientSource, cache Cache, ttl time.Duration) *Targeting {
	return &Targeting{logger: logger, source: source, cache: cache, ttl: ttl}
}

func targetingKey(carrierID string) string {
	return "notify:recipients:" + carrierID
}

// EligibleRecipients returns the recipients for a carrier. Cache failures
// degrade to a direct lookup rather than failing the notification.
func (t *Targeting) EligibleRecipients(ctx context.Context, carrierID string) ([]Recipient, error) {
	key := targetingKey(carrierID)

	payload, hit, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.Warn("recipient cache read", slog.Any("error", err))
	}
	if hit {
		var cached []Recipient
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		t.logger.Warn("recipient cache entry corrupt", slog.String("key", key))
	}

	recipients, err := t.source.ListEligible(ctx, carrierID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(recipients); err == nil {
		if err := t.cache.Set(ctx, key, raw, t.ttl); err != nil {
			t.logger.Warn("recipient cache write", slog.Any("error", err))
		}
	}
	return recipients, nil
}

// Invalidate drops the cached recipient list for a carrier. Call after
// driver contact or active-flag changes.
func (t *Targeting) Invalidate(ctx context.Context, carrierID string) error {
	return t.cache.Invalidate(ctx, targetingKey(carrierID))
}
