package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Versioned wraps Redis cache-aside with a namespace-wide version counter.
// Writers call Bump after mutating the underlying data, which shifts every
// reader onto fresh keys; stale entries simply expire.
type Versioned struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewVersioned builds a versioned cache for one namespace. A nil client
// degrades to pass-through (every fetch runs the loader).
func NewVersioned(client *redis.Client, namespace string, ttl time.Duration) *Versioned {
	return &Versioned{client: client, namespace: namespace, ttl: ttl}
}

func (v *Versioned) versionKey() string {
	return v.namespace + ":version"
}

// Version returns the current cache version, initialising it when missing.
func (v *Versioned) Version(ctx context.Context) (int64, error) {
	if v == nil || v.client == nil {
		return 0, nil
	}
	ver, err := v.client.Get(ctx, v.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		if err := v.client.Set(ctx, v.versionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a cache key carrying the current version.
func (v *Versioned) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := v.namespace + ":" + strings.Join(parts, ":")
	if v == nil || v.client == nil {
		return joined, nil
	}
	ver, err := v.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it with the loader.
func (v *Versioned) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if v == nil || v.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}

	payload, err := v.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := v.client.Set(ctx, key, raw, v.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the whole namespace by incrementing its version.
func (v *Versioned) Bump(ctx context.Context) error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Incr(ctx, v.versionKey()).Err()
}
