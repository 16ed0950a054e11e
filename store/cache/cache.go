// Package cache wraps the store with a timestamped envelope and a max-age
// expiry check, giving reads a plain hit/miss signal.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/savvy-app/savvy/store"
)

// DefaultMaxAge is how long a cached entry stays fresh.
const DefaultMaxAge = 5 * time.Minute

// Envelope pairs cached data with its capture instant. An envelope is
// immutable once written; a fresh read always replaces it wholesale.
type Envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
}

// Cache is a best-effort expiring cache over the store.
//
// Load never reports why it missed: absence, expiry and corruption are
// indistinguishable to the caller, which only needs a hit/miss signal.
type Cache struct {
	store  *store.Store
	maxAge time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Cache over s. A non-positive maxAge falls back to
// DefaultMaxAge.
func New(s *store.Store, maxAge time.Duration) *Cache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Cache{
		store:  s,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Save wraps data in an envelope stamped with the current time and stores it
// under key. Returns false on failure.
func (c *Cache) Save(ctx context.Context, key string, data any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode cache data", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	envelope := Envelope{
		Data:      raw,
		Timestamp: c.now().UnixMilli(),
	}
	return c.store.Set(ctx, key, &envelope)
}

// Load reads the envelope under key into dest and reports a hit. Entries past
// the max age are deleted eagerly as a side effect of the read.
func (c *Cache) Load(ctx context.Context, key string, dest any) bool {
	var envelope Envelope
	if !c.store.Get(ctx, key, &envelope) {
		return false
	}
	if envelope.Timestamp == 0 {
		// Malformed entry, treat as a miss.
		return false
	}

	age := c.now().UnixMilli() - envelope.Timestamp
	if age > c.maxAge.Milliseconds() {
		c.store.Delete(ctx, key)
		return false
	}

	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		slog.Error("failed to decode cache data", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// Invalidate removes the entry under key so the next read refetches
// authoritative data.
func (c *Cache) Invalidate(ctx context.Context, key string) bool {
	return c.store.Delete(ctx, key)
}
