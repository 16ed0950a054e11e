package store

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Store provides best-effort access to local persistent state.
//
// Every operation degrades instead of failing: a broken storage backend must
// never break a read or write against the server, so driver and codec errors
// are logged and reported as a plain miss/no-op indicator. Drivers themselves
// return real errors, which keeps failures visible to their unit tests.
type Store struct {
	driver Driver
}

// New creates a new instance of Store on top of driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Set JSON-encodes value and stores it under key. Returns false on failure.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode value for storage", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if err := s.driver.Set(ctx, key, string(raw)); err != nil {
		slog.Error("failed to save to storage", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// Get loads the value under key into dest. Returns false when the key is
// absent or the stored value cannot be decoded.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	raw, found, err := s.driver.Get(ctx, key)
	if err != nil {
		slog.Error("failed to load from storage", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		slog.Error("failed to decode stored value", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// Delete removes the value under key. Returns false on failure.
func (s *Store) Delete(ctx context.Context, key string) bool {
	if err := s.driver.Delete(ctx, key); err != nil {
		slog.Error("failed to remove from storage", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// Clear removes everything from storage. Returns false on failure.
func (s *Store) Clear(ctx context.Context) bool {
	if err := s.driver.Clear(ctx); err != nil {
		slog.Error("failed to clear storage", slog.String("error", err.Error()))
		return false
	}
	return true
}
