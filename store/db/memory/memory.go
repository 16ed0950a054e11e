// Package memory implements the storage driver on a process-local map.
// It backs demo mode and tests; nothing survives process exit.
package memory

import (
	"context"
	"sync"
)

type DB struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewDB() *DB {
	return &DB{data: make(map[string]string)}
}

func (d *DB) Get(_ context.Context, key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, found := d.data[key]
	return value, found, nil
}

func (d *DB) Set(_ context.Context, key string, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[key] = value
	return nil
}

func (d *DB) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, key)
	return nil
}

func (d *DB) Clear(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = make(map[string]string)
	return nil
}

func (d *DB) Close() error {
	return nil
}
