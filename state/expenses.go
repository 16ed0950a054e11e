package state

import (
	"context"
	"sync"

	"github.com/savvy-app/savvy/client"
)

// ExpensesSnapshot is a point-in-time copy of the expenses view state.
type ExpensesSnapshot struct {
	Items     []client.Expense
	Loading   bool
	Err       string
	FromCache bool
}

// Expenses drives the expenses screen.
type Expenses struct {
	mu        sync.Mutex
	svc       *client.ExpensesService
	items     []client.Expense
	loading   bool
	err       string
	fromCache bool

	autoLoad  bool
	mountOnce sync.Once
	onChange  func()
}

// NewExpenses creates the container. With autoLoad, the first Mount triggers
// a cached load.
func NewExpenses(svc *client.ExpensesService, autoLoad bool) *Expenses {
	return &Expenses{svc: svc, autoLoad: autoLoad}
}

// OnChange registers a callback fired after every state transition.
func (s *Expenses) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Expenses) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Mount runs the initial load once. Subsequent calls are no-ops.
func (s *Expenses) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		if s.autoLoad {
			s.Load(ctx, true)
		}
	})
}

// begin enters the loading state and clears the previous error. Every load
// and mutation opens with it, so observers always see the in-flight phase.
func (s *Expenses) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// Load fetches the expenses, optionally through the cache. On error the
// items reset to empty and the message lands in Err.
func (s *Expenses) Load(ctx context.Context, useCache bool) {
	s.begin()

	items, fromCache, err := s.svc.List(ctx, useCache)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to load expenses")
		s.items = nil
	} else {
		s.items = items
		s.fromCache = fromCache
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Add creates an expense and reloads the list past the cache. The loading
// state covers the whole round trip, not just the reload.
func (s *Expenses) Add(ctx context.Context, create *client.CreateExpense) error {
	s.begin()
	if _, err := s.svc.Create(ctx, create); err != nil {
		s.setError(errorMessage(err, "Failed to create expense"))
		return err
	}
	s.Load(ctx, false)
	return nil
}

// Remove deletes an expense and reloads the list past the cache.
func (s *Expenses) Remove(ctx context.Context, id string) error {
	s.begin()
	if err := s.svc.Delete(ctx, id); err != nil {
		s.setError(errorMessage(err, "Failed to delete expense"))
		return err
	}
	s.Load(ctx, false)
	return nil
}

func (s *Expenses) setError(message string) {
	s.mu.Lock()
	s.err = message
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current state.
func (s *Expenses) Snapshot() ExpensesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]client.Expense, len(s.items))
	copy(items, s.items)
	return ExpensesSnapshot{
		Items:     items,
		Loading:   s.loading,
		Err:       s.err,
		FromCache: s.fromCache,
	}
}
