package state

import (
	"context"
	"sync"

	"github.com/savvy-app/savvy/client"
)

// CategoriesSnapshot is a point-in-time copy of the categories view state.
type CategoriesSnapshot struct {
	Items     []client.Category
	Loading   bool
	Err       string
	FromCache bool
}

// Categories drives the category picker.
type Categories struct {
	mu        sync.Mutex
	svc       *client.CategoriesService
	items     []client.Category
	loading   bool
	err       string
	fromCache bool

	autoLoad  bool
	mountOnce sync.Once
	onChange  func()
}

func NewCategories(svc *client.CategoriesService, autoLoad bool) *Categories {
	return &Categories{svc: svc, autoLoad: autoLoad}
}

func (s *Categories) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Categories) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Categories) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		if s.autoLoad {
			s.Load(ctx, true)
		}
	})
}

// begin enters the loading state and clears the previous error. Every load
// and mutation opens with it, so observers always see the in-flight phase.
func (s *Categories) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Categories) Load(ctx context.Context, useCache bool) {
	s.begin()

	items, fromCache, err := s.svc.List(ctx, useCache)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to load categories")
		s.items = nil
	} else {
		s.items = items
		s.fromCache = fromCache
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Add creates a category and reloads the list past the cache. The loading
// state covers the whole round trip, not just the reload.
func (s *Categories) Add(ctx context.Context, create *client.CreateCategory) error {
	s.begin()
	if _, err := s.svc.Create(ctx, create); err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Failed to create category")
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.Load(ctx, false)
	return nil
}

func (s *Categories) Snapshot() CategoriesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]client.Category, len(s.items))
	copy(items, s.items)
	return CategoriesSnapshot{
		Items:     items,
		Loading:   s.loading,
		Err:       s.err,
		FromCache: s.fromCache,
	}
}
