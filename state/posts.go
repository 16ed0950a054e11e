package state

import (
	"context"
	"sync"

	"github.com/savvy-app/savvy/client"
)

// PostsSnapshot is a point-in-time copy of the blog feed view state.
type PostsSnapshot struct {
	Items     []client.Post
	Loading   bool
	Err       string
	FromCache bool
}

// Posts drives the blog feed screen.
type Posts struct {
	mu        sync.Mutex
	svc       *client.PostsService
	items     []client.Post
	loading   bool
	err       string
	fromCache bool

	autoLoad  bool
	mountOnce sync.Once
	onChange  func()
}

func NewPosts(svc *client.PostsService, autoLoad bool) *Posts {
	return &Posts{svc: svc, autoLoad: autoLoad}
}

func (s *Posts) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Posts) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Posts) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		if s.autoLoad {
			s.Load(ctx, true)
		}
	})
}

// begin enters the loading state and clears the previous error. Every load
// and mutation opens with it, so observers always see the in-flight phase.
func (s *Posts) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Posts) Load(ctx context.Context, useCache bool) {
	s.begin()

	items, fromCache, err := s.svc.List(ctx, useCache)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to load posts")
		s.items = nil
	} else {
		s.items = items
		s.fromCache = fromCache
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Add publishes a post and reloads the feed past the cache. The loading
// state covers the whole round trip, not just the reload.
func (s *Posts) Add(ctx context.Context, create *client.CreatePost) error {
	s.begin()
	if _, err := s.svc.Create(ctx, create); err != nil {
		s.setError(errorMessage(err, "Failed to create post"))
		return err
	}
	s.Load(ctx, false)
	return nil
}

// Like likes a post and reloads the feed past the cache.
func (s *Posts) Like(ctx context.Context, id string) error {
	s.begin()
	if err := s.svc.Like(ctx, id); err != nil {
		s.setError(errorMessage(err, "Failed to like post"))
		return err
	}
	s.Load(ctx, false)
	return nil
}

// Comment adds a comment and reloads the feed past the cache.
func (s *Posts) Comment(ctx context.Context, id, content string) error {
	s.begin()
	if _, err := s.svc.AddComment(ctx, id, content); err != nil {
		s.setError(errorMessage(err, "Failed to comment"))
		return err
	}
	s.Load(ctx, false)
	return nil
}

func (s *Posts) setError(message string) {
	s.mu.Lock()
	s.err = message
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Posts) Snapshot() PostsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]client.Post, len(s.items))
	copy(items, s.items)
	return PostsSnapshot{
		Items:     items,
		Loading:   s.loading,
		Err:       s.err,
		FromCache: s.fromCache,
	}
}
