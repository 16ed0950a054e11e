package state

import (
	"context"
	"sync"

	"github.com/savvy-app/savvy/client"
)

// LeaderboardSnapshot is a point-in-time copy of the leaderboard view state.
type LeaderboardSnapshot struct {
	Items     []client.LeaderboardEntry
	Loading   bool
	Err       string
	FromCache bool
}

// Leaderboard drives the savings leaderboard screen. Read-only.
type Leaderboard struct {
	mu        sync.Mutex
	svc       *client.LeaderboardService
	items     []client.LeaderboardEntry
	loading   bool
	err       string
	fromCache bool

	autoLoad  bool
	mountOnce sync.Once
	onChange  func()
}

func NewLeaderboard(svc *client.LeaderboardService, autoLoad bool) *Leaderboard {
	return &Leaderboard{svc: svc, autoLoad: autoLoad}
}

func (s *Leaderboard) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Leaderboard) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Leaderboard) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		if s.autoLoad {
			s.Load(ctx, true)
		}
	})
}

func (s *Leaderboard) Load(ctx context.Context, useCache bool) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	items, fromCache, err := s.svc.List(ctx, useCache)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to load leaderboard")
		s.items = nil
	} else {
		s.items = items
		s.fromCache = fromCache
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Leaderboard) Snapshot() LeaderboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]client.LeaderboardEntry, len(s.items))
	copy(items, s.items)
	return LeaderboardSnapshot{
		Items:     items,
		Loading:   s.loading,
		Err:       s.err,
		FromCache: s.fromCache,
	}
}
