package state

import (
	"context"
	"sync"

	"github.com/savvy-app/savvy/client"
)

// ProfileSnapshot is a point-in-time copy of the profile view state.
type ProfileSnapshot struct {
	User      *client.User
	Loading   bool
	Err       string
	FromCache bool
}

// Profile drives the profile screen.
type Profile struct {
	mu        sync.Mutex
	svc       *client.ProfileService
	user      *client.User
	loading   bool
	err       string
	fromCache bool

	autoLoad  bool
	mountOnce sync.Once
	onChange  func()
}

func NewProfile(svc *client.ProfileService, autoLoad bool) *Profile {
	return &Profile{svc: svc, autoLoad: autoLoad}
}

func (s *Profile) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Profile) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Profile) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		if s.autoLoad {
			s.Load(ctx)
		}
	})
}

// Load fetches the profile, preferring the persisted user slot.
func (s *Profile) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	user, fromCache, err := s.svc.Get(ctx)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to load profile")
		s.user = nil
	} else {
		s.user = user
		s.fromCache = fromCache
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Update applies a partial profile update; the service persists the returned
// record, so the fresh state comes straight from the response.
func (s *Profile) Update(ctx context.Context, update *client.UpdateProfile) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	user, err := s.svc.Update(ctx, update)

	s.mu.Lock()
	if err != nil {
		s.err = errorMessage(err, "Failed to update profile")
	} else {
		s.user = user
		s.fromCache = false
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return err
}

func (s *Profile) Snapshot() ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var user *client.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return ProfileSnapshot{
		User:      user,
		Loading:   s.loading,
		Err:       s.err,
		FromCache: s.fromCache,
	}
}
