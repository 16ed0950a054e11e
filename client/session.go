package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/savvy-app/savvy/store"
)

// Session holds the per-install state the client attaches to requests: the
// bearer token, the current user record and the device identifier. It is an
// explicit object rather than ambient storage lookups so the client stays
// testable without a real on-device store.
//
// No authentication protocol lives here; the token slot is written by
// whatever obtains a token and merely forwarded on requests.
type Session struct {
	store *store.Store
}

func NewSession(s *store.Store) *Session {
	return &Session{store: s}
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Session) Token(ctx context.Context) string {
	var token string
	if !s.store.Get(ctx, store.AuthTokenKey, &token) {
		return ""
	}
	return token
}

func (s *Session) SetToken(ctx context.Context, token string) bool {
	return s.store.Set(ctx, store.AuthTokenKey, token)
}

func (s *Session) ClearToken(ctx context.Context) bool {
	return s.store.Delete(ctx, store.AuthTokenKey)
}

// User returns the persisted current-user record, or nil when absent.
func (s *Session) User(ctx context.Context) *User {
	var user User
	if !s.store.Get(ctx, store.UserDataKey, &user) {
		return nil
	}
	return &user
}

func (s *Session) SetUser(ctx context.Context, user *User) bool {
	return s.store.Set(ctx, store.UserDataKey, user)
}

// DeviceID returns the install identifier, generating and persisting one on
// first use. A store failure degrades to a fresh throwaway id.
func (s *Session) DeviceID(ctx context.Context) string {
	var id string
	if s.store.Get(ctx, store.DeviceIDKey, &id) && id != "" {
		return id
	}
	id = uuid.NewString()
	s.store.Set(ctx, store.DeviceIDKey, id)
	return id
}
