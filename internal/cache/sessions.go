package cache

import (
	"context"
	"time"
)

// SessionRevoker keeps the ids of logged-out sessions in Redis until they
// would have expired. Without a client nothing is revoked.
type SessionRevoker struct {
	store *Store
}

// NewSessionRevoker returns a revoker backed by store.
func NewSessionRevoker(store *Store) *SessionRevoker {
	return &SessionRevoker{store: store}
}

// Revoke records jti as logged out for ttl.
func (r *SessionRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !r.store.Enabled() {
		return nil
	}
	return r.store.client.Set(ctx, RevokedSessionKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti was logged out.
func (r *SessionRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.store.Enabled() {
		return false, nil
	}
	n, err := r.store.client.Exists(ctx, RevokedSessionKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
