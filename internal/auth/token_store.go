package auth

import (
	"context"
	"time"

	"pizzeria/internal/cache"
)

const revokedKeyPrefix = "revoked:"

// TokenStoreInterface records revoked access tokens by their jti.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked token IDs in redis until the tokens would have expired anyway.
// Revocation fails when redis is unavailable; lookups then read as "not revoked".
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken marks tokenID as revoked for ttl. A non-positive ttl means the
// token is already dead and nothing is stored.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl)
}

// IsTokenRevoked reports whether tokenID was revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revokedKeyPrefix+tokenID), nil
}
