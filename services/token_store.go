package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/el-ostaa/ostaa-api/cache"
)

const revokedTokenKeyPrefix = "revoked:session:"

// TokenStore remembers revoked session tokens until they would have expired
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenStore keeps revocations in Redis so every instance sees them
type RedisTokenStore struct {
	cache *cache.Client
}

// NewRedisTokenStore creates a Redis-backed token store
func NewRedisTokenStore(c *cache.Client) *RedisTokenStore {
	return &RedisTokenStore{cache: c}
}

// Revoke marks the token as logged out. A failed write is returned so the
// caller does not report a logout that never took effect.
func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationFailed, err)
	}
	return nil
}

// IsRevoked reports whether the token was logged out. Redis outages read
// as not revoked.
func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}

// MemoryTokenStore keeps revocations in process memory
type MemoryTokenStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

// NewMemoryTokenStore creates an in-memory token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{revoked: make(map[string]time.Time)}
}

// Revoke marks the token as logged out until ttl elapses
func (s *MemoryTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether the token is still on the revocation list
func (s *MemoryTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

var (
	tokenStoreInstance TokenStore = NewMemoryTokenStore()
	tokenStoreMu       sync.RWMutex
)

// GetTokenStore returns the active token store
func GetTokenStore() TokenStore {
	tokenStoreMu.RLock()
	defer tokenStoreMu.RUnlock()
	return tokenStoreInstance
}

// SetTokenStore replaces the active token store
func SetTokenStore(store TokenStore) {
	tokenStoreMu.Lock()
	defer tokenStoreMu.Unlock()
	tokenStoreInstance = store
}
