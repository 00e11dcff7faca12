package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/certmint/certmint/ports"
)

// MemoryStore is an in-memory implementation of the TokenStore interface
type MemoryStore struct {
	invalidated map[string]time.Time
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory token store
func NewMemoryStore() ports.TokenStore {
	return &MemoryStore{
		invalidated: make(map[string]time.Time),
	}
}

// InvalidateToken marks a token as invalidated
func (s *MemoryStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidated[tokenID] = time.Now().Add(expiry)
	return nil
}

// IsTokenInvalidated checks if a token is invalidated
func (s *MemoryStore) IsTokenInvalidated(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiryTime, exists := s.invalidated[tokenID]
	if !exists {
		return false, nil
	}

	// Invalidation records lapse with the token itself
	if time.Now().After(expiryTime) {
		return false, nil
	}

	return true, nil
}
