// Package session keeps the ids of signed-out tokens until they would have expired anyway.
package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Revocations struct {
	cache *expirable.LRU[string, struct{}]
}

// NewRevocations keeps every revoked token id for ttl. ttl should be the session lifetime:
// entries leave only by expiry, never by eviction, so a revoked token stays rejected
// until it is dead anyway.
func NewRevocations(ttl time.Duration) *Revocations {
	// size 0: unbounded
	return &Revocations{cache: expirable.NewLRU[string, struct{}](0, nil, ttl)}
}

func (r *Revocations) Revoke(tokenID string) {
	if tokenID == "" {
		return
	}
	r.cache.Add(tokenID, struct{}{})
}

func (r *Revocations) IsRevoked(tokenID string) bool {
	return r.cache.Contains(tokenID)
}

func (r *Revocations) Len() int { return r.cache.Len() }
