package db

import (
	"fintrack-server/src/models"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// IdentityCache holds users resolved by the auth middleware for a short TTL.
// Domain data is never cached.
type IdentityCache struct {
	cache *ristretto.Cache[int64, *models.User]
	ttl   time.Duration
}

func NewIdentityCache(ttl time.Duration) (*IdentityCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[int64, *models.User]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     1000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity cache: %w", err)
	}
	return &IdentityCache{cache: cache, ttl: ttl}, nil
}

func (c *IdentityCache) Get(userID int64) (*models.User, bool) {
	return c.cache.Get(userID)
}

func (c *IdentityCache) Set(user *models.User) {
	c.cache.SetWithTTL(user.ID, user, 1, c.ttl)
}

// Wait blocks until pending writes are visible to Get.
func (c *IdentityCache) Wait() {
	c.cache.Wait()
}

func (c *IdentityCache) Close() {
	c.cache.Close()
}
