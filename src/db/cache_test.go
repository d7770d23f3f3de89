package db

import (
	"fintrack-server/src/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityCache(t *testing.T) {
	cache, err := NewIdentityCache(time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Get(1)
	assert.False(t, ok)

	cache.Set(&models.User{ID: 1, Email: "jane@example.com"})
	cache.Wait()

	user, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestIdentityCacheExpires(t *testing.T) {
	cache, err := NewIdentityCache(50 * time.Millisecond)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set(&models.User{ID: 2})
	cache.Wait()

	assert.Eventually(t, func() bool {
		_, ok := cache.Get(2)
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
