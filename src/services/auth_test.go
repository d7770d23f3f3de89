package services

import (
	"context"
	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mapCache map[int64]*models.User

func (c mapCache) Get(id int64) (*models.User, bool) {
	u, ok := c[id]
	return u, ok
}

func (c mapCache) Set(u *models.User) { c[u.ID] = u }

func newAuthService(store *memory.Store, cache IdentityCache) (*AuthService, *util.TokenIssuer) {
	tokens := util.NewTokenIssuer("test-secret", "fintrack-test", time.Hour)
	return NewAuthService(store, NewCategoryService(store), tokens, cache, bcrypt.MinCost), tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc, tokens := newAuthService(store, nil)

	resp, err := svc.Register(ctx, models.RegisterRequest{Email: " Ada@Example.com ", Name: "Ada", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	categories, err := store.ListCategories(ctx, resp.User.ID, "")
	require.NoError(t, err)
	assert.Len(t, categories, len(DefaultCatalog))

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Name: "Ada", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrConflict)

	invalid := []models.RegisterRequest{
		{Email: "", Name: "Ada", Password: "secret1"},
		{Email: "not-an-email", Name: "Ada", Password: "secret1"},
		{Email: "bob@example.com", Name: "Bob", Password: "short"},
	}
	for _, req := range invalid {
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, util.ErrValidation, req.Email)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(memory.New(), nil)
	registered, err := svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Name: "Ada", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cache := mapCache{}
	svc, _ := newAuthService(store, cache)

	resp, err := svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Name: "Ada", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.ResolveUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Contains(t, cache, resp.User.ID)

	// A cached identity is served without touching the store.
	cache[999] = &models.User{ID: 999, Name: "Ghost"}
	ghost, err := svc.ResolveUser(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, "Ghost", ghost.Name)

	_, err = svc.ResolveUser(ctx, 12345)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = svc.Profile(ctx, 12345)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
