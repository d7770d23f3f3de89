package services

import (
	"context"
	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memory.New())

	all, err := svc.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 14)
	for _, c := range all {
		assert.True(t, c.IsDefault)
	}

	expense, err := svc.List(ctx, 1, "expense")
	require.NoError(t, err)
	assert.Len(t, expense, 9)

	income, err := svc.List(ctx, 1, "INCOME")
	require.NoError(t, err)
	assert.Len(t, income, 5)

	// Seeding is idempotent.
	n, err := svc.EnsureDefaults(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.List(ctx, 1, "TRANSFER")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestListOrdersDefaultsFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memory.New())
	_, err := svc.EnsureDefaults(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Aardvark care"), Type: strPtr("EXPENSE")})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1, "EXPENSE")
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, "Aardvark care", list[9].Name)
	assert.Equal(t, "Bills & Utilities", list[0].Name)
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memory.New())

	created, err := svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr(" Pets "), Type: strPtr("EXPENSE")})
	require.NoError(t, err)
	assert.Equal(t, "Pets", created.Name)
	assert.Equal(t, DefaultCategoryColor, created.Color)
	assert.Equal(t, DefaultCategoryIcon, created.Icon)
	assert.False(t, created.IsDefault)

	_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Pets"), Type: strPtr("EXPENSE")})
	assert.ErrorIs(t, err, util.ErrConflict)

	// Same name, other type is fine.
	_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Pets"), Type: strPtr("INCOME")})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Pets")})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Gym"), Type: strPtr("EXPENSE"), Color: strPtr("blue")})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewCategoryService(store)
	_, err := svc.EnsureDefaults(ctx, 1)
	require.NoError(t, err)
	defaults, err := svc.List(ctx, 1, "EXPENSE")
	require.NoError(t, err)
	bills := defaults[0]

	t.Run("default categories keep their name", func(t *testing.T) {
		_, err := svc.Update(ctx, 1, bills.ID, models.CategoryRequest{Name: strPtr("Groceries")})
		assert.ErrorIs(t, err, util.ErrInvalidOperation)
	})

	t.Run("default categories can be recolored", func(t *testing.T) {
		updated, err := svc.Update(ctx, 1, bills.ID, models.CategoryRequest{Name: strPtr(bills.Name), Color: strPtr("#123456")})
		require.NoError(t, err)
		assert.Equal(t, "#123456", updated.Color)
	})

	t.Run("rename propagates to transactions", func(t *testing.T) {
		custom, err := svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Coffee"), Type: strPtr("EXPENSE")})
		require.NoError(t, err)
		addTxn(t, store, 1, models.TransactionTypeExpense, "Coffee", "3.50", fixedNow)

		renamed, err := svc.Update(ctx, 1, custom.ID, models.CategoryRequest{Name: strPtr("Cafe")})
		require.NoError(t, err)
		assert.Equal(t, "Cafe", renamed.Name)

		n, err := store.CountTransactionsByCategory(ctx, 1, "Cafe")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("rename onto an existing name conflicts", func(t *testing.T) {
		custom, err := svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Books"), Type: strPtr("EXPENSE")})
		require.NoError(t, err)
		_, err = svc.Update(ctx, 1, custom.ID, models.CategoryRequest{Name: strPtr("Travel")})
		assert.ErrorIs(t, err, util.ErrConflict)
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		_, err := svc.Update(ctx, 2, bills.ID, models.CategoryRequest{Color: strPtr("#000000")})
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewCategoryService(store)
	_, err := svc.EnsureDefaults(ctx, 1)
	require.NoError(t, err)
	defaults, err := svc.List(ctx, 1, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, 1, defaults[0].ID)
	assert.ErrorIs(t, err, util.ErrInvalidOperation)

	pets, err := svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Pets"), Type: strPtr("EXPENSE")})
	require.NoError(t, err)
	addTxn(t, store, 1, models.TransactionTypeExpense, "Pets", "20", fixedNow)
	addTxn(t, store, 1, models.TransactionTypeExpense, "Pets", "30", fixedNow)

	err = svc.Delete(ctx, 1, pets.ID)
	require.ErrorIs(t, err, util.ErrConflict)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Cannot delete category. It is used in 2 transaction(s)", appErr.Message)
	assert.Equal(t, map[string]int{"transactionCount": 2}, appErr.Details)

	empty, err := svc.Create(ctx, 1, models.CategoryRequest{Name: strPtr("Unused"), Type: strPtr("EXPENSE")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, empty.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, empty.ID), util.ErrNotFound)
}
