package services

import (
	"context"
	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixedNow is mid-month so week and month windows differ.
var fixedNow = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func addTxn(t *testing.T, store *memory.Store, userID int64, kind models.TransactionType, category, amount string, date time.Time) *models.Transaction {
	t.Helper()
	txn, err := store.CreateTransaction(context.Background(), &models.Transaction{
		UserID:   userID,
		Name:     category + " " + amount,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Type:     kind,
		Date:     date,
	})
	require.NoError(t, err)
	return txn
}
