package services

import (
	"context"
	"fintrack-server/src/models"
	"time"

	"github.com/shopspring/decimal"
)

// Store implementations translate missing rows into util.ErrNotFound and
// unique violations into util.ErrConflict.

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context, userID int64, kind models.TransactionType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	// CreateCategories inserts the given categories, skipping any that already
	// exist by user, name and type. It returns how many rows were inserted.
	CreateCategories(ctx context.Context, categories []models.Category) (int, error)
	// UpdateCategory saves category. When its name differs from previousName,
	// transactions of the same type and (for expense categories) budgets are
	// renamed in the same store transaction.
	UpdateCategory(ctx context.Context, category *models.Category, previousName string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error
	CountTransactionsByCategory(ctx context.Context, userID int64, name string) (int, error)
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

type BudgetRepository interface {
	// CreateBudget fails with util.ErrConflict when an overlapping budget
	// exists for the same user, category and period. The check and the
	// insert are atomic.
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, id int64) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int64, filter models.BudgetFilter) ([]models.Budget, error)
	// UpdateBudget applies the same overlap rule as CreateBudget, ignoring the budget itself.
	UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error
	SumTransactions(ctx context.Context, userID int64, q models.SumQuery) (decimal.Decimal, error)
}

type AnalyticsRepository interface {
	SumTransactions(ctx context.Context, userID int64, q models.SumQuery) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, userID int64, kind models.TransactionType, from, to time.Time) ([]models.CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error)
	DailyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.DayTotal, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	ExportTransactions(ctx context.Context, userID int64, from, to *time.Time) ([]models.Transaction, error)
	ListCategories(ctx context.Context, userID int64, kind models.TransactionType) ([]models.Category, error)
}

// Store is everything the services need from persistence.
type Store interface {
	UserRepository
	CategoryRepository
	TransactionRepository
	BudgetRepository
	AnalyticsRepository
}
