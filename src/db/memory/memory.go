// Package memory is a process-local store used by tests and the memory backend.
package memory

import (
	"context"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu           sync.RWMutex
	nextID       int64
	users        map[int64]models.User
	categories   map[int64]models.Category
	transactions map[int64]models.Transaction
	budgets      map[int64]models.Budget
	now          func() time.Time
}

func New() *Store {
	return &Store{
		users:        make(map[int64]models.User),
		categories:   make(map[int64]models.Category),
		transactions: make(map[int64]models.Transaction),
		budgets:      make(map[int64]models.Budget),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, fmt.Errorf("email %s: %w", user.Email, util.ErrConflict)
		}
	}
	u := *user
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, util.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, util.ErrNotFound)
}

// Categories

func (s *Store) ListCategories(_ context.Context, userID int64, kind models.TransactionType) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.UserID == userID && (kind == "" || c.Type == kind) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (s *Store) GetCategoryByID(_ context.Context, userID, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("category %d: %w", id, util.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) categoryExists(userID int64, name string, kind models.TransactionType, exceptID int64) bool {
	for _, c := range s.categories {
		if c.UserID == userID && c.Name == name && c.Type == kind && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(_ context.Context, category *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryExists(category.UserID, category.Name, category.Type, 0) {
		return nil, fmt.Errorf("category %s: %w", category.Name, util.ErrConflict)
	}
	c := *category
	c.ID = s.id()
	c.CreatedAt = s.now()
	s.categories[c.ID] = c
	return &c, nil
}

func (s *Store) CreateCategories(_ context.Context, categories []models.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, c := range categories {
		if s.categoryExists(c.UserID, c.Name, c.Type, 0) {
			continue
		}
		c.ID = s.id()
		c.CreatedAt = s.now()
		s.categories[c.ID] = c
		inserted++
	}
	return inserted, nil
}

func (s *Store) UpdateCategory(_ context.Context, category *models.Category, previousName string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return nil, fmt.Errorf("category %d: %w", category.ID, util.ErrNotFound)
	}
	if s.categoryExists(category.UserID, category.Name, existing.Type, category.ID) {
		return nil, fmt.Errorf("category %s: %w", category.Name, util.ErrConflict)
	}

	c := existing
	c.Name = category.Name
	c.Color = category.Color
	c.Icon = category.Icon
	s.categories[c.ID] = c

	if previousName != c.Name {
		now := s.now()
		for id, t := range s.transactions {
			if t.UserID == c.UserID && t.Category == previousName && t.Type == c.Type {
				t.Category = c.Name
				t.UpdatedAt = now
				s.transactions[id] = t
			}
		}
		if c.Type == models.TransactionTypeExpense {
			for id, b := range s.budgets {
				if b.UserID == c.UserID && b.Category == previousName {
					b.Category = c.Name
					b.UpdatedAt = now
					s.budgets[id] = b
				}
			}
		}
	}
	return &c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("category %d: %w", id, util.ErrNotFound)
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CountTransactionsByCategory(_ context.Context, userID int64, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.transactions {
		if t.UserID == userID && t.Category == name {
			n++
		}
	}
	return n, nil
}

// Transactions

func cloneTransaction(t models.Transaction) models.Transaction {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

func (s *Store) CreateTransaction(_ context.Context, txn *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := cloneTransaction(*txn)
	t.ID = s.id()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.transactions[t.ID] = t
	out := cloneTransaction(t)
	return &out, nil
}

func (s *Store) GetTransactionByID(_ context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("transaction %d: %w", id, util.ErrNotFound)
	}
	out := cloneTransaction(t)
	return &out, nil
}

func matchesFilter(t models.Transaction, f models.TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inName := strings.Contains(strings.ToLower(t.Name), needle)
		inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
		if !inName && !inDesc {
			return false
		}
	}
	return true
}

// sortNewestFirst orders by date then id, both descending.
func sortNewestFirst(txns []models.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].ID > txns[j].ID
	})
}

func (s *Store) filtered(userID int64, f models.TransactionFilter) []models.Transaction {
	var out []models.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID && matchesFilter(t, f) {
			out = append(out, cloneTransaction(t))
		}
	}
	sortNewestFirst(out)
	return out
}

func (s *Store) ListTransactions(_ context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.filtered(userID, filter)
	if filter.Offset >= len(all) {
		return []models.Transaction{}, nil
	}
	end := len(all)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return all[filter.Offset:end], nil
}

func (s *Store) CountTransactions(_ context.Context, userID int64, filter models.TransactionFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filtered(userID, filter)), nil
}

func (s *Store) UpdateTransaction(_ context.Context, txn *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[txn.ID]
	if !ok || existing.UserID != txn.UserID {
		return nil, fmt.Errorf("transaction %d: %w", txn.ID, util.ErrNotFound)
	}
	t := cloneTransaction(*txn)
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	s.transactions[t.ID] = t
	out := cloneTransaction(t)
	return &out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("transaction %d: %w", id, util.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

// Budgets

func (s *Store) overlaps(b models.Budget) bool {
	for _, existing := range s.budgets {
		if existing.ID == b.ID || existing.UserID != b.UserID {
			continue
		}
		if existing.Category == b.Category && existing.Period == b.Period &&
			!existing.StartDate.After(b.EndDate) && !existing.EndDate.Before(b.StartDate) {
			return true
		}
	}
	return false
}

func (s *Store) CreateBudget(_ context.Context, budget *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlaps(*budget) {
		return nil, fmt.Errorf("budget %s/%s: %w", budget.Category, budget.Period, util.ErrConflict)
	}
	b := *budget
	b.ID = s.id()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.budgets[b.ID] = b
	return &b, nil
}

func (s *Store) GetBudgetByID(_ context.Context, userID, id int64) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, fmt.Errorf("budget %d: %w", id, util.ErrNotFound)
	}
	return &b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64, filter models.BudgetFilter) ([]models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Budget
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if filter.Period != "" && b.Period != filter.Period {
			continue
		}
		if filter.ActiveAt != nil && (b.StartDate.After(*filter.ActiveAt) || b.EndDate.Before(*filter.ActiveAt)) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, budget *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, fmt.Errorf("budget %d: %w", budget.ID, util.ErrNotFound)
	}
	if s.overlaps(*budget) {
		return nil, fmt.Errorf("budget %s/%s: %w", budget.Category, budget.Period, util.ErrConflict)
	}
	b := *budget
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = s.now()
	s.budgets[b.ID] = b
	return &b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return fmt.Errorf("budget %d: %w", id, util.ErrNotFound)
	}
	delete(s.budgets, id)
	return nil
}

// Aggregates

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (s *Store) SumTransactions(_ context.Context, userID int64, q models.SumQuery) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range s.transactions {
		if t.UserID != userID || (q.Type != "" && t.Type != q.Type) {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if inRange(t.Date, q.From, q.To) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (s *Store) SumByCategory(_ context.Context, userID int64, kind models.TransactionType, from, to time.Time) ([]models.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := map[string]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.UserID == userID && t.Type == kind && inRange(t.Date, &from, &to) {
			sums[t.Category] = sums[t.Category].Add(t.Amount)
		}
	}
	out := make([]models.CategoryTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, models.CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) MonthlyTotals(_ context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct {
		month time.Time
		kind  models.TransactionType
	}
	sums := map[key]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.UserID == userID && inRange(t.Date, &from, &to) {
			k := key{util.StartOfMonth(t.Date), t.Type}
			sums[k] = sums[k].Add(t.Amount)
		}
	}
	out := make([]models.MonthTypeTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, models.MonthTypeTotal{Month: k.month, Type: k.kind, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (s *Store) DailyTotals(_ context.Context, userID int64, from, to time.Time) ([]models.DayTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := map[time.Time]*models.DayTotal{}
	for _, t := range s.transactions {
		if t.UserID != userID || !inRange(t.Date, &from, &to) {
			continue
		}
		day := util.StartOfDay(t.Date)
		d, ok := days[day]
		if !ok {
			d = &models.DayTotal{Day: day, Income: decimal.Zero, Expenses: decimal.Zero}
			days[day] = d
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			d.Income = d.Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			d.Expenses = d.Expenses.Add(t.Amount)
		}
	}
	out := make([]models.DayTotal, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (s *Store) RecentTransactions(_ context.Context, userID int64, limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.filtered(userID, models.TransactionFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) ExportTransactions(_ context.Context, userID int64, from, to *time.Time) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered(userID, models.TransactionFilter{StartDate: from, EndDate: to}), nil
}
