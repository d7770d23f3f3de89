package services

import (
	"context"
	"errors"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	warningThreshold  = 80
	exceededThreshold = 100

	// spendingConcurrency bounds the per-budget spend queries issued by List.
	spendingConcurrency = 4
)

var hundred = decimal.NewFromInt(100)

type BudgetService struct {
	repo BudgetRepository
	now  func() time.Time
}

func NewBudgetService(repo BudgetRepository) *BudgetService {
	return &BudgetService{repo: repo, now: time.Now}
}

// Reconcile decorates a budget with the amount spent against it.
func Reconcile(b models.Budget, spent decimal.Decimal) models.BudgetWithSpending {
	percentage := decimal.Zero
	if b.Amount.IsPositive() {
		percentage = spent.Div(b.Amount).Mul(hundred).Round(2)
	}

	status := models.BudgetStatusGood
	switch {
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(exceededThreshold)):
		status = models.BudgetStatusExceeded
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(warningThreshold)):
		status = models.BudgetStatusWarning
	}

	return models.BudgetWithSpending{
		Budget:     b,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
		Percentage: percentage,
		Status:     status,
	}
}

func (s *BudgetService) Create(ctx context.Context, userID int64, req models.BudgetRequest) (*models.BudgetWithSpending, error) {
	if isBlank(req.Category) || req.Amount == nil || isBlank(req.Period) || isBlank(req.StartDate) || isBlank(req.EndDate) {
		return nil, util.Validation("Category, amount, period, start date, and end date are required")
	}

	budget := &models.Budget{UserID: userID}
	if err := applyBudgetRequest(budget, req); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateBudget(ctx, budget)
	if errors.Is(err, util.ErrConflict) {
		return nil, util.Conflict("Budget already exists for this category and period")
	}
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, *created)
}

// List returns the user's budgets with spending, newest start first.
// When active is "true" only budgets covering the current instant are kept.
func (s *BudgetService) List(ctx context.Context, userID int64, period, active string) ([]models.BudgetWithSpending, error) {
	var filter models.BudgetFilter
	if period != "" {
		p := models.BudgetPeriod(strings.ToLower(period))
		if !p.Valid() {
			return nil, util.Validation("Period must be weekly, monthly, or yearly")
		}
		filter.Period = p
	}
	if active == "true" {
		now := s.now().UTC()
		filter.ActiveAt = &now
	}

	budgets, err := s.repo.ListBudgets(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	result := make([]models.BudgetWithSpending, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spendingConcurrency)
	for i, b := range budgets {
		i, b := i, b
		g.Go(func() error {
			decorated, err := s.decorate(gctx, b)
			if err != nil {
				return err
			}
			result[i] = *decorated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id int64) (*models.BudgetWithSpending, error) {
	budget, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, *budget)
}

// Update applies the fields present in req and re-checks overlap.
func (s *BudgetService) Update(ctx context.Context, userID, id int64, req models.BudgetRequest) (*models.BudgetWithSpending, error) {
	existing, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if err := applyBudgetRequest(&updated, req); err != nil {
		return nil, err
	}

	saved, err := s.repo.UpdateBudget(ctx, &updated)
	switch {
	case errors.Is(err, util.ErrConflict):
		return nil, util.Conflict("Budget already exists for this category and period")
	case errors.Is(err, util.ErrNotFound):
		return nil, util.NotFound("Budget not found")
	case err != nil:
		return nil, err
	}
	return s.decorate(ctx, *saved)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.DeleteBudget(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return util.NotFound("Budget not found")
	}
	return err
}

func (s *BudgetService) get(ctx context.Context, userID, id int64) (*models.Budget, error) {
	budget, err := s.repo.GetBudgetByID(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.NotFound("Budget not found")
	}
	return budget, err
}

func (s *BudgetService) decorate(ctx context.Context, b models.Budget) (*models.BudgetWithSpending, error) {
	spent, err := s.repo.SumTransactions(ctx, b.UserID, models.SumQuery{
		Type:     models.TransactionTypeExpense,
		Category: b.Category,
		From:     &b.StartDate,
		To:       &b.EndDate,
	})
	if err != nil {
		return nil, err
	}
	decorated := Reconcile(b, spent)
	return &decorated, nil
}

func applyBudgetRequest(b *models.Budget, req models.BudgetRequest) error {
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return util.Validation("Category is required")
		}
		b.Category = category
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return util.Validation("Amount must be a positive number")
		}
		b.Amount = req.Amount.Round(2)
	}
	if req.Period != nil {
		p := models.BudgetPeriod(strings.ToLower(strings.TrimSpace(*req.Period)))
		if !p.Valid() {
			return util.Validation("Period must be weekly, monthly, or yearly")
		}
		b.Period = p
	}
	if req.StartDate != nil {
		start, _, err := util.ParseDate(*req.StartDate)
		if err != nil {
			return err
		}
		b.StartDate = start
	}
	if req.EndDate != nil {
		end, err := util.ParseRangeEnd(*req.EndDate)
		if err != nil {
			return err
		}
		b.EndDate = end
	}
	if b.EndDate.Before(b.StartDate) {
		return util.Validation("End date must be on or after start date")
	}
	return nil
}
