package services

import (
	"context"
	"errors"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// TransactionQuery holds the raw list parameters as received.
type TransactionQuery struct {
	Page      string
	Limit     string
	Type      string
	Category  string
	Search    string
	StartDate string
	EndDate   string
}

type TransactionService struct {
	repo TransactionRepository
	now  func() time.Time
}

func NewTransactionService(repo TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo, now: time.Now}
}

func (s *TransactionService) Create(ctx context.Context, userID int64, req models.TransactionRequest) (*models.Transaction, error) {
	if isBlank(req.Name) || req.Amount == nil || isBlank(req.Category) || isBlank(req.Type) {
		return nil, util.Validation("Name, amount, category, and type are required")
	}

	txn := &models.Transaction{UserID: userID, Date: s.now().UTC()}
	if err := applyTransactionRequest(txn, req); err != nil {
		return nil, err
	}
	return s.repo.CreateTransaction(ctx, txn)
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	txn, err := s.repo.GetTransactionByID(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.NotFound("Transaction not found")
	}
	return txn, err
}

// List returns one page of the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID int64, q TransactionQuery) (*models.TransactionPage, error) {
	page, err := parsePositiveInt(q.Page, 1, "Page")
	if err != nil {
		return nil, err
	}
	limit, err := parsePositiveInt(q.Limit, DefaultPageLimit, "Limit")
	if err != nil {
		return nil, err
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := models.TransactionFilter{
		Category: strings.TrimSpace(q.Category),
		Search:   strings.TrimSpace(q.Search),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	if filter.Type, err = parseType(q.Type); err != nil {
		return nil, err
	}
	if q.StartDate != "" {
		start, _, err := util.ParseDate(q.StartDate)
		if err != nil {
			return nil, err
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := util.ParseRangeEnd(q.EndDate)
		if err != nil {
			return nil, err
		}
		filter.EndDate = &end
	}

	var (
		txns  []models.Transaction
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.repo.ListTransactions(gctx, userID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountTransactions(gctx, userID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if txns == nil {
		txns = []models.Transaction{}
	}
	return &models.TransactionPage{
		Transactions: txns,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// Update applies the fields present in req.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, req models.TransactionRequest) (*models.Transaction, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if err := applyTransactionRequest(&updated, req); err != nil {
		return nil, err
	}

	saved, err := s.repo.UpdateTransaction(ctx, &updated)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.NotFound("Transaction not found")
	}
	return saved, err
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.DeleteTransaction(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return util.NotFound("Transaction not found")
	}
	return err
}

func applyTransactionRequest(txn *models.Transaction, req models.TransactionRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !util.ValidateName(name) {
			return util.Validation("Name must be between 1 and 100 characters")
		}
		txn.Name = name
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return util.Validation("Amount must be a positive number")
		}
		txn.Amount = req.Amount.Round(2)
	}
	if req.Type != nil {
		t, err := parseType(*req.Type)
		if err != nil {
			return err
		}
		if t == "" {
			return util.Validation("Type must be either INCOME or EXPENSE")
		}
		txn.Type = t
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return util.Validation("Category is required")
		}
		txn.Category = category
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			txn.Description = &d
		} else {
			txn.Description = nil
		}
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date, _, err := util.ParseDate(*req.Date)
		if err != nil {
			return err
		}
		txn.Date = date
	}
	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func parsePositiveInt(s string, fallback int, field string) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, util.Validation("%s must be a positive integer", field)
	}
	return n, nil
}
