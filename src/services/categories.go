package services

import (
	"context"
	"errors"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"fmt"
	"strings"
)

const (
	DefaultCategoryColor = "#BDC3C7"
	DefaultCategoryIcon  = "📦"
)

// DefaultCatalog is seeded for every user.
var DefaultCatalog = []models.Category{
	{Name: "Food & Dining", Type: models.TransactionTypeExpense, Color: "#FF6B6B", Icon: "🍽️"},
	{Name: "Transportation", Type: models.TransactionTypeExpense, Color: "#4ECDC4", Icon: "🚗"},
	{Name: "Shopping", Type: models.TransactionTypeExpense, Color: "#45B7D1", Icon: "🛍️"},
	{Name: "Entertainment", Type: models.TransactionTypeExpense, Color: "#96CEB4", Icon: "🎬"},
	{Name: "Bills & Utilities", Type: models.TransactionTypeExpense, Color: "#FFEAA7", Icon: "💡"},
	{Name: "Healthcare", Type: models.TransactionTypeExpense, Color: "#DDA0DD", Icon: "🏥"},
	{Name: "Education", Type: models.TransactionTypeExpense, Color: "#98D8C8", Icon: "📚"},
	{Name: "Travel", Type: models.TransactionTypeExpense, Color: "#F7DC6F", Icon: "✈️"},
	{Name: "Other", Type: models.TransactionTypeExpense, Color: "#BDC3C7", Icon: "📦"},
	{Name: "Salary", Type: models.TransactionTypeIncome, Color: "#2ECC71", Icon: "💰"},
	{Name: "Freelance", Type: models.TransactionTypeIncome, Color: "#3498DB", Icon: "💻"},
	{Name: "Investment", Type: models.TransactionTypeIncome, Color: "#9B59B6", Icon: "📈"},
	{Name: "Gift", Type: models.TransactionTypeIncome, Color: "#E74C3C", Icon: "🎁"},
	{Name: "Other Income", Type: models.TransactionTypeIncome, Color: "#1ABC9C", Icon: "💵"},
}

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// parseType accepts an empty string as "any type".
func parseType(s string) (models.TransactionType, error) {
	if s == "" {
		return "", nil
	}
	t := models.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", util.Validation("Type must be either INCOME or EXPENSE")
	}
	return t, nil
}

// EnsureDefaults inserts the default catalog for userID, skipping entries the
// user already has.
func (s *CategoryService) EnsureDefaults(ctx context.Context, userID int64) (int, error) {
	catalog := make([]models.Category, len(DefaultCatalog))
	for i, c := range DefaultCatalog {
		c.UserID = userID
		c.IsDefault = true
		catalog[i] = c
	}
	return s.repo.CreateCategories(ctx, catalog)
}

// List returns the user's categories default-first, then by name. An empty
// listing triggers the default catalog before listing again.
func (s *CategoryService) List(ctx context.Context, userID int64, kind string) ([]models.Category, error) {
	t, err := parseType(kind)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}
	if _, err := s.EnsureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	categories, err = s.repo.ListCategories(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, userID int64, req models.CategoryRequest) (*models.Category, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Type == nil || *req.Type == "" {
		return nil, util.Validation("Name and type are required")
	}
	t, err := parseType(*req.Type)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(*req.Name)
	if !util.ValidateName(name) {
		return nil, util.Validation("Name must be between 1 and 100 characters")
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   t,
		Color:  DefaultCategoryColor,
		Icon:   DefaultCategoryIcon,
	}
	if err := applyAppearance(category, req); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if errors.Is(err, util.ErrConflict) {
		return nil, util.Conflict("Category with this name already exists")
	}
	return created, err
}

func (s *CategoryService) Update(ctx context.Context, userID, id int64, req models.CategoryRequest) (*models.Category, error) {
	existing, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			if existing.IsDefault {
				return nil, util.InvalidOperation("Cannot change name of default categories")
			}
			if !util.ValidateName(name) {
				return nil, util.Validation("Name must be between 1 and 100 characters")
			}
			updated.Name = name
		}
	}
	if err := applyAppearance(&updated, req); err != nil {
		return nil, err
	}

	saved, err := s.repo.UpdateCategory(ctx, &updated, existing.Name)
	switch {
	case errors.Is(err, util.ErrConflict):
		return nil, util.Conflict("Category with this name already exists")
	case errors.Is(err, util.ErrNotFound):
		return nil, util.NotFound("Category not found")
	}
	return saved, err
}

func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return util.InvalidOperation("Cannot delete default categories")
	}

	count, err := s.repo.CountTransactionsByCategory(ctx, userID, existing.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return &util.AppError{
			Kind:    util.ErrConflict,
			Message: fmt.Sprintf("Cannot delete category. It is used in %d transaction(s)", count),
			Details: map[string]int{"transactionCount": count},
		}
	}

	err = s.repo.DeleteCategory(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return util.NotFound("Category not found")
	}
	return err
}

func (s *CategoryService) get(ctx context.Context, userID, id int64) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, userID, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.NotFound("Category not found")
	}
	return category, err
}

func applyAppearance(c *models.Category, req models.CategoryRequest) error {
	if req.Color != nil && *req.Color != "" {
		if !util.ValidateColor(*req.Color) {
			return util.Validation("Color must be a hex value like #AABBCC")
		}
		c.Color = strings.ToUpper(*req.Color)
	}
	if req.Icon != nil && strings.TrimSpace(*req.Icon) != "" {
		c.Icon = strings.TrimSpace(*req.Icon)
	}
	return nil
}
