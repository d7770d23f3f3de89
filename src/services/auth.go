package services

import (
	"context"
	"errors"
	"fintrack-server/src/logging"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// IdentityCache remembers verified users for a short time.
type IdentityCache interface {
	Get(userID int64) (*models.User, bool)
	Set(user *models.User)
}

type AuthService struct {
	users      UserRepository
	categories *CategoryService
	tokens     *util.TokenIssuer
	cache      IdentityCache
	bcryptCost int
}

// NewAuthService wires registration and login. cache may be nil.
func NewAuthService(users UserRepository, categories *CategoryService, tokens *util.TokenIssuer, cache IdentityCache, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		categories: categories,
		tokens:     tokens,
		cache:      cache,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, util.Validation("Email, name, and password are required")
	}
	if !util.ValidateEmail(email) {
		return nil, util.Validation("Invalid email format")
	}
	if !util.ValidateName(name) {
		return nil, util.Validation("Name must be between 1 and 100 characters")
	}
	if !util.ValidatePassword(req.Password) {
		return nil, util.Validation("Password must be at least %d characters long", util.MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, &models.User{Email: email, Name: name, PasswordHash: string(hash)})
	if errors.Is(err, util.ErrConflict) {
		return nil, util.Conflict("User already exists with this email")
	}
	if err != nil {
		return nil, err
	}

	// Listing categories seeds the catalog lazily, so a failure here is not fatal.
	if _, err := s.categories.EnsureDefaults(ctx, user.ID); err != nil {
		logging.FromContext(ctx).Warn("failed to seed default categories",
			logging.FieldComponent, logging.ComponentAuth,
			logging.FieldUserID, user.ID, logging.FieldError, err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, util.Validation("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, util.Unauthorized("Invalid email or password")
	}

	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.NotFound("User not found")
	}
	return user, err
}

// ResolveUser looks up the user behind a verified token, consulting the
// identity cache first.
func (s *AuthService) ResolveUser(ctx context.Context, userID int64) (*models.User, error) {
	if s.cache != nil {
		if user, ok := s.cache.Get(userID); ok {
			return user, nil
		}
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(user)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}
