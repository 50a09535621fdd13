package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tasktrack/internal/auth"
	"tasktrack/internal/errors"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// UserService is the identity directory: registration, credential checks and
// the session-token lifecycle.
type UserService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	IssueSession(ctx context.Context, user *model.User) (string, error)
	ResolveToken(ctx context.Context, token string) (*model.User, error)
	RevokeSession(ctx context.Context, userID uuid.UUID, token string) error
}

type userService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	tokenSvc *auth.TokenService
	validate *validator.Validate
}

// NewUserService creates a new identity service.
func NewUserService(users repository.UserRepository, tokens repository.TokenRepository, tokenSvc *auth.TokenService) UserService {
	return &userService{
		users:    users,
		tokens:   tokens,
		tokenSvc: tokenSvc,
		validate: validator.New(),
	}
}

// Register creates a new user with a hashed password. The plaintext never
// reaches the repository.
func (s *userService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, errors.ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, errors.ErrWeakPassword
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrDuplicateEmail
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies email and password. An unknown email and a wrong
// password return the same error so callers cannot enumerate users.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession signs a new token and appends it to the user's live token
// list. Concurrent calls for the same user are independent inserts, so both
// sessions stay valid.
func (s *userService) IssueSession(ctx context.Context, user *model.User) (string, error) {
	token, err := s.tokenSvc.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	row := &model.UserToken{
		UserID: user.ID,
		Access: model.AccessAuth,
		Token:  token,
	}
	if err := s.tokens.Append(ctx, row); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// ResolveToken verifies the signature, loads the user the claim points at
// and requires the exact token string to still be in that user's live list.
// A bad signature, an unknown user and a revoked token all collapse to
// ErrInvalidToken.
func (s *userService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokenSvc.Verify(token)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	live, err := s.tokens.Exists(ctx, userID, model.AccessAuth, token)
	if err != nil || !live {
		return nil, errors.ErrInvalidToken
	}
	return user, nil
}

// RevokeSession removes the exact token string from the user's list.
// Revoking an absent token succeeds.
func (s *userService) RevokeSession(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokens.Remove(ctx, userID, token)
}
