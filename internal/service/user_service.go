package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogapi/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  db.User `json:"user"`
	Token string  `json:"token"`
}

// UserService handles accounts and bearer tokens.
type UserService struct {
	db     *gorm.DB
	tokens TokenStore
}

// NewUserService creates a UserService. A nil store falls back to the database.
func NewUserService(gdb *gorm.DB, tokens TokenStore) *UserService {
	if tokens == nil {
		tokens = NewDBTokenStore(gdb, 0)
	}
	return &UserService{db: gdb, tokens: tokens}
}

// Register creates an account and issues its first token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, errs.Err()
	}

	emailAddr := normalizeEmail(input.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", emailAddr).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, emailTaken()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    emailAddr,
		Password: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, emailTaken()
		}
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID, "register")
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and issues a new token. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, errs.Err()
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID, "login")
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*db.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func emailTaken() error {
	return fieldError("email", "The email has already been taken.")
}
