package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/store"
	"github.com/willora/willora-backend/pkg/utils"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UpdateProfileInput carries optional profile changes. Nil or blank fields keep their value.
type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AuthService handles accounts and identity tokens.
type AuthService struct {
	users  store.UserRepository
	tokens *TokenIssuer
}

func NewAuthService(users store.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return AuthResult{}, validationError("All fields are required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, serviceError("lookup user", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return AuthResult{}, serviceError("hash password", err)
	}

	user, err := s.users.Create(ctx, models.User{Name: name, Email: email, Password: hash})
	if err != nil {
		// A concurrent registration can still hit the unique index.
		if errors.Is(err, store.ErrDuplicate) {
			return AuthResult{}, ErrConflict
		}
		return AuthResult{}, serviceError("create user", err)
	}

	return s.issue(user)
}

// Login verifies the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, validationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, ErrNotFound
		}
		return AuthResult{}, serviceError("lookup user", err)
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil && !errors.Is(err, utils.ErrInvalidHash) {
		return AuthResult{}, serviceError("verify password", err)
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	if utils.IsLegacyHash(user.Password) {
		user = s.upgradeHash(ctx, user, password)
	}
	return s.issue(user)
}

// upgradeHash replaces a legacy bcrypt hash with Argon2id. A failure keeps the
// old hash, which still verifies on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, user models.User, password string) models.User {
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("[Login] rehash failed for user %s: %v", user.ID, err)
		return user
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		log.Printf("[Login] storing upgraded hash failed for user %s: %v", user.ID, err)
		return user
	}
	user.Password = hash
	return user
}

// UpdateProfile changes the name and/or email of an account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			user.Name = name
		}
	}
	if in.Email != nil {
		if email := normalizeEmail(*in.Email); email != "" && email != user.Email {
			other, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return models.User{}, ErrConflict
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return models.User{}, serviceError("lookup user", err)
			}
			user.Email = email
		}
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return models.User{}, ErrConflict
		case errors.Is(err, store.ErrNotFound):
			return models.User{}, ErrNotFound
		}
		return models.User{}, serviceError("update user", err)
	}
	return updated, nil
}

// GetUser loads the account behind an identity.
func (s *AuthService) GetUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, serviceError("load user", err)
	}
	return user, nil
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, serviceError("sign token", err)
	}
	return AuthResult{Token: token, User: user}, nil
}
