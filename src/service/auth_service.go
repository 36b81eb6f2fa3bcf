package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack-server/src/apperr"
	"fintrack-server/src/auth"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

type AuthService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users UserStore, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username, usernameField := strings.TrimSpace(req.Username), "username"
	if username == "" {
		username, usernameField = strings.TrimSpace(req.Name), "name"
	}
	username = strings.ToLower(username)

	verr := &apperr.ValidationError{}
	if !util.ValidateEmail(email) {
		verr.Add("email", "invalid email format")
	}
	if !util.ValidateUsername(username) {
		verr.Add(usernameField, "must be between 3 and 30 characters")
	}
	if !util.ValidatePassword(req.Password) {
		verr.Add("password", "must be at least 8 characters with uppercase, lowercase, digit, and special character")
	}
	if err := verr.OrNil(); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email or username already exists", apperr.ErrConflict)
		}
		return nil, "", fmt.Errorf("create user: %w: %w", apperr.ErrStoreUnavailable, err)
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials and returns a fresh token. Unknown users and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	name := strings.TrimSpace(req.UsernameOrEmail)
	if name == "" {
		name = strings.TrimSpace(req.Email)
	}
	name = strings.ToLower(name)
	if name == "" || req.Password == "" {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}

	user, err := s.users.GetUserByUsername(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		user, err = s.users.GetUserByEmail(ctx, name)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
		}
		return nil, "", fmt.Errorf("find user: %w: %w", apperr.ErrStoreUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
