package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"choir-attendance/internal/model"
	"choir-attendance/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type AuthService struct{ store *store.Store }

func NewAuthService(s *store.Store) *AuthService { return &AuthService{store: s} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	a, err := s.store.Accounts.ByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return a, nil
}

func (s *AuthService) Account(ctx context.Context, id string) (*model.Account, error) {
	return s.store.Accounts.Get(ctx, id)
}

func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	a, err := s.store.Accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(oldPassword)) != nil {
		return ErrBadCredentials
	}
	if len(newPassword) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.Accounts.SetPassword(ctx, a.ID, hash)
}

// EnsureAdmin creates the admin account, or resets its password when it
// already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, name string) (created bool, err error) {
	username = normalizeUsername(username)
	if username == "" || len(password) < minPasswordLen {
		return false, invalid("admin needs a username and a password of at least %d characters", minPasswordLen)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	a, err := s.store.Accounts.ByUsername(ctx, username)
	switch {
	case err == nil:
		if a.Role != model.RoleAdmin {
			return false, fmt.Errorf("%w: %s belongs to a member", ErrConflict, username)
		}
		return false, s.store.Accounts.SetPassword(ctx, a.ID, hash)
	case errors.Is(err, store.ErrNotFound):
		return true, s.store.Accounts.Create(ctx, &model.Account{
			Username: username, Password: hash, Name: name, Role: model.RoleAdmin,
		})
	default:
		return false, err
	}
}

func hashPassword(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeUsername(u string) string { return strings.ToLower(strings.TrimSpace(u)) }
