// Package users implements account registration and authentication over a
// Repository. Passwords are stored as bcrypt hashes only.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/nutrigenie/internal/common"
)

// ErrMissingField is returned when a registration field is blank.
var ErrMissingField = errors.New("username, email and password are required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. An account with the same email yields
// common.ErrAlreadyExists; the storage-level UNIQUE constraints on username
// and email back up the pre-check, so a racing duplicate insert fails the
// same way instead of overwriting.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {

	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingField
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	// bcrypt generates a fresh random salt per call.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{Username: username, Email: email, PasswordHash: string(hash)}
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate verifies email+password. Both "no such account" and "wrong
// password" collapse into common.ErrorUnauthorized; callers never learn
// which one happened.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// GetByID looks up an account by its identifier.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
