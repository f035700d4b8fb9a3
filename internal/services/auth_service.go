package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"stock-service/internal/models"
	"stock-service/internal/repository"
)

// ErrInvalidCredentials is the single failure returned for every login
// problem: unknown society, unknown user, wrong password, inactive account,
// no membership, or an ambiguous identifier. Callers must not distinguish.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates users against a named society
type AuthService struct {
	repo repository.SocietyRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(repo repository.SocietyRepository) *AuthService {
	return &AuthService{repo: repo}
}

// AuthResult is the authenticated principal
type AuthResult struct {
	User    *models.User
	Society *models.Society
	IsAdmin bool
}

// Authenticate verifies a society-scoped login. The identifier may be a
// username or an email, matched case-insensitively. If it matches more than
// one user the login fails rather than guessing.
func (s *AuthService) Authenticate(ctx context.Context, societyName, identifier, password string) (*AuthResult, error) {
	society, err := s.repo.GetSocietyByName(ctx, societyName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !society.IsActive {
		return nil, ErrInvalidCredentials
	}

	users, err := s.repo.FindUsersByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(users) != 1 {
		return nil, ErrInvalidCredentials
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	membership, err := s.repo.GetMembership(ctx, society.ID, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.repo.UpdateUserLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:    &user,
		Society: society,
		IsAdmin: membership.IsAdmin,
	}, nil
}
