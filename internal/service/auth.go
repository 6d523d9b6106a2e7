package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vwds/internal/auth"
	"vwds/internal/domain"
	"vwds/internal/models"
	"vwds/internal/repository"
)

const invalidCredentials = "Invalid credentials or role"

// dummyHash is compared against when no user matches so that both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, err := auth.HashPassword("not-a-real-password")
	if err != nil {
		panic(fmt.Sprintf("dummy hash: %v", err))
	}
	return h
})

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserSummary `json:"user"`
}

type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login authenticates username and password against the account holding
// the claimed role. A role mismatch is indistinguishable from a wrong
// password.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*LoginResult, error) {
	role, err := in.Validate()
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsernameAndRole(ctx, in.Username, role)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		auth.CheckPassword(in.Password, dummyHash())
		return nil, domain.Newf(domain.ErrInvalidCredentials, invalidCredentials)
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Newf(domain.ErrInvalidCredentials, invalidCredentials)
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u.Summary()}, nil
}
