package service

import (
	"context"
	"fmt"
	"log/slog"

	"vwds/config"
	"vwds/internal/auth"
	"vwds/internal/models"
	"vwds/internal/repository"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	role, err := in.ValidateCreate()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// Update rewrites the profile and rehashes the password only when one is
// supplied.
func (s *UserService) Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	role, err := in.ValidateUpdate()
	if err != nil {
		return nil, err
	}
	var hash string
	if in.Password != "" {
		if hash, err = auth.HashPassword(in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	u := &models.User{Username: in.Username, Email: in.Email, Role: role}
	if err := s.repo.Update(ctx, id, u, hash); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin creates the configured admin when the users table is empty.
// It does nothing if no admin password is configured.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig, logger *slog.Logger) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if cfg.Password == "" {
		logger.Warn("users table is empty and ADMIN_PASSWORD is not set; no one can log in")
		return nil
	}
	u, err := s.Create(ctx, models.UserInput{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     string(models.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("seeded admin account", "username", u.Username, "id", u.ID)
	return nil
}
