package service

import (
	"context"
	"strings"

	"vwds/internal/models"
	"vwds/internal/repository"
)

type VehicleService struct {
	repo *repository.VehicleRepository
}

func NewVehicleService(repo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{repo: repo}
}

func (s *VehicleService) Create(ctx context.Context, in models.VehicleInput) (*models.Vehicle, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	return s.repo.List(ctx)
}

func (s *VehicleService) Update(ctx context.Context, id int64, in models.VehicleInput) (*models.Vehicle, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Search returns an empty slice for a blank query without hitting the
// store.
func (s *VehicleService) Search(ctx context.Context, query string) ([]models.VehicleMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.VehicleMatch{}, nil
	}
	return s.repo.Search(ctx, query)
}

type RouteService struct {
	repo *repository.RouteRepository
}

func NewRouteService(repo *repository.RouteRepository) *RouteService {
	return &RouteService{repo: repo}
}

func (s *RouteService) Create(ctx context.Context, in models.RouteInput) (*models.Route, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *RouteService) Get(ctx context.Context, id int64) (*models.Route, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RouteService) List(ctx context.Context) ([]models.Route, error) {
	return s.repo.List(ctx)
}

func (s *RouteService) Update(ctx context.Context, id int64, in models.RouteInput) (*models.Route, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *RouteService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *RouteService) Search(ctx context.Context, query string) ([]models.RouteMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.RouteMatch{}, nil
	}
	return s.repo.Search(ctx, query)
}
