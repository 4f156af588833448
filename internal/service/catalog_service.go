package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"parkdeck/internal/models"
	"parkdeck/internal/repository"
)

// CatalogReader lists garage reference data.
type CatalogReader interface {
	ListFloors(ctx context.Context) ([]models.Floor, error)
	ListBaysByFloor(ctx context.Context, floorID int64) ([]models.Bay, error)
	ListSpots(ctx context.Context) ([]models.SpotDetail, error)
	ListSpotTypes(ctx context.Context) ([]models.SpotType, error)
	ListCars(ctx context.Context) ([]models.Car, error)
	SpotByIdentifier(ctx context.Context, identifier string) (*models.Spot, error)
	CreateSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error)
}

// CatalogService exposes the reference-data reads and spot registration.
// The heavier lifecycle of this data (soft deletes, migrations, seeding)
// is out of scope; the ledger only needs lookups.
type CatalogService struct {
	repo   CatalogReader
	logger *zap.Logger
}

// NewCatalogService builds service.
func NewCatalogService(repo CatalogReader, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// Floors lists all floors.
func (s *CatalogService) Floors(ctx context.Context) ([]models.Floor, error) {
	return s.repo.ListFloors(ctx)
}

// BaysByFloor lists a floor's bays.
func (s *CatalogService) BaysByFloor(ctx context.Context, floorID int64) ([]models.Bay, error) {
	return s.repo.ListBaysByFloor(ctx, floorID)
}

// Spots lists every spot with bay/floor/type context.
func (s *CatalogService) Spots(ctx context.Context) ([]models.SpotDetail, error) {
	return s.repo.ListSpots(ctx)
}

// SpotTypes lists all spot types.
func (s *CatalogService) SpotTypes(ctx context.Context) ([]models.SpotType, error) {
	return s.repo.ListSpotTypes(ctx)
}

// Cars lists all registered cars.
func (s *CatalogService) Cars(ctx context.Context) ([]models.Car, error) {
	return s.repo.ListCars(ctx)
}

// RegisterSpot creates a new spot after checking identifier uniqueness.
func (s *CatalogService) RegisterSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	spot.SpotIdentifier = strings.TrimSpace(spot.SpotIdentifier)
	if spot.SpotIdentifier == "" {
		return nil, errors.New("catalog: spot identifier required")
	}

	if _, err := s.repo.SpotByIdentifier(ctx, spot.SpotIdentifier); err == nil {
		return nil, fmt.Errorf("spot identifier %s already exists: %w", spot.SpotIdentifier, ErrConflict)
	} else if !errors.Is(err, repository.ErrSpotNotFound) {
		return nil, err
	}

	created, err := s.repo.CreateSpot(ctx, spot)
	if err != nil {
		return nil, err
	}
	s.logger.Info("spot registered", zap.String("spot_identifier", created.SpotIdentifier))
	return created, nil
}
