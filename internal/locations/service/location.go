package service

import (
	"context"
	"errors"

	locationserrors "seatplan/internal/locations/errors"
	"seatplan/internal/locations/repository"
	"seatplan/internal/locations/validator"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/locale"
	"seatplan/pkg/model"
	"seatplan/pkg/sanitizer"
)

type LocationService interface {
	Create(ctx context.Context, location *model.Location) error
	GetByID(ctx context.Context, companyID, id string) (*model.Location, error)
	List(ctx context.Context, companyID string) ([]*model.Location, error)
	Update(ctx context.Context, companyID, id string, location *model.Location) (*model.Location, error)

	CreateTable(ctx context.Context, table *model.Table) error
	ListTables(ctx context.Context, companyID string) ([]*model.Table, error)
	UpdateTable(ctx context.Context, companyID, id string, table *model.Table) (*model.Table, error)
	DeactivateTable(ctx context.Context, companyID, id string) error

	// Timezone satisfies the timeline's resolver. An empty location id
	// falls back to the company's first active location.
	Timezone(ctx context.Context, companyID, locationID string) (string, error)
}

type locationService struct {
	repo      repository.LocationRepository
	validator *validator.LocationValidator
	cfg       *config.Config
}

func NewLocationService(repo repository.LocationRepository, v *validator.LocationValidator, cfg *config.Config) LocationService {
	return &locationService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *locationService) Create(ctx context.Context, location *model.Location) error {
	s.sanitize(location)
	location.IsActive = true

	// A venue that gives a phone but no timezone gets one inferred from
	// the dialling prefix. Wrong is possible; empty helps nobody.
	if location.Timezone == "" && location.Phone != "" {
		if tz := locale.InferTimezoneFromPhone(location.Phone); tz != "" {
			location.Timezone = tz
			s.cfg.Log.Debug("Inferred location timezone from phone",
				"company_id", location.CompanyID,
				"timezone", tz,
			)
		}
	}

	if err := s.validator.Validate(location); err != nil {
		s.cfg.Log.Warn("Location validation failed", "error", err)
		return apperrors.Validation("Location validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, location); err != nil {
		s.cfg.Log.Error("Failed to create location", "company_id", location.CompanyID, "error", err)
		return apperrors.Internal("Failed to create location", err)
	}

	s.cfg.Log.Info("Location created successfully", "id", location.ID, "company_id", location.CompanyID)
	return nil
}

func (s *locationService) GetByID(ctx context.Context, companyID, id string) (*model.Location, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Location ID cannot be empty")
	}

	location, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, locationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Location", id)
		}
		if errors.Is(err, locationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid location ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve location", err)
	}

	return location, nil
}

func (s *locationService) List(ctx context.Context, companyID string) ([]*model.Location, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}

	locations, err := s.repo.List(ctx, companyID)
	if err != nil {
		s.cfg.Log.Error("Failed to list locations", "company_id", companyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve locations", err)
	}
	return locations, nil
}

func (s *locationService) Update(ctx context.Context, companyID, id string, updated *model.Location) (*model.Location, error) {
	existing, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	s.sanitize(updated)
	updated.ID = existing.ID
	updated.CompanyID = companyID
	updated.CreatedAt = existing.CreatedAt

	if err := s.validator.Validate(updated); err != nil {
		s.cfg.Log.Warn("Location validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Location validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, companyID, id, updated); err != nil {
		if errors.Is(err, locationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Location", id)
		}
		s.cfg.Log.Error("Failed to update location", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update location", err)
	}

	s.cfg.Log.Info("Location updated successfully", "id", id, "company_id", companyID)
	return updated, nil
}

func (s *locationService) CreateTable(ctx context.Context, table *model.Table) error {
	table.Name = sanitizer.TrimAndNormalize(table.Name)
	table.Location = sanitizer.TrimAndNormalize(table.Location)
	table.IsActive = true

	if err := s.validator.ValidateTable(table); err != nil {
		s.cfg.Log.Warn("Table validation failed", "error", err)
		return apperrors.Validation("Table validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.CreateTable(ctx, table); err != nil {
		s.cfg.Log.Error("Failed to create table", "company_id", table.CompanyID, "error", err)
		return apperrors.Internal("Failed to create table", err)
	}

	s.cfg.Log.Info("Table created successfully", "id", table.ID, "company_id", table.CompanyID)
	return nil
}

func (s *locationService) ListTables(ctx context.Context, companyID string) ([]*model.Table, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}

	tables, err := s.repo.ListTables(ctx, companyID)
	if err != nil {
		s.cfg.Log.Error("Failed to list tables", "company_id", companyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tables", err)
	}
	return tables, nil
}

func (s *locationService) UpdateTable(ctx context.Context, companyID, id string, updated *model.Table) (*model.Table, error) {
	existing, err := s.repo.FindTableByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, locationserrors.ErrTableNotFound) {
			return nil, apperrors.NotFoundWithID("Table", id)
		}
		if errors.Is(err, locationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid table ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve table", err)
	}

	updated.Name = sanitizer.TrimAndNormalize(updated.Name)
	updated.Location = sanitizer.TrimAndNormalize(updated.Location)
	updated.ID = existing.ID
	updated.CompanyID = companyID
	updated.CreatedAt = existing.CreatedAt

	if err := s.validator.ValidateTable(updated); err != nil {
		return nil, apperrors.Validation("Table validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateTable(ctx, companyID, id, updated); err != nil {
		if errors.Is(err, locationserrors.ErrTableNotFound) {
			return nil, apperrors.NotFoundWithID("Table", id)
		}
		s.cfg.Log.Error("Failed to update table", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update table", err)
	}

	return updated, nil
}

// DeactivateTable hides a table from new bookings without touching history.
func (s *locationService) DeactivateTable(ctx context.Context, companyID, id string) error {
	existing, err := s.repo.FindTableByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, locationserrors.ErrTableNotFound) {
			return apperrors.NotFoundWithID("Table", id)
		}
		if errors.Is(err, locationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid table ID format")
		}
		return apperrors.Internal("Failed to retrieve table", err)
	}

	existing.IsActive = false
	if err := s.repo.UpdateTable(ctx, companyID, id, existing); err != nil {
		s.cfg.Log.Error("Failed to deactivate table", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate table", err)
	}

	s.cfg.Log.Info("Table deactivated", "id", id, "company_id", companyID)
	return nil
}

func (s *locationService) Timezone(ctx context.Context, companyID, locationID string) (string, error) {
	if locationID != "" {
		location, err := s.repo.FindByID(ctx, companyID, locationID)
		if err != nil {
			return "", err
		}
		return location.Timezone, nil
	}

	locations, err := s.repo.List(ctx, companyID)
	if err != nil || len(locations) == 0 {
		return "", err
	}
	return locations[0].Timezone, nil
}

func (s *locationService) sanitize(l *model.Location) {
	l.PublicName = sanitizer.TrimAndNormalize(l.PublicName)
	l.InternalName = sanitizer.TrimAndNormalize(l.InternalName)
	l.Phone = sanitizer.NormalizePhone(l.Phone)
}
