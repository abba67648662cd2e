package service

import (
	"context"
	"testing"
	"time"

	locationserrors "seatplan/internal/locations/errors"
	"seatplan/internal/locations/validator"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"
)

type mockLocationRepository struct {
	createFunc        func(ctx context.Context, location *model.Location) error
	findByIDFunc      func(ctx context.Context, companyID, id string) (*model.Location, error)
	listFunc          func(ctx context.Context, companyID string) ([]*model.Location, error)
	updateFunc        func(ctx context.Context, companyID, id string, location *model.Location) error
	createTableFunc   func(ctx context.Context, table *model.Table) error
	findTableFunc     func(ctx context.Context, companyID, id string) (*model.Table, error)
	listTablesFunc    func(ctx context.Context, companyID string) ([]*model.Table, error)
	updateTableFunc   func(ctx context.Context, companyID, id string, table *model.Table) error
}

func (m *mockLocationRepository) Create(ctx context.Context, location *model.Location) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, location)
	}
	location.ID = "64b2f0c9a1e4d2f3a4b5c6e1"
	return nil
}

func (m *mockLocationRepository) FindByID(ctx context.Context, companyID, id string) (*model.Location, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, companyID, id)
	}
	return nil, locationserrors.ErrNotFound
}

func (m *mockLocationRepository) List(ctx context.Context, companyID string) ([]*model.Location, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockLocationRepository) Update(ctx context.Context, companyID, id string, location *model.Location) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, companyID, id, location)
	}
	return nil
}

func (m *mockLocationRepository) CreateTable(ctx context.Context, table *model.Table) error {
	if m.createTableFunc != nil {
		return m.createTableFunc(ctx, table)
	}
	table.ID = "64b2f0c9a1e4d2f3a4b5c6e2"
	return nil
}

func (m *mockLocationRepository) FindTableByID(ctx context.Context, companyID, id string) (*model.Table, error) {
	if m.findTableFunc != nil {
		return m.findTableFunc(ctx, companyID, id)
	}
	return nil, locationserrors.ErrTableNotFound
}

func (m *mockLocationRepository) ListTables(ctx context.Context, companyID string) ([]*model.Table, error) {
	if m.listTablesFunc != nil {
		return m.listTablesFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockLocationRepository) UpdateTable(ctx context.Context, companyID, id string, table *model.Table) error {
	if m.updateTableFunc != nil {
		return m.updateTableFunc(ctx, companyID, id, table)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newService(repo *mockLocationRepository) LocationService {
	cfg := testConfig()
	return NewLocationService(repo, validator.NewLocationValidator(cfg.Log), cfg)
}

func TestCreate_InfersTimezoneFromPhone(t *testing.T) {
	var stored *model.Location
	repo := &mockLocationRepository{
		createFunc: func(ctx context.Context, location *model.Location) error {
			location.ID = "64b2f0c9a1e4d2f3a4b5c6e1"
			stored = location
			return nil
		},
	}
	svc := newService(repo)

	err := svc.Create(context.Background(), &model.Location{
		CompanyID:  "64b2f0c9a1e4d2f3a4b5c6d7",
		PublicName: "The Anchor",
		Phone:      "+442071234567",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Timezone != "Europe/London" {
		t.Errorf("expected inferred timezone Europe/London, got %q", stored.Timezone)
	}
	if !stored.IsActive {
		t.Error("new locations start active")
	}
}

func TestCreate_ExplicitTimezoneWins(t *testing.T) {
	var stored *model.Location
	repo := &mockLocationRepository{
		createFunc: func(ctx context.Context, location *model.Location) error {
			stored = location
			return nil
		},
	}
	svc := newService(repo)

	err := svc.Create(context.Background(), &model.Location{
		CompanyID:  "64b2f0c9a1e4d2f3a4b5c6d7",
		PublicName: "The Anchor",
		Phone:      "+442071234567",
		Timezone:   "Europe/Paris",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Timezone != "Europe/Paris" {
		t.Errorf("explicit timezone must not be overwritten, got %q", stored.Timezone)
	}
}

func TestCreate_RejectsInvalidTimezone(t *testing.T) {
	svc := newService(&mockLocationRepository{})

	err := svc.Create(context.Background(), &model.Location{
		CompanyID:  "64b2f0c9a1e4d2f3a4b5c6d7",
		PublicName: "The Anchor",
		Timezone:   "Mars/Olympus",
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDeactivateTable_FlipsActiveOnly(t *testing.T) {
	var updated *model.Table
	repo := &mockLocationRepository{
		findTableFunc: func(ctx context.Context, companyID, id string) (*model.Table, error) {
			return &model.Table{
				ID:        id,
				CompanyID: companyID,
				Name:      "Window 4",
				Capacity:  4,
				IsActive:  true,
			}, nil
		},
		updateTableFunc: func(ctx context.Context, companyID, id string, table *model.Table) error {
			updated = table
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.DeactivateTable(context.Background(), "64b2f0c9a1e4d2f3a4b5c6d7", "64b2f0c9a1e4d2f3a4b5c6e2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("table should be inactive")
	}
	if updated.Name != "Window 4" || updated.Capacity != 4 {
		t.Errorf("deactivation must not touch other fields: %+v", updated)
	}
}

func TestTimezone_FallsBackToFirstLocation(t *testing.T) {
	repo := &mockLocationRepository{
		listFunc: func(ctx context.Context, companyID string) ([]*model.Location, error) {
			return []*model.Location{
				{ID: "loc-1", Timezone: "Europe/London"},
				{ID: "loc-2", Timezone: "Europe/Paris"},
			}, nil
		},
	}
	svc := newService(repo)

	tz, err := svc.Timezone(context.Background(), "comp-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tz != "Europe/London" {
		t.Errorf("expected first location's timezone, got %q", tz)
	}
}

func TestTimezone_NoLocations(t *testing.T) {
	svc := newService(&mockLocationRepository{})

	tz, err := svc.Timezone(context.Background(), "comp-1", "")
	if err != nil || tz != "" {
		t.Errorf("no locations means empty timezone, got %q err=%v", tz, err)
	}
}
