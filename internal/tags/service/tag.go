package service

import (
	"context"
	"errors"
	"strings"

	tagserrors "seatplan/internal/tags/errors"
	"seatplan/internal/tags/repository"
	"seatplan/internal/tags/validator"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/model"
	"seatplan/pkg/sanitizer"
)

type TagService interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, companyID, id string) (*model.Tag, error)
	List(ctx context.Context, companyID, category string) ([]*model.Tag, error)
	Update(ctx context.Context, companyID, id string, updates *model.TagUpdate) (*model.Tag, error)
	Delete(ctx context.Context, companyID, id string) error
	Reorder(ctx context.Context, companyID, category string, orderedIDs []string) error

	// ForBooking hydrates the tag ids stored on a booking into full tags,
	// in picker order.
	ForBooking(ctx context.Context, companyID, bookingID string) ([]*model.Tag, error)
}

type tagService struct {
	repo      repository.TagRepository
	validator *validator.TagValidator
	cfg       *config.Config
}

func NewTagService(repo repository.TagRepository, v *validator.TagValidator, cfg *config.Config) TagService {
	return &tagService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *tagService) Create(ctx context.Context, tag *model.Tag) error {
	s.sanitize(tag)

	if err := s.validator.Validate(tag); err != nil {
		s.cfg.Log.Warn("Tag validation failed", "error", err)
		return apperrors.Validation("Tag validation failed", map[string]any{"error": err.Error()})
	}

	// New tags land at the end of their picker unless the caller positions
	// them explicitly.
	if tag.SortOrder == 0 {
		existing, err := s.repo.List(ctx, tag.CompanyID, tag.Category)
		if err != nil {
			s.cfg.Log.Error("Failed to count tags for placement", "company_id", tag.CompanyID, "error", err)
			return apperrors.Internal("Failed to create tag", err)
		}
		tag.SortOrder = len(existing)
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, tagserrors.ErrDuplicate) {
			return apperrors.Conflict("A tag with this name already exists")
		}
		s.cfg.Log.Error("Failed to create tag", "company_id", tag.CompanyID, "error", err)
		return apperrors.Internal("Failed to create tag", err)
	}

	s.cfg.Log.Info("Tag created successfully",
		"id", tag.ID,
		"company_id", tag.CompanyID,
		"category", tag.Category,
	)
	return nil
}

func (s *tagService) GetByID(ctx context.Context, companyID, id string) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, tagserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tag", id)
		}
		if errors.Is(err, tagserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tag ID format")
		}
		s.cfg.Log.Error("Failed to get tag", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tag", err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context, companyID, category string) ([]*model.Tag, error) {
	if err := validCategory(category, true); err != nil {
		return nil, err
	}

	tags, err := s.repo.List(ctx, companyID, category)
	if err != nil {
		s.cfg.Log.Error("Failed to list tags", "company_id", companyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tags", err)
	}
	return tags, nil
}

func (s *tagService) Update(ctx context.Context, companyID, id string, updates *model.TagUpdate) (*model.Tag, error) {
	if updates == nil {
		return nil, apperrors.InvalidInput("Update payload cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Tag update validation failed", "error", err)
		return nil, apperrors.Validation("Tag validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		existing.Name = sanitizer.TrimAndNormalize(*updates.Name)
	}
	if updates.Color != nil {
		existing.Color = strings.ToLower(strings.TrimSpace(*updates.Color))
	}
	if updates.Icon != nil {
		existing.Icon = strings.TrimSpace(*updates.Icon)
	}

	if err := s.validator.Validate(existing); err != nil {
		return nil, apperrors.Validation("Tag validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, companyID, id, existing); err != nil {
		if errors.Is(err, tagserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tag", id)
		}
		if errors.Is(err, tagserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("A tag with this name already exists")
		}
		s.cfg.Log.Error("Failed to update tag", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update tag", err)
	}

	return existing, nil
}

// Delete removes the tag and detaches it from every booking that carried it,
// so booking documents never hold ids that no longer resolve.
func (s *tagService) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if errors.Is(err, tagserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Tag", id)
		}
		if errors.Is(err, tagserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid tag ID format")
		}
		s.cfg.Log.Error("Failed to delete tag", "id", id, "error", err)
		return apperrors.Internal("Failed to delete tag", err)
	}

	detached, err := s.repo.RemoveFromBookings(ctx, companyID, id)
	if err != nil {
		// The tag itself is gone; a failed detach leaves stale ids that the
		// hydration path silently skips.
		s.cfg.Log.Error("Failed to detach deleted tag from bookings", "id", id, "error", err)
	}

	s.cfg.Log.Info("Tag deleted",
		"id", id,
		"company_id", companyID,
		"bookings_detached", detached,
	)
	return nil
}

func (s *tagService) Reorder(ctx context.Context, companyID, category string, orderedIDs []string) error {
	if err := validCategory(category, false); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return apperrors.InvalidInput("Ordered tag IDs cannot be empty")
	}

	if err := s.repo.Reorder(ctx, companyID, category, orderedIDs); err != nil {
		if errors.Is(err, tagserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid tag ID format")
		}
		s.cfg.Log.Error("Failed to reorder tags", "company_id", companyID, "error", err)
		return apperrors.Internal("Failed to reorder tags", err)
	}
	return nil
}

func (s *tagService) ForBooking(ctx context.Context, companyID, bookingID string) ([]*model.Tag, error) {
	ids, err := s.repo.FindBookingTagIDs(ctx, companyID, bookingID)
	if err != nil {
		if errors.Is(err, tagserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, tagserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to read booking tags", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking tags", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	tags, err := s.repo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		if errors.Is(err, tagserrors.ErrInvalidID) {
			// A malformed id smuggled into the array before validation
			// tightened; treat it as absent rather than failing the read.
			s.cfg.Log.Warn("Booking carries malformed tag id", "booking_id", bookingID)
			return nil, nil
		}
		s.cfg.Log.Error("Failed to hydrate booking tags", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking tags", err)
	}
	return tags, nil
}

func (s *tagService) sanitize(tag *model.Tag) {
	tag.Name = sanitizer.TrimAndNormalize(tag.Name)
	tag.Color = strings.ToLower(strings.TrimSpace(tag.Color))
	tag.Icon = strings.TrimSpace(tag.Icon)
	tag.Category = strings.ToLower(strings.TrimSpace(tag.Category))
}

func validCategory(category string, allowEmpty bool) error {
	switch category {
	case model.TagCategoryContact, model.TagCategoryBooking:
		return nil
	case "":
		if allowEmpty {
			return nil
		}
	}
	return apperrors.InvalidInput("Category must be contact or booking")
}
