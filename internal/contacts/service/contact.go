package service

import (
	"context"
	"errors"
	"sync"

	contactserrors "seatplan/internal/contacts/errors"
	"seatplan/internal/contacts/repository"
	"seatplan/internal/contacts/validator"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/model"
	"seatplan/pkg/sanitizer"
)

type ContactService interface {
	Create(ctx context.Context, contact *model.Contact) error
	GetByID(ctx context.Context, companyID, id string) (*model.Contact, error)
	FindByEmailOrMobile(ctx context.Context, companyID, email, mobile string) (*model.Contact, error)
	List(ctx context.Context, companyID, search string, page int) ([]*model.Contact, int64, error)
}

type contactService struct {
	repo      repository.ContactRepository
	validator *validator.ContactValidator
	cfg       *config.Config
}

func NewContactService(repo repository.ContactRepository, v *validator.ContactValidator, cfg *config.Config) ContactService {
	return &contactService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *contactService) Create(ctx context.Context, contact *model.Contact) error {
	Sanitize(contact)
	contact.IsActive = true

	if err := s.validator.Validate(contact); err != nil {
		s.cfg.Log.Warn("Contact validation failed", "error", err)
		return apperrors.Validation("Contact validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		if errors.Is(err, contactserrors.ErrDuplicate) {
			return apperrors.Conflict("A contact with this email or mobile already exists")
		}
		s.cfg.Log.Error("Failed to create contact", "error", err)
		return apperrors.Internal("Failed to create contact", err)
	}

	s.cfg.Log.Info("Contact created successfully",
		"id", contact.ID,
		"company_id", contact.CompanyID,
	)
	return nil
}

func (s *contactService) GetByID(ctx context.Context, companyID, id string) (*model.Contact, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Contact ID cannot be empty")
	}

	contact, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Contact", id)
		}
		if errors.Is(err, contactserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid contact ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve contact", err)
	}

	return contact, nil
}

// FindByEmailOrMobile resolves an existing contact by email first, then
// mobile. Both lookups are tenant-scoped. Not found is returned as a plain
// sentinel so callers can branch to creation.
func (s *contactService) FindByEmailOrMobile(ctx context.Context, companyID, email, mobile string) (*model.Contact, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if email == "" && mobile == "" {
		return nil, apperrors.InvalidInput("At least one of email or mobile is required")
	}

	if email != "" {
		contact, err := s.repo.FindByEmail(ctx, companyID, sanitizer.NormalizeEmail(email))
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to look up contact by email", err)
		}
	}

	if mobile != "" {
		contact, err := s.repo.FindByMobile(ctx, companyID, sanitizer.NormalizePhone(mobile))
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to look up contact by mobile", err)
		}
	}

	return nil, contactserrors.ErrNotFound
}

func (s *contactService) List(ctx context.Context, companyID, search string, page int) ([]*model.Contact, int64, error) {
	if companyID == "" {
		return nil, 0, apperrors.InvalidInput("Company ID cannot be empty")
	}

	page = config.NormalizePage(page)
	limit := int64(config.DefaultPaginationLimit)
	skip := int64(page-1) * limit

	var count int64
	var contacts []*model.Contact
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountList(ctx, companyID, search)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count contacts", "company_id", companyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count contacts", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		contacts, errFind = s.repo.List(ctx, companyID, search, skip, limit)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list contacts", "company_id", companyID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve contacts", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return contacts, count, nil
}

// Sanitize normalizes a contact in place. Exported because the booking
// lifecycle builds contacts inline and must normalize them identically.
func Sanitize(c *model.Contact) {
	c.FirstName = sanitizer.NormalizeName(c.FirstName)
	c.LastName = sanitizer.NormalizeName(c.LastName)
	c.Email = sanitizer.NormalizeEmail(c.Email)
	c.Mobile = sanitizer.NormalizePhone(c.Mobile)
	c.CompanyName = sanitizer.TrimAndNormalize(c.CompanyName)
	c.City = sanitizer.TrimAndNormalize(c.City)
	c.Notes = sanitizer.NormalizeFreeText(c.Notes)
}
