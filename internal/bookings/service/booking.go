package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "seatplan/internal/bookings/errors"
	"seatplan/internal/bookings/repository"
	"seatplan/internal/bookings/validator"
	contactserrors "seatplan/internal/contacts/errors"
	contactrepo "seatplan/internal/contacts/repository"
	contactservice "seatplan/internal/contacts/service"
	contactvalidator "seatplan/internal/contacts/validator"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/model"
	"seatplan/pkg/sanitizer"
	"seatplan/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ChangeNotifier receives booking change signals after a successful write.
// Implementations must not block the request path.
type ChangeNotifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingUpdated(ctx context.Context, booking *model.Booking)
	BookingDeleted(ctx context.Context, booking *model.Booking)
}

// NopNotifier is used where no change pipeline is wired, such as tests and
// one-shot tooling.
type NopNotifier struct{}

func (NopNotifier) BookingCreated(context.Context, *model.Booking) {}
func (NopNotifier) BookingUpdated(context.Context, *model.Booking) {}
func (NopNotifier) BookingDeleted(context.Context, *model.Booking) {}

type BookingService interface {
	Query(ctx context.Context, companyID string, page int, filters *model.BookingFilters, sortField, sortDir string) ([]*model.Booking, int64, error)
	FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error)
	GetByID(ctx context.Context, companyID, id string) (*model.Booking, error)
	GetByShareToken(ctx context.Context, token string) (*model.Booking, error)
	ShareToken(companyID, bookingID string) (string, error)
	Create(ctx context.Context, booking *model.Booking) error
	CreateWithContact(ctx context.Context, booking *model.Booking, contact *model.NewBookingContact) error
	Update(ctx context.Context, companyID, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, companyID, id string) error
}

type bookingService struct {
	repo             repository.BookingRepository
	contactRepo      contactrepo.ContactRepository
	validator        *validator.BookingValidator
	contactValidator *contactvalidator.ContactValidator
	notifier         ChangeNotifier
	sealer           *sealer.Sealer
	cfg              *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	contactRepo contactrepo.ContactRepository,
	v *validator.BookingValidator,
	notifier ChangeNotifier,
	tokenSealer *sealer.Sealer,
	cfg *config.Config,
) BookingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &bookingService{
		repo:             repo,
		contactRepo:      contactRepo,
		validator:        v,
		contactValidator: contactvalidator.NewContactValidator(cfg.Log),
		notifier:         notifier,
		sealer:           tokenSealer,
		cfg:              cfg,
	}
}

func (s *bookingService) Query(ctx context.Context, companyID string, page int, filters *model.BookingFilters, sortField, sortDir string) ([]*model.Booking, int64, error) {
	if companyID == "" {
		return nil, 0, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if err := repository.ValidateSortField(sortField); err != nil {
		return nil, 0, apperrors.InvalidInput("Cannot sort by field: " + sortField)
	}

	dir := 1
	if sortDir == "desc" {
		dir = -1
	}

	page = config.NormalizePage(page)
	limit := int64(config.DefaultPaginationLimit)
	skip := int64(page-1) * limit

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountQuery(ctx, companyID, filters)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "company_id", companyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Query(ctx, companyID, filters, sortField, dir, skip, limit)
		if errFind != nil {
			s.cfg.Log.Error("Failed to query bookings", "company_id", companyID, "page", page, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking query completed",
		"company_id", companyID,
		"page", page,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	bookings, err := s.repo.FindDay(ctx, companyID, locationID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load day bookings", "company_id", companyID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve day bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, companyID, id string) (*model.Booking, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetByShareToken resolves an opaque confirmation-link token to its booking.
// The token carries both tenant and booking id, so no raw identifiers appear
// in customer-facing links.
func (s *bookingService) GetByShareToken(ctx context.Context, token string) (*model.Booking, error) {
	if s.sealer == nil {
		return nil, apperrors.Unavailable("share links")
	}

	companyID, bookingID, err := s.sealer.Open(token)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid or expired share token")
	}

	return s.GetByID(ctx, companyID, bookingID)
}

func (s *bookingService) ShareToken(companyID, bookingID string) (string, error) {
	if s.sealer == nil {
		return "", apperrors.Unavailable("share links")
	}
	token, err := s.sealer.Seal(companyID, bookingID)
	if err != nil {
		return "", apperrors.Internal("Failed to create share token", err)
	}
	return token, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	if err := s.prepare(booking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "company_id", booking.CompanyID, "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"company_id", booking.CompanyID,
		"booking_reference", booking.BookingReference,
		"seated_date", booking.BookingSeatedDate,
		"seated_time", booking.BookingSeatedTime,
	)
	s.notifier.BookingCreated(ctx, booking)
	return nil
}

// CreateWithContact resolves or creates the contact and inserts the booking
// in one transaction. Either both documents commit or neither does.
func (s *bookingService) CreateWithContact(ctx context.Context, booking *model.Booking, inline *model.NewBookingContact) error {
	if inline == nil {
		return apperrors.InvalidInput("Contact details are required")
	}
	if inline.Email == "" && inline.Mobile == "" {
		return apperrors.InvalidInput("At least one of contact email or mobile is required")
	}

	if err := s.prepare(booking); err != nil {
		return err
	}

	contact := &model.Contact{
		CompanyID: booking.CompanyID,
		FirstName: inline.FirstName,
		LastName:  inline.LastName,
		Email:     inline.Email,
		Mobile:    inline.Mobile,
		IsActive:  true,
	}
	contactservice.Sanitize(contact)

	// Normalization can empty an unparseable mobile or a malformed email.
	// Re-check identity afterwards so the transaction never stores a contact
	// the partial unique indexes cannot deduplicate.
	if contact.Email == "" && contact.Mobile == "" {
		return apperrors.InvalidInput("Contact email or mobile is not valid")
	}
	if err := s.contactValidator.Validate(contact); err != nil {
		s.cfg.Log.Warn("Inline contact validation failed", "company_id", booking.CompanyID, "error", err)
		return apperrors.Validation("Contact validation failed", map[string]any{"error": err.Error()})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.resolveContact(sessCtx, booking.CompanyID, contact.Email, contact.Mobile)
		if err != nil {
			return err
		}

		if existing != nil {
			booking.ContactID = existing.ID
		} else {
			if err := s.contactRepo.Create(sessCtx, contact); err != nil {
				if errors.Is(err, contactserrors.ErrDuplicate) {
					return apperrors.Conflict("A contact with this email or mobile already exists")
				}
				return apperrors.Internal("Failed to create contact", err)
			}
			booking.ContactID = contact.ID
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking with contact", "company_id", booking.CompanyID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created with contact",
		"id", booking.ID,
		"company_id", booking.CompanyID,
		"contact_id", booking.ContactID,
		"booking_reference", booking.BookingReference,
	)
	s.notifier.BookingCreated(ctx, booking)
	return nil
}

// resolveContact looks the contact up by email first, then mobile, inside the
// transaction so a concurrent create of the same person is serialized by the
// unique indexes.
func (s *bookingService) resolveContact(ctx context.Context, companyID, email, mobile string) (*model.Contact, error) {
	if email != "" {
		contact, err := s.contactRepo.FindByEmail(ctx, companyID, email)
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to look up contact by email", err)
		}
	}

	if mobile != "" {
		contact, err := s.contactRepo.FindByMobile(ctx, companyID, mobile)
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to look up contact by mobile", err)
		}
	}

	return nil, nil
}

func (s *bookingService) Update(ctx context.Context, companyID, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if companyID == "" {
		return nil, apperrors.InvalidInput("Company ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to check booking existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	merged.Guests = merged.CoversAdult + merged.CoversChild

	slot, iso, err := deriveSlot(merged.BookingSeatedDate, merged.BookingSeatedTime)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid seated date or time")
	}
	merged.DatetimeOfSlot = slot
	merged.TimeSlotISO = iso

	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, companyID, id, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "company_id", companyID)
	s.notifier.BookingUpdated(ctx, merged)
	return merged, nil
}

func (s *bookingService) Delete(ctx context.Context, companyID, id string) error {
	if companyID == "" {
		return apperrors.InvalidInput("Company ID cannot be empty")
	}
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "company_id", companyID)
	s.notifier.BookingDeleted(ctx, existing)
	return nil
}

// --- Helpers ---

// prepare runs the shared create-path steps: sanitize, defaults, slot
// derivation, validation.
func (s *bookingService) prepare(booking *model.Booking) error {
	s.sanitize(booking)
	s.applyDefaults(booking)

	slot, iso, err := deriveSlot(booking.BookingSeatedDate, booking.BookingSeatedTime)
	if err != nil {
		return apperrors.InvalidInput("Invalid seated date or time")
	}
	booking.DatetimeOfSlot = slot
	booking.TimeSlotISO = iso

	return s.validate(booking)
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.BookingOccasion = sanitizer.TrimAndNormalize(b.BookingOccasion)
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)
	b.Notes = sanitizer.NormalizeFreeText(b.Notes)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.BookingStatus == "" {
		b.BookingStatus = model.StatusPending
	}
	if b.BookingSource == "" {
		b.BookingSource = "In house"
	}
	if b.BookingType == "" {
		b.BookingType = "Table"
	}
	if b.Duration <= 0 {
		b.Duration = s.cfg.BookingDurationMin
	}
	if b.BookingReference == "" {
		b.BookingReference = newBookingReference()
	}
	b.Guests = b.CoversAdult + b.CoversChild
}

func (s *bookingService) merge(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.LocationID != nil {
		merged.LocationID = *updates.LocationID
	}
	if updates.TableID != nil {
		merged.TableID = *updates.TableID
	}
	if updates.ContactID != nil {
		merged.ContactID = *updates.ContactID
	}
	if updates.BookingSeatedDate != nil {
		merged.BookingSeatedDate = *updates.BookingSeatedDate
	}
	if updates.BookingSeatedTime != nil {
		merged.BookingSeatedTime = *updates.BookingSeatedTime
	}
	if updates.Duration != nil {
		merged.Duration = *updates.Duration
	}
	if updates.CoversAdult != nil {
		merged.CoversAdult = *updates.CoversAdult
	}
	if updates.CoversChild != nil {
		merged.CoversChild = *updates.CoversChild
	}
	if updates.BookingSource != nil {
		merged.BookingSource = *updates.BookingSource
	}
	if updates.BookingType != nil {
		merged.BookingType = *updates.BookingType
	}
	if updates.BookingOccasion != nil {
		merged.BookingOccasion = *updates.BookingOccasion
	}
	if updates.BookingStatus != nil {
		merged.BookingStatus = *updates.BookingStatus
	}
	if updates.DepositRequired != nil {
		merged.DepositRequired = *updates.DepositRequired
	}
	if updates.DepositAmount != nil {
		merged.DepositAmount = *updates.DepositAmount
	}
	if updates.DepositPaid != nil {
		merged.DepositPaid = *updates.DepositPaid
	}
	if updates.PaymentAmount != nil {
		merged.PaymentAmount = *updates.PaymentAmount
	}
	if updates.ArrivedGuests != nil {
		merged.ArrivedGuests = *updates.ArrivedGuests
	}
	if updates.SeatedTime != nil {
		merged.SeatedTime = updates.SeatedTime
	}
	if updates.LeftTime != nil {
		merged.LeftTime = updates.LeftTime
	}
	if updates.Tags != nil {
		merged.Tags = *updates.Tags
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = *updates.SpecialRequests
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	// Hydrated summaries never round-trip through an update.
	merged.Contact = nil
	merged.Location = nil

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
