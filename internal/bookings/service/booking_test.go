package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	bookingserrors "seatplan/internal/bookings/errors"
	"seatplan/internal/bookings/validator"
	contactserrors "seatplan/internal/contacts/errors"
	"seatplan/pkg/config"
	mongotx "seatplan/pkg/db/mongo"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ========== Mocks ==========

type mockBookingRepository struct {
	createFunc     func(ctx context.Context, booking *model.Booking) error
	findByIDFunc   func(ctx context.Context, companyID, id string) (*model.Booking, error)
	queryFunc      func(ctx context.Context, companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) ([]*model.Booking, error)
	countFunc      func(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error)
	updateFunc     func(ctx context.Context, companyID, id string, booking *model.Booking) error
	deleteFunc     func(ctx context.Context, companyID, id string) error
	onTransaction  func(err error)
	transactionErr error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64b2f0c9a1e4d2f3a4b5c6aa"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, companyID, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, companyID, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) Query(ctx context.Context, companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) ([]*model.Booking, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, companyID, filters, sortField, sortDir, skip, limit)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountQuery(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, companyID, filters)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, companyID, id string, booking *model.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, companyID, id, booking)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, companyID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, companyID, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.transactionErr != nil {
		return m.transactionErr
	}
	err := fn(mongo.SessionContext(nil))
	if m.onTransaction != nil {
		m.onTransaction(err)
	}
	return err
}

// memContactRepository is an in-memory contact store so composite-create
// tests can observe what actually got persisted.
type memContactRepository struct {
	contacts  []*model.Contact
	createErr error
	nextID    int
}

func (m *memContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	contact.ID = "64b2f0c9a1e4d2f3a4b5c6d" + string(rune('0'+m.nextID))
	stored := *contact
	m.contacts = append(m.contacts, &stored)
	return nil
}

func (m *memContactRepository) FindByID(ctx context.Context, companyID, id string) (*model.Contact, error) {
	for _, c := range m.contacts {
		if c.CompanyID == companyID && c.ID == id {
			return c, nil
		}
	}
	return nil, contactserrors.ErrNotFound
}

func (m *memContactRepository) FindByEmail(ctx context.Context, companyID, email string) (*model.Contact, error) {
	for _, c := range m.contacts {
		if c.CompanyID == companyID && c.Email == email && email != "" {
			return c, nil
		}
	}
	return nil, contactserrors.ErrNotFound
}

func (m *memContactRepository) FindByMobile(ctx context.Context, companyID, mobile string) (*model.Contact, error) {
	for _, c := range m.contacts {
		if c.CompanyID == companyID && c.Mobile == mobile && mobile != "" {
			return c, nil
		}
	}
	return nil, contactserrors.ErrNotFound
}

func (m *memContactRepository) List(ctx context.Context, companyID, search string, skip, limit int64) ([]*model.Contact, error) {
	return m.contacts, nil
}

func (m *memContactRepository) CountList(ctx context.Context, companyID, search string) (int64, error) {
	return int64(len(m.contacts)), nil
}

type recordingNotifier struct {
	created []string
	updated []string
	deleted []string
}

func (r *recordingNotifier) BookingCreated(_ context.Context, b *model.Booking) {
	r.created = append(r.created, b.ID)
}

func (r *recordingNotifier) BookingUpdated(_ context.Context, b *model.Booking) {
	r.updated = append(r.updated, b.ID)
}

func (r *recordingNotifier) BookingDeleted(_ context.Context, b *model.Booking) {
	r.deleted = append(r.deleted, b.ID)
}

// ========== Fixtures ==========

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "info",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		BookingDurationMin: 90,
	}
}

func newService(repo *mockBookingRepository, contacts *memContactRepository, notifier ChangeNotifier) BookingService {
	cfg := testConfig()
	if contacts == nil {
		contacts = &memContactRepository{}
	}
	return NewBookingService(repo, contacts, validator.NewBookingValidator(cfg.Log), notifier, nil, cfg)
}

func newBookingInput() *model.Booking {
	return &model.Booking{
		CompanyID:         "64b2f0c9a1e4d2f3a4b5c6d7",
		BookingSeatedDate: "2026-09-12",
		BookingSeatedTime: "18:45",
		CoversAdult:       2,
		CoversChild:       1,
	}
}

// ========== Query ==========

func TestQuery_RejectsUnknownSortField(t *testing.T) {
	svc := newService(&mockBookingRepository{}, nil, nil)

	_, _, err := svc.Query(context.Background(), "comp-1", 1, nil, "contact.email", "asc")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT for unknown sort field, got %v", err)
	}
}

func TestQuery_PaginatesAndCountsConcurrently(t *testing.T) {
	repo := &mockBookingRepository{
		countFunc: func(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 35, nil
		},
		queryFunc: func(ctx context.Context, companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) ([]*model.Booking, error) {
			time.Sleep(10 * time.Millisecond)
			if skip != 20 || limit != 10 {
				t.Errorf("page 3 should mean skip=20 limit=10, got skip=%d limit=%d", skip, limit)
			}
			return []*model.Booking{{ID: "b1"}, {ID: "b2"}}, nil
		},
	}
	svc := newService(repo, nil, nil)

	start := time.Now()
	bookings, total, err := svc.Query(context.Background(), "comp-1", 3, nil, "", "asc")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 35 || len(bookings) != 2 {
		t.Errorf("got total=%d items=%d", total, len(bookings))
	}
	if elapsed > 18*time.Millisecond {
		t.Errorf("count and find should run concurrently, took %s", elapsed)
	}
}

func TestQuery_CountFailurePropagates(t *testing.T) {
	repo := &mockBookingRepository{
		countFunc: func(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newService(repo, nil, nil)

	_, _, err := svc.Query(context.Background(), "comp-1", 1, nil, "", "asc")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

// ========== Create ==========

func TestCreate_AppliesDefaultsAndDerivesSlot(t *testing.T) {
	var stored *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "64b2f0c9a1e4d2f3a4b5c6aa"
			stored = booking
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newService(repo, nil, notifier)

	booking := newBookingInput()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.BookingStatus != model.StatusPending {
		t.Errorf("status should default to Pending, got %q", stored.BookingStatus)
	}
	if stored.Guests != 3 {
		t.Errorf("guests should be adults+children, got %d", stored.Guests)
	}
	if stored.Duration != 90 {
		t.Errorf("duration should default from config, got %d", stored.Duration)
	}
	if !strings.HasPrefix(stored.BookingReference, "BK-") || len(stored.BookingReference) != 11 {
		t.Errorf("bad reference %q", stored.BookingReference)
	}
	if got := stored.TimeSlotISO; got != "2026-09-12T18:45:00Z" {
		t.Errorf("wrong slot ISO: %q", got)
	}
	if !stored.DatetimeOfSlot.Equal(time.Date(2026, 9, 12, 18, 45, 0, 0, time.UTC)) {
		t.Errorf("wrong slot datetime: %v", stored.DatetimeOfSlot)
	}
	if len(notifier.created) != 1 {
		t.Errorf("expected one created event, got %d", len(notifier.created))
	}
}

func TestCreate_RejectsZeroAdults(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newService(&mockBookingRepository{}, nil, notifier)

	booking := newBookingInput()
	booking.CoversAdult = 0

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR for zero adults, got %v", err)
	}
	if len(notifier.created) != 0 {
		t.Error("no event may be published for a rejected booking")
	}
}

// ========== CreateWithContact ==========

func TestCreateWithContact_SameEmailTwiceReusesContact(t *testing.T) {
	contacts := &memContactRepository{}
	var createdBookings []*model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "64b2f0c9a1e4d2f3a4b5c6a" + string(rune('0'+len(createdBookings)))
			stored := *booking
			createdBookings = append(createdBookings, &stored)
			return nil
		},
	}
	svc := newService(repo, contacts, nil)

	inline := &model.NewBookingContact{
		FirstName: "Sam",
		LastName:  "Archer",
		Email:     "Sam@Example.com",
	}

	if err := svc.CreateWithContact(context.Background(), newBookingInput(), inline); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := svc.CreateWithContact(context.Background(), newBookingInput(), inline); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if len(contacts.contacts) != 1 {
		t.Fatalf("same email must resolve to one contact, got %d", len(contacts.contacts))
	}
	if len(createdBookings) != 2 {
		t.Fatalf("expected two bookings, got %d", len(createdBookings))
	}
	if createdBookings[0].ContactID != createdBookings[1].ContactID {
		t.Error("both bookings must link the same contact")
	}
	if contacts.contacts[0].Email != "sam@example.com" {
		t.Errorf("contact email not normalized: %q", contacts.contacts[0].Email)
	}
}

func TestCreateWithContact_BookingFailureRollsBack(t *testing.T) {
	contacts := &memContactRepository{}
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return errors.New("write conflict")
		},
	}
	// The fake transaction manager mirrors mongo semantics: when the
	// function errors, everything inside is discarded.
	repo.onTransaction = func(err error) {
		if err != nil {
			contacts.contacts = nil
		}
	}
	notifier := &recordingNotifier{}
	svc := newService(repo, contacts, notifier)

	inline := &model.NewBookingContact{
		FirstName: "Sam",
		LastName:  "Archer",
		Email:     "sam@example.com",
	}

	err := svc.CreateWithContact(context.Background(), newBookingInput(), inline)
	if err == nil {
		t.Fatal("expected error when booking insert fails")
	}

	if len(contacts.contacts) != 0 {
		t.Error("contact must not survive a failed booking insert")
	}
	if len(notifier.created) != 0 {
		t.Error("no created event may fire for a rolled-back transaction")
	}
}

func TestCreateWithContact_RequiresEmailOrMobile(t *testing.T) {
	svc := newService(&mockBookingRepository{}, nil, nil)

	err := svc.CreateWithContact(context.Background(), newBookingInput(), &model.NewBookingContact{
		FirstName: "Sam",
		LastName:  "Archer",
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestCreateWithContact_RejectsIdentityThatNormalizesAway(t *testing.T) {
	contacts := &memContactRepository{}
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "64b2f0c9a1e4d2f3a4b5c6a1"
			return nil
		},
	}
	svc := newService(repo, contacts, nil)

	// "junk" is not a parseable phone number, so normalization empties it.
	// The create must fail instead of storing a contact with no identity,
	// which the partial unique indexes could never deduplicate.
	inline := &model.NewBookingContact{
		FirstName: "Sam",
		LastName:  "Archer",
		Mobile:    "junk",
	}

	for i := 0; i < 2; i++ {
		err := svc.CreateWithContact(context.Background(), newBookingInput(), inline)
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
			t.Fatalf("attempt %d: expected INVALID_INPUT, got %v", i+1, err)
		}
	}
	if len(contacts.contacts) != 0 {
		t.Fatalf("no contact may be stored for an unverifiable identity, got %d", len(contacts.contacts))
	}
}

func TestCreateWithContact_ValidatesInlineContactFields(t *testing.T) {
	contacts := &memContactRepository{}
	svc := newService(&mockBookingRepository{}, contacts, nil)

	err := svc.CreateWithContact(context.Background(), newBookingInput(), &model.NewBookingContact{
		LastName: "Archer",
		Email:    "sam@example.com",
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION for missing first name, got %v", err)
	}
	if len(contacts.contacts) != 0 {
		t.Error("invalid inline contact must not be stored")
	}
}

// ========== Update ==========

func existingBooking() *model.Booking {
	return &model.Booking{
		ID:                "64b2f0c9a1e4d2f3a4b5c6aa",
		CompanyID:         "64b2f0c9a1e4d2f3a4b5c6d7",
		BookingReference:  "BK-3F9A21C4",
		BookingSeatedDate: "2026-09-12",
		BookingSeatedTime: "18:45",
		Duration:          90,
		CoversAdult:       2,
		CoversChild:       0,
		Guests:            2,
		BookingSource:     "Online",
		BookingType:       "Table",
		BookingStatus:     model.StatusPending,
		DatetimeOfSlot:    time.Date(2026, 9, 12, 18, 45, 0, 0, time.UTC),
		TimeSlotISO:       "2026-09-12T18:45:00Z",
	}
}

func TestUpdate_RecomputesSlotWhenTimeChanges(t *testing.T) {
	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, companyID, id string) (*model.Booking, error) {
			return existingBooking(), nil
		},
		updateFunc: func(ctx context.Context, companyID, id string, booking *model.Booking) error {
			updated = booking
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newService(repo, nil, notifier)

	newTime := "19:30"
	merged, err := svc.Update(context.Background(), "64b2f0c9a1e4d2f3a4b5c6d7", "64b2f0c9a1e4d2f3a4b5c6aa", &model.BookingUpdate{
		BookingSeatedTime: &newTime,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.TimeSlotISO != "2026-09-12T19:30:00Z" {
		t.Errorf("slot ISO not recomputed: %q", updated.TimeSlotISO)
	}
	if !updated.DatetimeOfSlot.Equal(time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("slot datetime not recomputed: %v", updated.DatetimeOfSlot)
	}
	// Untouched fields survive the merge.
	if merged.BookingReference != "BK-3F9A21C4" || merged.CoversAdult != 2 {
		t.Errorf("merge lost fields: %+v", merged)
	}
	if len(notifier.updated) != 1 {
		t.Errorf("expected one updated event, got %d", len(notifier.updated))
	}
}

func TestUpdate_GuestsFollowCoverChanges(t *testing.T) {
	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, companyID, id string) (*model.Booking, error) {
			return existingBooking(), nil
		},
		updateFunc: func(ctx context.Context, companyID, id string, booking *model.Booking) error {
			updated = booking
			return nil
		},
	}
	svc := newService(repo, nil, nil)

	children := 3
	_, err := svc.Update(context.Background(), "64b2f0c9a1e4d2f3a4b5c6d7", "64b2f0c9a1e4d2f3a4b5c6aa", &model.BookingUpdate{
		CoversChild: &children,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Guests != 5 {
		t.Errorf("guests must track covers, got %d", updated.Guests)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService(&mockBookingRepository{}, nil, nil)

	_, err := svc.Update(context.Background(), "comp-1", "64b2f0c9a1e4d2f3a4b5c6aa", &model.BookingUpdate{})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// ========== Delete ==========

func TestDelete_PublishesDeletedEvent(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, companyID, id string) (*model.Booking, error) {
			return existingBooking(), nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newService(repo, nil, notifier)

	if err := svc.Delete(context.Background(), "64b2f0c9a1e4d2f3a4b5c6d7", "64b2f0c9a1e4d2f3a4b5c6aa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.deleted) != 1 {
		t.Errorf("expected one deleted event, got %d", len(notifier.deleted))
	}
}

func TestDelete_NotFoundSkipsEvent(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newService(&mockBookingRepository{}, nil, notifier)

	err := svc.Delete(context.Background(), "comp-1", "64b2f0c9a1e4d2f3a4b5c6aa")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if len(notifier.deleted) != 0 {
		t.Error("no deleted event may fire when nothing was deleted")
	}
}
