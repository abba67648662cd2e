package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"
)

type mockBookingService struct {
	findDayFunc func(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error)
}

func (m *mockBookingService) Query(ctx context.Context, companyID string, page int, filters *model.BookingFilters, sortField, sortDir string) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingService) FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
	if m.findDayFunc != nil {
		return m.findDayFunc(ctx, companyID, locationID, date)
	}
	return nil, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, companyID, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) GetByShareToken(ctx context.Context, token string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) ShareToken(companyID, bookingID string) (string, error) {
	return "", nil
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingService) CreateWithContact(ctx context.Context, booking *model.Booking, contact *model.NewBookingContact) error {
	return nil
}

func (m *mockBookingService) Update(ctx context.Context, companyID, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

type staticTimezones struct {
	tz  string
	err error
}

func (s staticTimezones) Timezone(context.Context, string, string) (string, error) {
	return s.tz, s.err
}

func serviceConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ServiceDayStart: "09:00",
		ServiceDayEnd:   "19:00",
	}
}

func TestDay_LaysOutTheFeed(t *testing.T) {
	bookings := &mockBookingService{
		findDayFunc: func(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b1", BookingSeatedTime: "12:00", Duration: 90, Guests: 4},
				{ID: "b2", BookingSeatedTime: "12:30", Duration: 90, Guests: 2},
			}, nil
		},
	}
	svc, err := NewTimelineService(bookings, staticTimezones{tz: "Europe/London"}, serviceConfig())
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	day, err := svc.Day(context.Background(), "comp-1", "", "2026-09-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day.Blocks) != 2 || day.Lanes != 2 {
		t.Errorf("expected 2 blocks on 2 lanes, got %d blocks %d lanes", len(day.Blocks), day.Lanes)
	}
}

func TestDay_FeedErrorPropagates(t *testing.T) {
	bookings := &mockBookingService{
		findDayFunc: func(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
			return nil, apperrors.Internal("Failed to retrieve day bookings", errors.New("boom"))
		},
	}
	svc, err := NewTimelineService(bookings, nil, serviceConfig())
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	if _, err := svc.Day(context.Background(), "comp-1", "", "2026-09-12"); err == nil {
		t.Error("expected the feed error to surface")
	}
}

func TestDay_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	bookings := &mockBookingService{
		findDayFunc: func(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	svc, err := NewTimelineService(bookings, staticTimezones{tz: "Not/AZone"}, serviceConfig())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	impl := svc.(*timelineService)
	impl.now = func() time.Time {
		return time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	}

	day, err := svc.Day(context.Background(), "comp-1", "", "2026-09-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Noon UTC on the displayed date is inside the window, so the UTC
	// fallback still produces a marker rather than an error.
	if day.NowOffset == nil {
		t.Error("bad timezone must degrade to UTC, not fail the layout")
	}
}

func TestNewTimelineService_RejectsBadWindow(t *testing.T) {
	cfg := serviceConfig()
	cfg.ServiceDayStart = "19:00"
	cfg.ServiceDayEnd = "09:00"

	if _, err := NewTimelineService(&mockBookingService{}, nil, cfg); err == nil {
		t.Error("inverted operating window must be rejected")
	}
}
