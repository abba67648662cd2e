package timeline

import (
	"context"
	"time"

	bookingservice "seatplan/internal/bookings/service"
	"seatplan/pkg/config"
	apperrors "seatplan/pkg/errors"
)

// TimezoneResolver reports the IANA timezone for a company's location. An
// empty location id means the company default.
type TimezoneResolver interface {
	Timezone(ctx context.Context, companyID, locationID string) (string, error)
}

type TimelineService interface {
	Day(ctx context.Context, companyID, locationID, date string) (*Day, error)
}

type timelineService struct {
	bookings  bookingservice.BookingService
	timezones TimezoneResolver
	engine    *Engine
	now       func() time.Time
	cfg       *config.Config
}

func NewTimelineService(bookings bookingservice.BookingService, timezones TimezoneResolver, cfg *config.Config) (TimelineService, error) {
	engine, err := NewEngine(cfg.ServiceDayStart, cfg.ServiceDayEnd)
	if err != nil {
		return nil, err
	}
	return &timelineService{
		bookings:  bookings,
		timezones: timezones,
		engine:    engine,
		now:       time.Now,
		cfg:       cfg,
	}, nil
}

func (s *timelineService) Day(ctx context.Context, companyID, locationID, date string) (*Day, error) {
	bookings, err := s.bookings.FindDay(ctx, companyID, locationID, date)
	if err != nil {
		return nil, err
	}

	day, err := s.engine.Layout(date, bookings, s.now(), s.venueTimezone(ctx, companyID, locationID))
	if err != nil {
		s.cfg.Log.Error("Failed to lay out timeline", "company_id", companyID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to lay out timeline", err)
	}
	return day, nil
}

// venueTimezone falls back to UTC when the location has no usable timezone.
// A marker in the wrong zone beats a failed diary load.
func (s *timelineService) venueTimezone(ctx context.Context, companyID, locationID string) *time.Location {
	if s.timezones == nil {
		return time.UTC
	}
	name, err := s.timezones.Timezone(ctx, companyID, locationID)
	if err != nil || name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.cfg.Log.Warn("Unknown venue timezone", "company_id", companyID, "timezone", name)
		return time.UTC
	}
	return loc
}
