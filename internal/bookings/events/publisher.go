package events

import (
	"context"
	"time"

	"seatplan/pkg/kafka"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventBookingDeleted = "booking.deleted"

	source = "seatplan-bookings"
)

// ChangeEvent is the payload carried on the booking change topic. Consumers
// treat it as an invalidation signal: the date tells them which diary day to
// refetch.
type ChangeEvent struct {
	EventType         string    `json:"event_type"`
	CompanyID         string    `json:"company_id"`
	BookingID         string    `json:"booking_id"`
	BookingReference  string    `json:"booking_reference,omitempty"`
	LocationID        string    `json:"location_id,omitempty"`
	BookingSeatedDate string    `json:"booking_seated_date,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher emits booking change events keyed by company id so each tenant's
// events stay ordered on one partition.
type Publisher struct {
	producer producer
	log      *logger.Logger
}

func NewPublisher(p producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: p,
		log:      log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingUpdated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingUpdated, booking)
}

func (p *Publisher) BookingDeleted(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingDeleted, booking)
}

// publish is fire-and-forget: a lost change event costs one stale screen
// until the next poll, never a failed booking write.
func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := ChangeEvent{
		EventType:         eventType,
		CompanyID:         booking.CompanyID,
		BookingID:         booking.ID,
		BookingReference:  booking.BookingReference,
		LocationID:        booking.LocationID,
		BookingSeatedDate: booking.BookingSeatedDate,
		OccurredAt:        time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.CompanyID).
		WithValue(event).
		WithEventType(eventType).
		WithCompanyID(booking.CompanyID).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish change event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"company_id", booking.CompanyID,
			"error", err,
		)
		return
	}

	p.log.Debug("change event published",
		"event_type", eventType,
		"booking_id", booking.ID,
		"company_id", booking.CompanyID,
	)
}
