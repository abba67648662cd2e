package model

import (
	"time"
)

// Booking statuses move freely within the set; there is no transition graph.
const (
	StatusNew       = "New"
	StatusPending   = "Pending"
	StatusEnquiry   = "Enquiry"
	StatusNoShow    = "No Show"
	StatusArrived   = "Arrived"
	StatusComplete  = "Complete"
	StatusCancelled = "Cancelled"
)

type Booking struct {
	ID               string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CompanyID        string `json:"company_id" bson:"company_id" validate:"required,mongodb"`
	BookingReference string `json:"booking_reference" bson:"booking_reference" validate:"omitempty,len=11"`

	LocationID string `json:"location_id,omitempty" bson:"location_id,omitempty" validate:"omitempty,mongodb"`
	TableID    string `json:"table_id,omitempty" bson:"table_id,omitempty" validate:"omitempty,mongodb"`
	ContactID  string `json:"contact_id,omitempty" bson:"contact_id,omitempty" validate:"omitempty,mongodb"`

	BookingSeatedDate string    `json:"booking_seated_date" bson:"booking_seated_date" validate:"required,datetime=2006-01-02"`
	BookingSeatedTime string    `json:"booking_seated_time" bson:"booking_seated_time" validate:"required,datetime=15:04"`
	Duration          int       `json:"duration" bson:"duration" validate:"required,min=30,max=720"`
	DatetimeOfSlot    time.Time `json:"datetime_of_slot" bson:"datetime_of_slot"`
	TimeSlotISO       string    `json:"time_slot_iso" bson:"time_slot_iso"`

	CoversAdult int `json:"covers_adult" bson:"covers_adult" validate:"required,min=1,max=200"`
	CoversChild int `json:"covers_child" bson:"covers_child" validate:"min=0,max=200"`
	Guests      int `json:"guests" bson:"guests"`

	BookingSource   string `json:"booking_source" bson:"booking_source" validate:"omitempty,oneof='In house' Online Phone Internal"`
	BookingType     string `json:"booking_type" bson:"booking_type" validate:"omitempty,oneof=Table Function"`
	BookingOccasion string `json:"booking_occasion,omitempty" bson:"booking_occasion,omitempty" validate:"omitempty,max=100"`
	BookingStatus   string `json:"booking_status" bson:"booking_status" validate:"omitempty,oneof=New Pending Enquiry 'No Show' Arrived Complete Cancelled"`

	DepositRequired bool    `json:"deposit_required" bson:"deposit_required"`
	DepositAmount   float64 `json:"deposit_amount,omitempty" bson:"deposit_amount,omitempty" validate:"omitempty,min=0"`
	DepositPaid     bool    `json:"deposit_paid" bson:"deposit_paid"`
	PaymentAmount   float64 `json:"payment_amount,omitempty" bson:"payment_amount,omitempty" validate:"omitempty,min=0"`

	ArrivedGuests int        `json:"arrived_guests,omitempty" bson:"arrived_guests,omitempty" validate:"omitempty,min=0,max=400"`
	SeatedTime    *time.Time `json:"seated_time,omitempty" bson:"seated_time,omitempty"`
	LeftTime      *time.Time `json:"left_time,omitempty" bson:"left_time,omitempty"`

	// Tags holds ids into the Tags collection; hydration happens on demand
	// through the tags service.
	Tags            []string `json:"tags,omitempty" bson:"tags,omitempty" validate:"omitempty,dive,mongodb"`
	SpecialRequests string   `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Notes           string   `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Hydrated by the query engine's lookup stages, never stored.
	Contact  *ContactSummary  `json:"contact,omitempty" bson:"contact,omitempty"`
	Location *LocationSummary `json:"location,omitempty" bson:"location,omitempty"`
}

// BookingUpdate carries a partial merge. Nil pointers leave the stored field
// untouched; date and time changes recompute the derived slot fields.
type BookingUpdate struct {
	LocationID *string `json:"location_id,omitempty" validate:"omitempty,mongodb"`
	TableID    *string `json:"table_id,omitempty" validate:"omitempty,mongodb"`
	ContactID  *string `json:"contact_id,omitempty" validate:"omitempty,mongodb"`

	BookingSeatedDate *string `json:"booking_seated_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BookingSeatedTime *string `json:"booking_seated_time,omitempty" validate:"omitempty,datetime=15:04"`
	Duration          *int    `json:"duration,omitempty" validate:"omitempty,min=30,max=720"`

	CoversAdult *int `json:"covers_adult,omitempty" validate:"omitempty,min=1,max=200"`
	CoversChild *int `json:"covers_child,omitempty" validate:"omitempty,min=0,max=200"`

	BookingSource   *string `json:"booking_source,omitempty" validate:"omitempty,oneof='In house' Online Phone Internal"`
	BookingType     *string `json:"booking_type,omitempty" validate:"omitempty,oneof=Table Function"`
	BookingOccasion *string `json:"booking_occasion,omitempty" validate:"omitempty,max=100"`
	BookingStatus   *string `json:"booking_status,omitempty" validate:"omitempty,oneof=New Pending Enquiry 'No Show' Arrived Complete Cancelled"`

	DepositRequired *bool    `json:"deposit_required,omitempty"`
	DepositAmount   *float64 `json:"deposit_amount,omitempty" validate:"omitempty,min=0"`
	DepositPaid     *bool    `json:"deposit_paid,omitempty"`
	PaymentAmount   *float64 `json:"payment_amount,omitempty" validate:"omitempty,min=0"`

	ArrivedGuests *int       `json:"arrived_guests,omitempty" validate:"omitempty,min=0,max=400"`
	SeatedTime    *time.Time `json:"seated_time,omitempty"`
	LeftTime      *time.Time `json:"left_time,omitempty"`

	Tags            *[]string `json:"tags,omitempty" validate:"omitempty,dive,mongodb"`
	SpecialRequests *string   `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// BookingFilters narrows a booking query. All set filters AND together;
// SearchTerm alone fans out across booking and contact fields with OR.
type BookingFilters struct {
	SearchTerm string
	LocationID string
	DateFrom   string // YYYY-MM-DD inclusive
	DateTo     string // YYYY-MM-DD inclusive
	Statuses   []string
	MinGuests  *int
	MaxGuests  *int
}

type ContactSummary struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty" bson:"mobile,omitempty"`
}

type LocationSummary struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	PublicName string `json:"public_name" bson:"public_name"`
}
