package model

import "time"

const (
	ContactSourceWebsite  = "Website"
	ContactSourceReferral = "Referral"
	ContactSourceEvent    = "Event"
	ContactSourceOther    = "Other"
)

type Contact struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CompanyID string `json:"company_id" bson:"company_id" validate:"required,mongodb"`

	FirstName string `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Mobile    string `json:"mobile,omitempty" bson:"mobile,omitempty" validate:"omitempty,e164"`

	BirthdayMonth *int `json:"birthday_month,omitempty" bson:"birthday_month,omitempty" validate:"omitempty,min=1,max=12"`
	BirthdayDay   *int `json:"birthday_day,omitempty" bson:"birthday_day,omitempty" validate:"omitempty,min=1,max=31"`

	CompanyName   string `json:"company_name,omitempty" bson:"company_name,omitempty" validate:"omitempty,max=200"`
	ContactSource string `json:"contact_source,omitempty" bson:"contact_source,omitempty" validate:"omitempty,oneof=Website Referral Event Other"`

	StreetAddress string `json:"street_address,omitempty" bson:"street_address,omitempty" validate:"omitempty,max=200"`
	City          string `json:"city,omitempty" bson:"city,omitempty" validate:"omitempty,max=100"`
	State         string `json:"state,omitempty" bson:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode    string `json:"postal_code,omitempty" bson:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country       string `json:"country,omitempty" bson:"country,omitempty" validate:"omitempty,max=100"`

	EmailConsent          bool       `json:"email_consent" bson:"email_consent"`
	EmailConsentTimestamp *time.Time `json:"email_consent_timestamp,omitempty" bson:"email_consent_timestamp,omitempty"`
	SMSConsent            bool       `json:"sms_consent" bson:"sms_consent"`
	SMSConsentTimestamp   *time.Time `json:"sms_consent_timestamp,omitempty" bson:"sms_consent_timestamp,omitempty"`

	Notes    string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	IsActive bool   `json:"is_active" bson:"is_active"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewBookingContact is the inline contact payload accepted by the combined
// contact-plus-booking create. At least one of email or mobile is required so
// the dedupe lookup has something to match on.
type NewBookingContact struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Mobile    string `json:"mobile,omitempty" validate:"omitempty,max=20"`
}
