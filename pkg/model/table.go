package model

import "time"

// Table is a selectable seating unit. Capacity is informational; assignment
// does not check it against the party size.
type Table struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CompanyID string `json:"company_id" bson:"company_id" validate:"required,mongodb"`

	Name     string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Capacity int    `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	Location string `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	IsActive bool   `json:"is_active" bson:"is_active"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
