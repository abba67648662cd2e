package model

import "time"

const (
	TagCategoryContact = "contact"
	TagCategoryBooking = "booking"
)

// Tag is a company-scoped label attached to contacts or bookings. Category
// decides which picker offers it; sort order is the position the settings
// screen drags it into.
type Tag struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CompanyID string `json:"company_id" bson:"company_id" validate:"required,mongodb"`

	Name     string `json:"name" bson:"name" validate:"required,min=1,max=50"`
	Color    string `json:"color" bson:"color" validate:"required,hexcolor"`
	Icon     string `json:"icon,omitempty" bson:"icon,omitempty" validate:"omitempty,max=50"`
	Category string `json:"category" bson:"category" validate:"required,oneof=contact booking"`

	SortOrder int `json:"sort_order" bson:"sort_order" validate:"min=0"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TagUpdate carries a partial merge. Category is deliberately absent: moving
// a tag between pickers would strand its existing associations.
type TagUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=50"`
}
