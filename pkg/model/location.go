package model

import "time"

type Location struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CompanyID string `json:"company_id" bson:"company_id" validate:"required,mongodb"`

	PublicName   string `json:"public_name" bson:"public_name" validate:"required,min=1,max=200"`
	InternalName string `json:"internal_name,omitempty" bson:"internal_name,omitempty" validate:"omitempty,max=200"`
	Timezone     string `json:"timezone,omitempty" bson:"timezone,omitempty" validate:"omitempty,timezone"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=20"`

	IsActive bool `json:"is_active" bson:"is_active"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
