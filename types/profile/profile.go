package profile

import (
	"localserve/types"
)

type AddressRequest struct {
	Label     string  `json:"label" validate:"omitempty,max=50"`
	Line1     string  `json:"line1" validate:"required,max=255"`
	Line2     string  `json:"line2" validate:"omitempty,max=255"`
	City      string  `json:"city" validate:"omitempty,max=100"`
	State     string  `json:"state" validate:"omitempty,max=100"`
	Pincode   string  `json:"pincode" validate:"omitempty,max=20"`
	Lat       float64 `json:"lat" validate:"omitempty,latitude"`
	Lng       float64 `json:"lng" validate:"omitempty,longitude"`
	IsDefault bool    `json:"is_default"`
}

func (r AddressRequest) Validate() error {
	return types.ValidateStruct(r)
}

type AddressUpdateRequest struct {
	Label     *string  `json:"label" validate:"omitempty,max=50"`
	Line1     *string  `json:"line1" validate:"omitempty,max=255"`
	Line2     *string  `json:"line2" validate:"omitempty,max=255"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	State     *string  `json:"state" validate:"omitempty,max=100"`
	Pincode   *string  `json:"pincode" validate:"omitempty,max=20"`
	Lat       *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng" validate:"omitempty,longitude"`
	IsDefault *bool    `json:"is_default"`
}

func (r AddressUpdateRequest) Validate() error {
	return types.ValidateStruct(r)
}

type VendorServiceRequest struct {
	ServiceID       uint    `json:"service_id" validate:"omitempty"`
	Name            string  `json:"name" validate:"omitempty,max=255"`
	Description     string  `json:"description" validate:"omitempty,max=2000"`
	BasePrice       float64 `json:"base_price" validate:"required,gt=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
}

func (r VendorServiceRequest) Validate() error {
	return types.ValidateStruct(r)
}

type VendorServiceUpdateRequest struct {
	BasePrice       *float64 `json:"base_price" validate:"omitempty,gt=0"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	IsActive        *bool    `json:"is_active"`
}

func (r VendorServiceUpdateRequest) Validate() error {
	return types.ValidateStruct(r)
}
