package booking

import (
	"localserve/types"
)

type CreateRequest struct {
	VendorID      uint   `json:"vendor_id" validate:"required"`
	ServiceID     uint   `json:"service_id" validate:"required"`
	AddressID     uint   `json:"address_id" validate:"required"`
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduled_time" validate:"required,datetime=15:04"`
	Notes         string `json:"notes" validate:"omitempty,max=2000"`
}

func (r CreateRequest) Validate() error {
	return types.ValidateStruct(r)
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected on_the_way arrived completed cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

func (r StatusUpdateRequest) Validate() error {
	return types.ValidateStruct(r)
}

type VerifyJobOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=4,numeric"`
}

func (r VerifyJobOTPRequest) Validate() error {
	return types.ValidateStruct(r)
}

type PriceUpdateRequest struct {
	FinalPrice float64 `json:"final_price" validate:"required,gt=0"`
	Reason     string  `json:"reason" validate:"required,max=2000"`
}

func (r PriceUpdateRequest) Validate() error {
	return types.ValidateStruct(r)
}

type RateRequest struct {
	Score  int    `json:"score" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"omitempty,max=4000"`
}

func (r RateRequest) Validate() error {
	return types.ValidateStruct(r)
}
