package auth

import (
	"localserve/types"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=customer vendor"`
}

func (r RegisterRequest) Validate() error {
	return types.ValidateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return types.ValidateStruct(r)
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

func (r VerifyOTPRequest) Validate() error {
	return types.ValidateStruct(r)
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r ResendOTPRequest) Validate() error {
	return types.ValidateStruct(r)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r RefreshRequest) Validate() error {
	return types.ValidateStruct(r)
}
