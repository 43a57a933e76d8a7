package profile

import (
	"errors"
	"fmt"

	"localserve/apperr"
	"localserve/logger"
	addressModel "localserve/models/address"
	serviceModel "localserve/models/service"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"

	"gorm.io/gorm"
)

// MaxAddresses caps how many saved addresses one user may keep.
const MaxAddresses = 4

// Service manages a user's address book and a vendor's service catalog.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// AddressInput is the validated address payload.
type AddressInput struct {
	Label     string
	Line1     string
	Line2     string
	City      string
	State     string
	Pincode   string
	Lat       float64
	Lng       float64
	IsDefault bool
}

// AddressUpdate carries partial address changes; nil fields are untouched.
type AddressUpdate struct {
	Label     *string
	Line1     *string
	Line2     *string
	City      *string
	State     *string
	Pincode   *string
	Lat       *float64
	Lng       *float64
	IsDefault *bool
}

// ListAddresses returns the user's address book, default first.
func (s *Service) ListAddresses(userID uint) ([]addressModel.Address, error) {
	var rows []addressModel.Address
	err := s.DB.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// CreateAddress saves a new address. Marking it default strips the flag
// from the rest of the book in the same transaction.
func (s *Service) CreateAddress(userID uint, in AddressInput) (*addressModel.Address, error) {
	var count int64
	if err := s.DB.Model(&addressModel.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if count >= MaxAddresses {
		return nil, apperr.New("LIMIT_REACHED",
			fmt.Sprintf("Maximum %d addresses allowed.", MaxAddresses), 400)
	}

	address := addressModel.Address{
		UserID:    userID,
		Label:     in.Label,
		Line1:     in.Line1,
		Line2:     in.Line2,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		Lat:       in.Lat,
		Lng:       in.Lng,
		IsDefault: in.IsDefault,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := tx.Model(&addressModel.Address{}).
				Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create address: %w", err))
	}
	return &address, nil
}

// UpdateAddress applies a partial change to one of the caller's own
// addresses.
func (s *Service) UpdateAddress(userID, addressID uint, in AddressUpdate) (*addressModel.Address, error) {
	var address addressModel.Address
	err := s.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Address not found")
		}
		return nil, apperr.Internal(err)
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setString("label", in.Label)
	setString("line1", in.Line1)
	setString("line2", in.Line2)
	setString("city", in.City)
	setString("state", in.State)
	setString("pincode", in.Pincode)
	if in.Lat != nil {
		updates["lat"] = *in.Lat
	}
	if in.Lng != nil {
		updates["lng"] = *in.Lng
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if in.IsDefault != nil && *in.IsDefault {
			if err := tx.Model(&addressModel.Address{}).
				Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
				return err
			}
			updates["is_default"] = true
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&address).Updates(updates).Error
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to update address: %w", err))
	}

	if err := s.DB.First(&address, addressID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &address, nil
}

// DeleteAddress removes one of the caller's own addresses.
func (s *Service) DeleteAddress(userID, addressID uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&addressModel.Address{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Address not found")
	}
	return nil
}

// VendorServiceInput creates a priced offering. Either ServiceID references
// an existing catalog entry, or Name opens a new custom one.
type VendorServiceInput struct {
	ServiceID       uint
	Name            string
	Description     string
	BasePrice       float64
	DurationMinutes int
}

// VendorServiceUpdate carries partial offering changes; nil fields are
// untouched.
type VendorServiceUpdate struct {
	BasePrice       *float64
	DurationMinutes *int
	Description     *string
	IsActive        *bool
}

// vendorProfileFor resolves the caller's vendor profile, creating it on
// first use the same way activation does.
func (s *Service) vendorProfileFor(userID uint) (*vendorModel.VendorProfile, error) {
	var profile vendorModel.VendorProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	var account userModel.User
	if err := s.DB.First(&account, userID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	profile = vendorModel.VendorProfile{
		UserID:       userID,
		BusinessName: account.Name,
		KYCStatus:    "pending",
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	logger.Infof("Created vendor profile for user %d", userID)
	return &profile, nil
}

// AddVendorService prices an offering for the caller's vendor profile.
func (s *Service) AddVendorService(userID uint, in VendorServiceInput) (*serviceModel.VendorService, error) {
	if in.BasePrice <= 0 {
		return nil, apperr.Validation("Base price must be positive.")
	}

	profile, err := s.vendorProfileFor(userID)
	if err != nil {
		return nil, err
	}

	serviceID := in.ServiceID
	if serviceID == 0 {
		if in.Name == "" {
			return nil, apperr.Validation("Provide either service_id or a service name.")
		}
		catalog := serviceModel.Service{Name: in.Name, Description: in.Description}
		if catalog.Description == "" {
			catalog.Description = in.Name
		}
		if err := s.DB.Create(&catalog).Error; err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to create service: %w", err))
		}
		serviceID = catalog.ID
	} else {
		var catalog serviceModel.Service
		if err := s.DB.First(&catalog, serviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Service not found.")
			}
			return nil, apperr.Internal(err)
		}
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	offering := serviceModel.VendorService{
		VendorID:        profile.ID,
		ServiceID:       serviceID,
		BasePrice:       in.BasePrice,
		DurationMinutes: duration,
		Description:     in.Description,
		IsActive:        true,
	}
	if err := s.DB.Create(&offering).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create vendor service: %w", err))
	}
	return &offering, nil
}

// ListVendorServices returns the caller's offerings, newest first.
func (s *Service) ListVendorServices(userID uint) ([]serviceModel.VendorService, error) {
	profile, err := s.vendorProfileFor(userID)
	if err != nil {
		return nil, err
	}

	var rows []serviceModel.VendorService
	err = s.DB.Where("vendor_id = ?", profile.ID).
		Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// UpdateVendorService applies a partial change to one of the caller's own
// offerings.
func (s *Service) UpdateVendorService(userID, offeringID uint, in VendorServiceUpdate) (*serviceModel.VendorService, error) {
	var profile vendorModel.VendorProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Vendor profile not found")
		}
		return nil, apperr.Internal(err)
	}

	updates := map[string]interface{}{}
	if in.BasePrice != nil {
		updates["base_price"] = *in.BasePrice
	}
	if in.DurationMinutes != nil {
		updates["duration_minutes"] = *in.DurationMinutes
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	var offering serviceModel.VendorService
	err = s.DB.Where("id = ? AND vendor_id = ?", offeringID, profile.ID).First(&offering).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Service not found")
		}
		return nil, apperr.Internal(err)
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&offering).Updates(updates).Error; err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to update vendor service: %w", err))
		}
	}

	if err := s.DB.First(&offering, offeringID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &offering, nil
}
