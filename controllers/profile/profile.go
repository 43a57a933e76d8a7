package profile

import (
	"strconv"

	"localserve/controllers/respond"
	"localserve/middleware"
	profileService "localserve/services/profile"
	profileTypes "localserve/types/profile"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProfileController handles the address book and the vendor service
// catalog.
type ProfileController struct {
	DB      *gorm.DB
	Profile *profileService.Service
}

func NewProfileController(db *gorm.DB, profile *profileService.Service) *ProfileController {
	return &ProfileController{DB: db, Profile: profile}
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func (pc *ProfileController) ListAddresses(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	rows, err := pc.Profile.ListAddresses(claims.UserID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", rows)
}

func (pc *ProfileController) CreateAddress(c *fiber.Ctx) error {
	var req profileTypes.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	claims := middleware.CurrentUser(c)
	address, err := pc.Profile.CreateAddress(claims.UserID, profileService.AddressInput{
		Label:     req.Label,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusCreated, "ADDRESS_CREATED", "Address saved.", address)
}

func (pc *ProfileController) UpdateAddress(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid address id")
	}

	var req profileTypes.AddressUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	claims := middleware.CurrentUser(c)
	address, err := pc.Profile.UpdateAddress(claims.UserID, id, profileService.AddressUpdate{
		Label:     req.Label,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "Address updated.", address)
}

func (pc *ProfileController) DeleteAddress(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid address id")
	}

	claims := middleware.CurrentUser(c)
	if err := pc.Profile.DeleteAddress(claims.UserID, id); err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "DELETED", "Address deleted.", nil)
}

func (pc *ProfileController) AddVendorService(c *fiber.Ctx) error {
	var req profileTypes.VendorServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	claims := middleware.CurrentUser(c)
	offering, err := pc.Profile.AddVendorService(claims.UserID, profileService.VendorServiceInput{
		ServiceID:       req.ServiceID,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusCreated, "SERVICE_ADDED", "Service added.", offering)
}

func (pc *ProfileController) ListVendorServices(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	rows, err := pc.Profile.ListVendorServices(claims.UserID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", rows)
}

func (pc *ProfileController) UpdateVendorService(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid service id")
	}

	var req profileTypes.VendorServiceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	claims := middleware.CurrentUser(c)
	offering, err := pc.Profile.UpdateVendorService(claims.UserID, id, profileService.VendorServiceUpdate{
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SERVICE_UPDATED", "Service updated.", offering)
}
