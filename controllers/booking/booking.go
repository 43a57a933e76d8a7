package booking

import (
	"strconv"

	"localserve/controllers/respond"
	"localserve/middleware"
	bookingModel "localserve/models/booking"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"
	bookingService "localserve/services/booking"
	ratingService "localserve/services/rating"
	bookingTypes "localserve/types/booking"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking lifecycle requests.
type BookingController struct {
	DB      *gorm.DB
	Booking *bookingService.Service
	Rating  *ratingService.Service
}

func NewBookingController(db *gorm.DB, booking *bookingService.Service, rating *ratingService.Service) *BookingController {
	return &BookingController{DB: db, Booking: booking, Rating: rating}
}

func actorFrom(c *fiber.Ctx) bookingService.Actor {
	claims := middleware.CurrentUser(c)
	return bookingService.Actor{UserID: claims.UserID, Role: claims.Role}
}

func bookingID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

// Store creates a new booking request. The plaintext job OTP appears only
// in this customer-facing response.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	result, err := bc.Booking.Create(actorFrom(c), bookingService.CreateInput{
		VendorID:      req.VendorID,
		ServiceID:     req.ServiceID,
		AddressID:     req.AddressID,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusCreated, "BOOKING_CREATED",
		"Booking request sent to vendor.", result)
}

// Index lists the caller's bookings, role-scoped.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}

	q := bc.DB.Model(&bookingModel.Booking{})

	switch claims.Role {
	case userModel.RoleCustomer:
		q = q.Where("customer_id = ?", claims.UserID)
	case userModel.RoleVendor:
		var profile vendorModel.VendorProfile
		if err := bc.DB.Where("user_id = ?", claims.UserID).First(&profile).Error; err == nil {
			q = q.Where("vendor_id = ?", profile.ID)
		}
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []bookingModel.Booking
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&bookings).Error
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", bookings)
}

// Show returns one booking with its full history.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid booking id")
	}

	var booking bookingModel.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code": "NOT_FOUND", "message": "Booking not found",
		})
	}

	history, err := bc.Booking.History(booking.ID)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", fiber.Map{
		"booking": booking,
		"history": history,
	})
}

// UpdateStatus drives a state-machine transition.
func (bc *BookingController) UpdateStatus(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid booking id")
	}

	var req bookingTypes.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	booking, err := bc.Booking.UpdateStatus(actorFrom(c), id, bookingModel.Status(req.Status), req.Reason)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "STATUS_UPDATED",
		"Booking "+req.Status+".", fiber.Map{"id": booking.ID, "status": booking.Status})
}

// VerifyJobOTP lets the vendor start the job with the customer's on-site
// code.
func (bc *BookingController) VerifyJobOTP(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid booking id")
	}

	var req bookingTypes.VerifyJobOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	if _, err := bc.Booking.VerifyJobOTP(actorFrom(c), id, req.OTP); err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "OTP_VERIFIED", "Job OTP verified. Job started.", nil)
}

// UpdatePrice lets the vendor revise the final price with a reason.
func (bc *BookingController) UpdatePrice(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid booking id")
	}

	var req bookingTypes.PriceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	if err := bc.Booking.UpdatePrice(actorFrom(c), id, req.FinalPrice, req.Reason); err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "PRICE_UPDATED", "Price updated successfully.", nil)
}

// Rate submits the customer's rating for a completed booking.
func (bc *BookingController) Rate(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return respond.BadRequest(c, "Invalid booking id")
	}

	var req bookingTypes.RateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	claims := middleware.CurrentUser(c)
	if _, err := bc.Rating.Submit(claims.UserID, id, req.Score, req.Review); err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "RATING_SUBMITTED",
		"Rating submitted. It will be published shortly.", nil)
}
