package auth

import (
	"localserve/controllers/respond"
	"localserve/logger"
	"localserve/middleware"
	userModel "localserve/models/user"
	authService "localserve/services/auth"
	authTypes "localserve/types/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController is the thin HTTP boundary over the credential and session
// authority.
type AuthController struct {
	db   *gorm.DB
	auth *authService.Service
}

func NewAuthController(db *gorm.DB, auth *authService.Service) *AuthController {
	return &AuthController{db: db, auth: auth}
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	role := userModel.Role(req.Role)
	if req.Role == "" {
		role = userModel.RoleCustomer
	}

	result, err := h.auth.Register(req.Name, req.Email, req.Password, role)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusCreated, "REGISTERED",
		"Registration successful. Check your email for the OTP.", result)
}

func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req authTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	tokens, err := h.auth.VerifyAndActivate(req.Email, req.OTP)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "VERIFIED", "Email verified successfully.", tokens)
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	result, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return respond.Error(c, err)
	}

	if result.NeedsOTP {
		return respond.OK(c, fiber.StatusForbidden, "NEEDS_OTP",
			"Account not verified. OTP sent to your email.",
			fiber.Map{"email": result.Email})
	}

	return respond.OK(c, fiber.StatusOK, "LOGIN_SUCCESS", "Login successful.", result.Tokens)
}

func (h *AuthController) Refresh(c *fiber.Ctx) error {
	var req authTypes.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	result, err := h.auth.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "TOKEN_REFRESHED", "Token refreshed.", result)
}

func (h *AuthController) ResendOTP(c *fiber.Ctx) error {
	var req authTypes.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respond.BadRequest(c, err.Error())
	}

	if err := h.auth.ResendOTP(req.Email); err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "OTP_SENT", "OTP sent to your email.", nil)
}

func (h *AuthController) Logout(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	if err := h.auth.Logout(claims.UserID); err != nil {
		return respond.Error(c, err)
	}
	logger.Success("Logout successful")
	return respond.OK(c, fiber.StatusOK, "LOGGED_OUT", "Logged out successfully.", nil)
}

func (h *AuthController) Me(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	var account userModel.User
	if err := h.db.First(&account, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code": "NOT_FOUND", "message": "User not found",
		})
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", account)
}
