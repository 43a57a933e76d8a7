package admin

import (
	"strconv"

	"localserve/controllers/respond"
	"localserve/logger"
	userModel "localserve/models/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminController exposes the minimal account administration surface.
type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

func (ac *AdminController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}

	q := ac.DB.Model(&userModel.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []userModel.User
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", users)
}

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// SetBlocked toggles an account's blocked flag. Blocked accounts are
// rejected at login with a distinct error.
func (ac *AdminController) SetBlocked(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return respond.BadRequest(c, "Invalid user id")
	}

	var req setBlockedRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	res := ac.DB.Model(&userModel.User{}).Where("id = ?", id).Update("is_blocked", req.Blocked)
	if res.Error != nil {
		return respond.Error(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code": "NOT_FOUND", "message": "User not found",
		})
	}

	logger.Infof("User %d blocked=%v", id, req.Blocked)
	return respond.OK(c, fiber.StatusOK, "SUCCESS", "User updated.", nil)
}
