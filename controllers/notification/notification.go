package notification

import (
	"strconv"

	"localserve/controllers/respond"
	"localserve/middleware"
	notificationModel "localserve/models/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationController exposes a user's alert feed.
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func (nc *NotificationController) Index(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	if page < 1 {
		page = 1
	}

	q := nc.DB.Where("user_id = ?", claims.UserID)
	if c.Query("unread_only") == "true" {
		q = q.Where("is_read = false")
	}

	var rows []notificationModel.Notification
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "", rows)
}

func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return respond.BadRequest(c, "Invalid notification id")
	}

	res := nc.DB.Model(&notificationModel.Notification{}).
		Where("id = ? AND user_id = ?", id, claims.UserID).
		Update("is_read", true)
	if res.Error != nil {
		return respond.Error(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code": "NOT_FOUND", "message": "Notification not found",
		})
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "Notification marked read.", nil)
}

func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	err := nc.DB.Model(&notificationModel.Notification{}).
		Where("user_id = ? AND is_read = false", claims.UserID).
		Update("is_read", true).Error
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.OK(c, fiber.StatusOK, "SUCCESS", "All notifications marked read.", nil)
}
