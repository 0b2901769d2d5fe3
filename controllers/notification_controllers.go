package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// MyNotifications returns the caller's notifications, newest first.
func (nc *NotificationController) MyNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	var notifs []models.Notification
	if err := nc.DB.Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// MarkRead flags a notification as read. Only the recipient may do it;
// marking an already-read notification is a no-op, not an error.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	if notif.RecipientID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("access denied: not the recipient"))
		return
	}

	if !notif.Read {
		notif.Read = true
		if err := nc.DB.Save(&notif).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// UnreadCount backs the dashboard badge.
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}
