package controllers

import (
	"errors"
	"net/http"

	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats returns the aggregate counts shown on the admin
// dashboard. Field names match the frontend contract.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalUsers     int64 `json:"totalUsers"`
		ActiveBrokers  int64 `json:"activeBrokers"`
		TotalListings  int64 `json:"totalListings"`
		PendingReviews int64 `json:"pendingReviews"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleBroker).Count(&stats.ActiveBrokers)
	ac.DB.Model(&models.Listing{}).Count(&stats.TotalListings)
	ac.DB.Model(&models.Listing{}).Where("status = ?", models.StatusPending).Count(&stats.PendingReviews)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// PendingListings returns the moderation queue, newest first.
func (ac *AdminController) PendingListings(c *gin.Context) {
	var listings []models.Listing
	if err := ac.DB.Preload("Broker").
		Where("status = ?", models.StatusPending).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending listings", listings)
}

// ApproveListing moves a listing to approved and notifies its broker.
func (ac *AdminController) ApproveListing(c *gin.Context) {
	ac.moderate(c, models.StatusApproved, "Listing approved")
}

// RejectListing moves a listing to rejected and notifies its broker.
func (ac *AdminController) RejectListing(c *gin.Context) {
	ac.moderate(c, models.StatusRejected, "Listing rejected")
}

func (ac *AdminController) moderate(c *gin.Context, status string, message string) {
	adminID := c.GetUint("user_id")

	listing, err := setListingStatus(ac.DB, c.Param("id"), status, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, message, listing)
}

// SentNotifications lists the notifications the calling admin has sent.
func (ac *AdminController) SentNotifications(c *gin.Context) {
	adminID := c.GetUint("user_id")

	var notifs []models.Notification
	if err := ac.DB.Preload("Recipient").
		Where("sender_id = ?", adminID).
		Order("created_at DESC").
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sent notifications", notifs)
}
