package services

import (
	"fmt"

	"github.com/bims-project/bims-backend/events"
	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/realtime"
	"github.com/bims-project/bims-backend/utils"
	"gorm.io/gorm"
)

// NotifierService records a notification for the owning broker every
// time an admin moves a listing to approved or rejected, and pushes it
// to the broker's live connections.
type NotifierService struct {
	DB *gorm.DB
}

func NewNotifierService(db *gorm.DB) *NotifierService {
	return &NotifierService{DB: db}
}

// Register subscribes the service to listing status events.
func (ns *NotifierService) Register() {
	events.OnStatusChange(ns.handleStatusChange)
}

func (ns *NotifierService) handleStatusChange(ev events.ListingStatusEvent) {
	var notifType, message string
	switch ev.Status {
	case models.StatusApproved:
		notifType = models.NotifListingApproved
		message = fmt.Sprintf("Your listing %q has been approved!", ev.Title)
	case models.StatusRejected:
		notifType = models.NotifListingRejected
		message = fmt.Sprintf("Your listing %q has been rejected. Please review and resubmit.", ev.Title)
	default:
		return
	}

	listingID := ev.ListingID
	adminID := ev.AdminID

	notif := models.Notification{
		RecipientID: ev.BrokerID,
		SenderID:    &adminID,
		Type:        notifType,
		Message:     message,
		RelatedID:   &listingID,
	}

	// The status change is already committed; a failed notification
	// write is logged, never rolled back into the transition.
	if err := ns.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("failed to record %s notification for listing %d: %v", notifType, ev.ListingID, err)
		return
	}

	realtime.PushToUser(ev.BrokerID, realtime.Message{
		Event: realtime.EventNotification,
		Data:  notif,
	})
	realtime.PushToUser(ev.BrokerID, realtime.Message{
		Event: realtime.EventListingUpdate,
		Data:  map[string]interface{}{"listing_id": ev.ListingID, "status": ev.Status},
	})
}
