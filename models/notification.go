package models

import "time"

const (
	NotifListingApproved = "listing_approved"
	NotifListingRejected = "listing_rejected"
	NotifMessageReceived = "message_received"
	NotifNewInquiry      = "new_inquiry"
)

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID;references:ID" json:"recipient"`
	SenderID    *uint     `json:"sender_id"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	RelatedID   *uint     `gorm:"index" json:"related_id"`
	Read        bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
