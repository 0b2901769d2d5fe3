package models

import "time"

// Moderation states of a listing. Every listing starts as pending and
// only an admin moves it from there.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Type        string    `gorm:"type:varchar(100);not null" json:"type"`
	Category    string    `gorm:"type:varchar(100);not null" json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	Location    string    `gorm:"type:varchar(255);not null" json:"location"`
	Size        string    `gorm:"type:varchar(100)" json:"size"`
	Rooms       int       `json:"rooms"`
	Condition   string    `gorm:"type:varchar(100)" json:"condition"`
	Status      string    `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	BrokerID    uint      `gorm:"not null;index" json:"broker_id"`
	Broker      User      `gorm:"foreignKey:BrokerID;references:ID" json:"broker"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
