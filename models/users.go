package models

import "time"

// Roles are a closed set; anything else is rejected at registration
// and at every authorization check.
const (
	RoleClient = "client"
	RoleBroker = "broker"
	RoleAdmin  = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleBroker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(32);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
