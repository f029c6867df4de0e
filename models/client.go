package models

import (
	"gorm.io/gorm"
)

// Client is a thin 1:1 extension of User, created automatically when
// a user registers with the cliente role. Appointments and pets hang
// off the user id, so this row mostly carries registration metadata.
type Client struct {
	gorm.Model
	UserID uint `json:"usuario_id" gorm:"uniqueIndex"`
	User   User `json:"usuario,omitempty" gorm:"foreignKey:UserID"`
}
