package models

import (
	"gorm.io/gorm"
)

// Service is a global catalog entry; services are not branch-specific.
type Service struct {
	gorm.Model
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Price       float64  `json:"precio"`
	Duration    Duration `json:"duracion" gorm:"type:jsonb"`
	Active      bool     `json:"activo" gorm:"default:true"`
	Icon        string   `json:"icono"`
	Color       string   `json:"color"`
}
