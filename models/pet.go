package models

import (
	"gorm.io/gorm"
)

type Pet struct {
	gorm.Model
	Name         string  `json:"nombre"`
	Species      string  `json:"especie"`
	Breed        string  `json:"raza"`
	Age          int     `json:"edad"`
	Weight       float64 `json:"peso"`
	Observations string  `json:"observaciones"`
	HealthStatus string  `json:"estado_salud" gorm:"default:bueno"`
	PictureURL   string  `json:"imagen"`
	ClientID     uint    `json:"cliente_id"`
	Client       User    `json:"cliente,omitempty" gorm:"foreignKey:ClientID"`
}

// BelongsTo reports whether the pet is owned by the given client.
func (p *Pet) BelongsTo(clientID uint) bool {
	return p.ClientID == clientID
}
