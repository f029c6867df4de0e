package models

import (
	"time"
)

// Roles carried by usuarios. There is no permission matrix behind
// them: the three roles map directly onto the three dashboards
// (client, sales desk, admin) the clinic operates.
const (
	RoleClient string = "cliente"
	RoleVendor string = "vendedor"
	RoleAdmin  string = "admin"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"password,omitempty"`
	Phone     string    `json:"telefono"`
	Address   string    `json:"direccion"`
	Role      string    `json:"rol" gorm:"default:cliente"`
	Pets      []Pet     `json:"mascotas,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether this user carries the administrative
// override capability used by the appointment transition guard.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
