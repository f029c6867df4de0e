package models

import (
	"gorm.io/gorm"
)

type Department struct {
	gorm.Model
	Name string `json:"nombre"`
}

type Municipality struct {
	gorm.Model
	Name         string     `json:"nombre"`
	DepartmentID uint       `json:"departamento_id"`
	Department   Department `json:"departamento,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Branch is a physical clinic location. It owns its schedule rows:
// weekly operating hours, per-date overrides and non-working days.
// Schedule edits replace those rows as a batch (see the branch
// controller), so none of them are exposed as standalone resources.
type Branch struct {
	gorm.Model
	Name           string          `json:"nombre"`
	Address        string          `json:"direccion"`
	Phone          string          `json:"telefono"`
	MunicipalityID uint            `json:"municipio_id"`
	Municipality   Municipality    `json:"municipio,omitempty" gorm:"foreignKey:MunicipalityID"`
	Hours          []BranchHours   `json:"horarios,omitempty" gorm:"foreignKey:BranchID"`
	SpecialHours   []SpecialHours  `json:"horarios_especiales,omitempty" gorm:"foreignKey:BranchID"`
	NonWorkingDays []NonWorkingDay `json:"dias_no_laborables,omitempty" gorm:"foreignKey:BranchID"`
}

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// BranchHours is one weekly operating-hours row, one per weekday.
type BranchHours struct {
	gorm.Model
	BranchID  uint      `json:"sucursal_id"`
	DayOfWeek DayOfWeek `json:"dia_semana"`
	StartTime string    `json:"hora_inicio"` // "HH:MM" in 24h
	EndTime   string    `json:"hora_fin"`    // "HH:MM" in 24h
	Active    bool      `json:"activo" gorm:"default:true"`
}

// SpecialHours overrides the weekly schedule for a single date.
type SpecialHours struct {
	gorm.Model
	BranchID  uint   `json:"sucursal_id"`
	Date      string `json:"fecha"` // "YYYY-MM-DD"
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fin"`
	Reason    string `json:"motivo"`
}

// NonWorkingDay marks a date the branch does not open at all.
type NonWorkingDay struct {
	gorm.Model
	BranchID uint   `json:"sucursal_id"`
	Date     string `json:"fecha"` // "YYYY-MM-DD"
	Reason   string `json:"motivo"`
}
