package models

import (
	"gorm.io/gorm"
)

type AppointmentStatus string

// Wire values stay in Spanish; that is the contract the clinic's
// dashboards already speak.
const (
	StatusPending   AppointmentStatus = "pendiente"
	StatusConfirmed AppointmentStatus = "confirmada"
	StatusCompleted AppointmentStatus = "completada"
	StatusCanceled  AppointmentStatus = "cancelada"
)

// ValidStatus reports whether s is one of the four known states.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment is a booked service occurrence (cita). Date and Time
// are kept as plain strings: the slot key is the literal
// (fecha, hora, sucursal_id) triple and no timezone resolution is
// attempted on it.
type Appointment struct {
	gorm.Model
	ClientID     uint              `json:"cliente_id"`
	Client       User              `json:"cliente,omitempty" gorm:"foreignKey:ClientID"`
	PetID        uint              `json:"mascota_id"`
	Pet          Pet               `json:"mascota,omitempty" gorm:"foreignKey:PetID"`
	ServiceID    uint              `json:"servicio_id"`
	Service      Service           `json:"servicio,omitempty" gorm:"foreignKey:ServiceID"`
	BranchID     uint              `json:"sucursal_id" gorm:"index:idx_slot"`
	Branch       Branch            `json:"sucursal,omitempty" gorm:"foreignKey:BranchID"`
	Date         string            `json:"fecha" gorm:"index:idx_slot"` // "YYYY-MM-DD"
	Time         string            `json:"hora" gorm:"index:idx_slot"`  // "HH:MM"
	Status       AppointmentStatus `json:"estado"`
	Motive       string            `json:"motivo"`
	Observations string            `json:"observaciones"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// CanBeDeleted reports whether the row may be removed outright.
// Confirmed and completed appointments must be canceled instead.
func (a *Appointment) CanBeDeleted() bool {
	return a.Status == StatusPending || a.Status == StatusCanceled
}

// AppointmentUpdate carries the mutable fields of an update request.
// Nil means "leave unchanged". Force is the caller-supplied override
// capability; it is honored by the guard and never persisted.
type AppointmentUpdate struct {
	Date         *string            `json:"fecha"`
	Time         *string            `json:"hora"`
	BranchID     *uint              `json:"sucursal_id"`
	Status       *AppointmentStatus `json:"estado"`
	Motive       *string            `json:"motivo"`
	Observations *string            `json:"observaciones"`
	Force        bool               `json:"force"`
}

// IsEmpty reports whether the request carries no field changes.
func (u *AppointmentUpdate) IsEmpty() bool {
	return u.Date == nil && u.Time == nil && u.BranchID == nil &&
		u.Status == nil && u.Motive == nil && u.Observations == nil
}

// CancelsAppointment reports whether the update sets the status to
// canceled. Past dates are tolerated on cancellation.
func (u *AppointmentUpdate) CancelsAppointment() bool {
	return u.Status != nil && *u.Status == StatusCanceled
}

// ChangesSchedule reports whether the update moves the appointment to
// a different (date, time) than the stored one.
func (u *AppointmentUpdate) ChangesSchedule(a *Appointment) bool {
	if u.Date != nil && *u.Date != a.Date {
		return true
	}
	if u.Time != nil && *u.Time != a.Time {
		return true
	}
	return false
}

// TargetSlot resolves the slot the updated appointment would occupy,
// falling back to the stored values for fields not supplied.
func (u *AppointmentUpdate) TargetSlot(a *Appointment) (date, hour string, branchID uint) {
	date, hour, branchID = a.Date, a.Time, a.BranchID
	if u.Date != nil {
		date = *u.Date
	}
	if u.Time != nil {
		hour = *u.Time
	}
	if u.BranchID != nil {
		branchID = *u.BranchID
	}
	return date, hour, branchID
}

// Changes builds the gorm column map for the update. Force is
// deliberately absent: the override flag must never reach storage.
func (u *AppointmentUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if u.Date != nil {
		changes["date"] = *u.Date
	}
	if u.Time != nil {
		changes["time"] = *u.Time
	}
	if u.BranchID != nil {
		changes["branch_id"] = *u.BranchID
	}
	if u.Status != nil {
		changes["status"] = *u.Status
	}
	if u.Motive != nil {
		changes["motive"] = *u.Motive
	}
	if u.Observations != nil {
		changes["observations"] = *u.Observations
	}
	return changes
}

// GuardUpdate enforces the state transition rules before any field
// change is applied. Override is true when the caller is an admin or
// sent force=true; it is an authorization capability asserted by the
// layer above, not inferred from request metadata.
//
//	pending   -> any change
//	confirmed -> status to canceled only, unless override
//	completed -> nothing, unless override
//	canceled  -> terminal
func (a *Appointment) GuardUpdate(u *AppointmentUpdate, override bool) error {
	if u.Status != nil && !ValidStatus(*u.Status) {
		return ErrInvalidStatus
	}

	switch a.Status {
	case StatusCanceled:
		return ErrCanceledIsTerminal
	case StatusCompleted:
		if !override {
			return ErrCompletedNeedsOverride
		}
	case StatusConfirmed:
		if override {
			return nil
		}
		onlyStatus := u.Date == nil && u.Time == nil && u.BranchID == nil &&
			u.Motive == nil && u.Observations == nil
		if !onlyStatus || !u.CancelsAppointment() {
			return ErrConfirmedOnlyCancel
		}
	}
	return nil
}
