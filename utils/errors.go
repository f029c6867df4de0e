package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse is the JSON error payload every handler returns.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Validation failures detected before anything is written. They are
// matched with errors.Is/errors.As in the controllers and mapped to
// 400/404/409 responses.
var (
	ErrInvalidDateFormat = errors.New("formato de fecha inválido, use YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("formato de hora inválido, use HH:MM")
	ErrPastDate          = errors.New("no se pueden agendar citas en fechas pasadas")
	ErrPetNotOwned       = errors.New("la mascota no pertenece al cliente especificado")
	ErrSlotUnavailable   = errors.New("el horario seleccionado no está disponible en esta sucursal")
	ErrNoFieldsToUpdate  = errors.New("no hay campos para actualizar")
)

// MissingFieldsError lists the required fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("los campos %s son requeridos", strings.Join(e.Fields, ", "))
}

// NotFoundError reports a missing referenced entity by kind
// (servicio, sucursal, cita, mascota, usuario).
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado", e.Kind)
}
