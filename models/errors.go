package models

import "errors"

// Transition guard failures. Controllers map these onto 400 responses
// with the same wording the dashboards already display.
var (
	ErrCompletedNeedsOverride = errors.New("no se puede modificar una cita completada sin autorización administrativa")
	ErrConfirmedOnlyCancel    = errors.New("no se puede modificar una cita confirmada, solo se puede cancelar")
	ErrCanceledIsTerminal     = errors.New("no se puede modificar una cita cancelada")
	ErrInvalidStatus          = errors.New("estado de cita inválido")
)
