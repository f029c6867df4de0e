package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validate is the shared request-body validator. The appointment
// creation pipeline does not use it: its checks run in a fixed order
// that struct validation cannot express.
var Validate = validator.New()

// ValidateStruct runs tag validation and folds the result into one
// readable message.
func ValidateStruct(s interface{}) error {
	return Validate.Struct(s)
}
