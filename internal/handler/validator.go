package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface so
// handlers can call c.Validate on bound request bodies.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator with struct-tag validation enabled.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (val *Validator) Validate(i interface{}) error {
	return val.v.Struct(i)
}
