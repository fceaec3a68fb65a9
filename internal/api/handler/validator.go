package handler

import (
	"github.com/producthub/catalog-api/internal/core/validation"
)

// echoValidator lets handlers call c.Validate(req) with the same rules and
// error shape the services use.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
