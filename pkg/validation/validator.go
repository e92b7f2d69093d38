package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts validator.Validate to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New builds the validator with null-type support and the domain enum rules.
func New() (*CustomValidator, error) {
	v := validator.New()

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		return nil, err
	}

	return &CustomValidator{validator: v}, nil
}
