package store

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

// NewValidator returns a validator knowing every tag used by the store inputs.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	calendar.RegisterValidators(validate, translator)
	return validate
}
