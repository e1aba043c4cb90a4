package calendar

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/onestop/core"
)

var (
	categoryTag  = "category"
	categoryText = "invalid calendar entry category"
)

// RegisterValidators registers the calendar validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	if cat, ok := fl.Field().Interface().(string); ok {
		for _, c := range AllCategories {
			if c == cat {
				return true
			}
		}
	}
	return false
}
