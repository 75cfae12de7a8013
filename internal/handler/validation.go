package handler

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinicore/clinic-api/internal/model"
)

// RegisterValidations installs the custom request validations used by the
// slot and patient DTOs on gin's binding engine.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateOnly, fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation("timehhmm", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 5 {
			return false
		}
		_, err := time.Parse(model.TimeOfDay, s)
		return err == nil
	})
}
