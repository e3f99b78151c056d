package router

import (
	"fmt"
	"sync"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/variable"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the envname and varname binding tags and makes
// JSON binding reject unknown fields. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("envname", validateEnvironmentName); err != nil {
			return
		}
		err = v.RegisterValidation("varname", validateVariableName)
	})
	return err
}

func validateEnvironmentName(fl validator.FieldLevel) bool {
	return environment.IsValidName(fl.Field().String())
}

func validateVariableName(fl validator.FieldLevel) bool {
	return variable.IsValidName(fl.Field().String())
}
