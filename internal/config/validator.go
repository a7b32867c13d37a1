package config

import (
	"errors"
	"os"
	"strings"

	"printgrab/internal/common"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Directory paths only need to be creatable, not pre-existing; reject
	// paths that exist but are not directories.
	_ = validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		dirPath := fl.Field().String()
		if dirPath == "" {
			return true
		}
		info, err := os.Stat(dirPath)
		if os.IsNotExist(err) {
			return true
		}
		return err == nil && info.IsDir()
	})

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				messages = append(messages, fieldErr.Namespace()+" failed on '"+fieldErr.Tag()+"'")
			}
			return common.NewError("config validation failed: %s", strings.Join(messages, "; "))
		}
		return common.WrapError(err, "config validation failed")
	}

	return nil
}
