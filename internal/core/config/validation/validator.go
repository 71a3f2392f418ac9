package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "gopkg.in/go-playground/validator.v9"
)

// ValidateStruct uses the `validate` struct tags to do standard validation.
// Fields are reported by the environment variable that sets them when they
// have an `env` tag.
func ValidateStruct(confStruct interface{}) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(envNameOfField)

	err := validate.Struct(confStruct)
	if err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range ves {
				msgs = append(msgs, fmt.Sprintf("Validation error in field '%s': %s", e.Field(), describeTag(e)))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func envNameOfField(f reflect.StructField) string {
	if name := f.Tag.Get("env"); name != "" && name != "-" {
		return name
	}
	return f.Name
}

func describeTag(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return fmt.Sprintf("%s=%s", e.Tag(), e.Param())
}
