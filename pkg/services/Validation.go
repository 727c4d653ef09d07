package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report fields by their JSON names
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})
	})

	return validate
}

/*
validateStruct runs the struct's validate tags. Missing required fields are
reported with a single generic message. Other failures name the field.
*/
func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors

	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("error validating request: %w", err)
	}

	for _, fieldErr := range fieldErrs {
		if fieldErr.Tag() == "required" {
			return &ValidationError{Message: "Missing required fields", Err: err}
		}
	}

	fieldErr := fieldErrs[0]

	switch fieldErr.Tag() {
	case "email":
		return &ValidationError{Message: fmt.Sprintf("%s must be a valid email address", fieldErr.Field()), Err: err}
	default:
		return &ValidationError{Message: fmt.Sprintf("%s is invalid", fieldErr.Field()), Err: err}
	}
}
