package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Y/N flag, as stored in comic_character.news_list
	validate.RegisterValidation("yn", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "Y", "N", "":
			return true
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	fieldErrors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			fieldErrors[field] = "This field is required"
		case "min":
			fieldErrors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			fieldErrors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			fieldErrors[field] = "Value must be at least " + err.Param()
		case "lte":
			fieldErrors[field] = "Value must be at most " + err.Param()
		case "gt":
			fieldErrors[field] = "Value must be greater than " + err.Param()
		case "url":
			fieldErrors[field] = "Invalid URL format"
		case "yn":
			fieldErrors[field] = "Invalid flag. Must be: Y or N"
		default:
			fieldErrors[field] = "Invalid value"
		}
	}

	return fieldErrors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
