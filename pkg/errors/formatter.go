package errors

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one field-scoped validation failure as returned to clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func messageForTag(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fieldError.Param() != "" {
			return fmt.Sprintf("Must be at least %s characters", fieldError.Param())
		}
		return "Value is too short"
	case "max":
		if fieldError.Param() != "" {
			return fmt.Sprintf("Must not exceed %s characters", fieldError.Param())
		}
		return "Value is too long"
	case "oneof":
		return "Must be one of the allowed values"
	default:
		return "Invalid value"
	}
}

func jsonFieldName(structType reflect.Type, fieldName string) string {
	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return fieldName
	}

	return strings.Split(jsonTag, ",")[0]
}

// FormatValidationErrors converts a gin binding error into field-scoped
// messages keyed by the model's JSON field names.
func FormatValidationErrors(err error, model interface{}) []FieldError {
	if err == nil {
		return nil
	}

	if jsonErr, ok := err.(*json.UnmarshalTypeError); ok {
		return []FieldError{{
			Field:   jsonErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", jsonErr.Field, jsonErr.Type, jsonErr.Value),
		}}
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	fieldErrors := make([]FieldError, len(validationErrors))
	for i, fieldError := range validationErrors {
		field := fieldError.Field()
		if structType != nil {
			field = jsonFieldName(structType, fieldError.Field())
		}

		fieldErrors[i] = FieldError{
			Field:   field,
			Message: messageForTag(fieldError),
		}
	}

	return fieldErrors
}
