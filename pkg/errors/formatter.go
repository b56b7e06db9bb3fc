package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short or too small"
	case "max":
		return "Value is too long or too large"
	case "len":
		return "Value must be exact length"
	case "boolean":
		return "Value must be a boolean"
	default:
		return "Invalid value"
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return fieldName
	}

	parts := strings.Split(jsonTag, ",")
	return parts[0]
}

// FormatValidationErrors turns binding errors into per-field messages keyed by
// the JSON field name of model. Wrapped errors (e.g. inside an AppError) are
// unwrapped. Errors that carry no field information yield an empty list.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	var errorsList []ValidationErrorResponse

	if err == nil {
		return errorsList
	}

	var jsonErr *json.UnmarshalTypeError
	if errors.As(err, &jsonErr) {
		return []ValidationErrorResponse{
			{
				Field:   jsonErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", jsonErr.Field, jsonErr.Type, jsonErr.Value),
			},
		}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errorsList
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	errorsList = make([]ValidationErrorResponse, len(validationErrors))

	for i, fieldError := range validationErrors {
		jsonField := fieldError.Field()
		if model != nil {
			jsonField = getJSONFieldName(structType, fieldError.Field())
		}

		message := msgForTag(fieldError.Tag())

		if fieldError.Param() != "" {
			switch fieldError.Tag() {
			case "min":
				message = fmt.Sprintf("Must be at least %s characters", fieldError.Param())
			case "max":
				message = fmt.Sprintf("Must not exceed %s characters", fieldError.Param())
			case "len":
				message = fmt.Sprintf("Must be exactly %s characters", fieldError.Param())
			}
		}

		errorsList[i] = ValidationErrorResponse{
			Field:   jsonField,
			Message: message,
		}
	}

	return errorsList
}
