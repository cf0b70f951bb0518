package util

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a validation detail list.
type FieldError struct {
	Field  string `json:"field"`
	Rule   string `json:"rule"`
	Detail string `json:"detail,omitempty"`
}

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Services validate the same tags gin enforces at the binding layer.
	v.SetTagName("binding")
	return &ValidationUtil{validate: v}
}

// ValidateStruct validates a request body against its struct tags and
// returns the per-field detail list on failure.
func (v *ValidationUtil) ValidateStruct(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	if details := FieldErrors(err); details != nil {
		return details
	}
	return []FieldError{{Field: "", Rule: "invalid", Detail: err.Error()}}
}

// FieldErrors extracts the per-field detail list from a validator error,
// including the ones gin binding surfaces. Nil when err is not one.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
		})
	}
	return details
}
