package validation

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
)

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder collects every failing rule instead of stopping at the
// first one, so a client sees all problems with a request at once.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.ValidationError {
	return &errors.ValidationError{Field: fv.FieldName, Message: message, Code: string(code)}
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = v == ""
		case int64:
			missing = v == 0
		case int:
			missing = v == 0
		case time.Time:
			missing = v.IsZero()
		case *string:
			missing = v == nil || *v == ""
		case nil:
			missing = true
		}
		if missing {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Positive(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		default:
			return nil
		}
		if n <= 0 {
			return fv.fail(fmt.Sprintf("%s must be greater than zero", fv.FieldName), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if v, ok := value.(string); ok && len([]rune(v)) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), code)
		}
		return nil
	})
	return fv
}

// NotBefore fails when the field's date is strictly before other.
func (fv *FieldValidator) NotBefore(otherName string, other time.Time, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		v, ok := value.(time.Time)
		if !ok || v.IsZero() || other.IsZero() {
			return nil
		}
		if v.Before(other) {
			return fv.fail(fmt.Sprintf("%s must not be before %s", fv.FieldName, otherName), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.ValidationError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate returns nil or a validation AppError listing every failure.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var failures []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if verr := validator(field.Value); verr != nil {
				failures = append(failures, *verr)
				// one message per field keeps responses readable
				break
			}
		}
	}

	if len(failures) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: failures})
	}

	return nil
}
