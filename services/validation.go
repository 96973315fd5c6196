package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldValidator checks struct field constraints. *validator.Validate satisfies it.
type FieldValidator interface {
	Struct(s any) error
}

func NewFieldValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	UseJSONFieldNames(v)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// UseJSONFieldNames makes v report fields by their JSON names. It is also
// applied to gin's binding engine so request DTOs report the same names.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// BindError turns a request binding failure into a *ValidationError. A body
// that is not valid JSON is reported against the "body" field.
func BindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fromValidator(ve)
	}
	return invalid("body", "json", "request body is not valid JSON: "+err.Error())
}

// validateFields runs v on obj and converts constraint failures into a *ValidationError.
func validateFields(v FieldValidator, obj any) error {
	err := v.Struct(obj)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return fromValidator(ve)
}

func fromValidator(ve validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Violations: make([]Violation, 0, len(ve))}
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:] // drop the struct name
		}
		out.Violations = append(out.Violations, Violation{
			Field:   field,
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max", "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
