package req

import (
	"errors"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/xy-planning-network/wayfarer"
)

// newValidate configures a *v10.Validate reporting fields by the name a client sends them as.
//
// Besides the built-in rules, "enum" checks a wayfarer.Enumerable, or each element of a slice of them.
func newValidate() *v10.Validate {
	v := v10.New()
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("enum", func(fl v10.FieldLevel) bool { return validEnums(fl.Field()) })

	return v
}

// fieldName prefers the json name of field, then its schema name.
// Fields hidden from both keep their Go name.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "schema"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return ""
}

// validate runs the "validate" struct tag rules on structPtr,
// collecting every broken rule into ValidationErrors.
func (p *Parser) validate(structPtr any) error {
	var fes v10.ValidationErrors
	if err := p.validator.Struct(structPtr); !errors.As(err, &fes) {
		return err
	}

	verrs := make(ValidationErrors, len(fes))
	for i, fe := range fes {
		verrs[i] = toValidationError(fe)
	}

	return verrs
}

// toValidationError renders fe with its path relative to the top-level struct
// and its rule as "tag=param; type".
func toValidationError(fe v10.FieldError) ValidationError {
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		field = fe.Namespace()
	}

	var rule strings.Builder
	rule.WriteString(fe.Tag())
	if fe.Param() != "" {
		rule.WriteString("=" + fe.Param())
	}
	rule.WriteString("; " + fe.Type().String())

	return ValidationError{Field: field, Got: fe.Value(), Rule: rule.String()}
}

// validEnums asserts field is a valid wayfarer.Enumerable
// or a non-empty slice holding nothing else.
func validEnums(field reflect.Value) bool {
	items := []reflect.Value{field}
	if field.Kind() == reflect.Slice {
		if field.Len() == 0 {
			return false
		}

		items = make([]reflect.Value, field.Len())
		for i := range items {
			items[i] = field.Index(i)
		}
	}

	for _, item := range items {
		enum, ok := item.Interface().(wayfarer.Enumerable)
		if !ok || enum.Valid() != nil {
			return false
		}
	}

	return true
}
