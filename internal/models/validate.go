package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator builds the shared validator instance. Prices are decimal.Decimal,
// which the validator cannot compare natively, so they are exposed as float64
// to make tags like "gt=0" work.
func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their JSON names ("quantiteStock", not "QuantiteStock").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkStruct runs the validator tags of an entity and translates failures
// into a domain ValidationError with one French message per offending field.
func checkStruct(entity interface{}) error {
	if err := validate.Struct(entity); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		fields := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			fields[fe.Field()] = messageFor(fe)
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

// messageFor renders a field error in the API's domain language.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "est obligatoire"
	case "min":
		return fmt.Sprintf("doit contenir au moins %s caractères", fe.Param())
	case "max":
		return fmt.Sprintf("ne doit pas dépasser %s caractères", fe.Param())
	case "gt":
		return fmt.Sprintf("doit être supérieur à %s", fe.Param())
	case "gte":
		return "ne peut pas être négatif"
	case "email":
		return "format d'email invalide"
	case "hexcolor":
		return "doit être au format #RRGGBB"
	default:
		return fmt.Sprintf("est invalide (règle '%s')", fe.Tag())
	}
}
