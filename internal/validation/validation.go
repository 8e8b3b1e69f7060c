// Package validation checks API requests with go-playground/validator and
// renders failures as English messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// Error lists the failed constraints of a request.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validator validates structs tagged with `validate:"..."`.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New returns a Validator with English messages. Field names in messages are
// taken from the json tag. Decimal fields are compared as numbers, so
// `validate:"gt=0"` works on money.
// It panics if the English translations cannot be registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	eng := en.New()
	uni := ut.New(eng, eng)
	translator, found := uni.GetTranslator("en")
	if !found {
		panic("validation: translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}

	return &Validator{validate: v, translator: translator}
}

// Struct validates s. Constraint failures are returned as *Error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = fe.Translate(v.translator)
	}
	return &Error{Messages: messages}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
