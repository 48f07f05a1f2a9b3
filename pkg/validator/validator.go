// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

type Validator struct {
	validate *validator.Validate
}

// Violation describes one failed rule. Field is the query parameter name
// taken from the `query` tag (falling back to `json`, then the Go name).
type Violation struct {
	Field string
	Tag   string
	Param string
	Value string
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.validate.RegisterTagNameFunc(fieldName)
	v.registerCustomValidations()
	return v
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"query", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Violations returns every failed rule in struct field order. A nil result
// means the value is valid.
func (v *Validator) Violations(i interface{}) ([]Violation, error) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	out := make([]Violation, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, Violation{
			Field: e.Field(),
			Tag:   e.Tag(),
			Param: e.Param(),
			Value: fmt.Sprint(e.Value()),
		})
	}
	return out, nil
}

func (v *Validator) registerCustomValidations() {
	_ = v.validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(DateLayout) {
			return false
		}
		_, err := time.Parse(DateLayout, s)
		return err == nil
	})
}
