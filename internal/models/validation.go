package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every failing field of a record, not just the first.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, problem string) {
	e.Fields[field] = append(e.Fields[field], problem)
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		for _, problem := range e.Fields[name] {
			parts = append(parts, name+" "+problem)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks entries against the struct tags on Entry.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return Mood(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// Validate returns e unchanged when it is valid, or a *ValidationError
// naming every failing field.
func (v *Validator) Validate(e Entry) (Entry, error) {
	err := v.validate.Struct(e)
	if err == nil {
		return e, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Entry{}, err
	}

	verr := NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), describe(fe))
	}
	return Entry{}, verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "mood":
		names := make([]string, len(Moods))
		for i, m := range Moods {
			names[i] = string(m)
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(names, ", "))
	default:
		return "is invalid"
	}
}
