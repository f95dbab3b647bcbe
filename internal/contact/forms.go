// Package contact implements the two-step inquiry form and its submission
// pipeline.
package contact

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field length limits.
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MinNameLength        = 2
	MaxNameLength        = 100
)

// DescribeForm is step one: the free-text project description.
type DescribeForm struct {
	Business string `form:"business" json:"business" validate:"required,min=10,max=5000"`
}

// DetailsForm is step two. Business is carried over from step one.
type DetailsForm struct {
	Business string `form:"business" json:"business" validate:"required,min=10,max=5000"`
	Name     string `form:"name" json:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" json:"email" validate:"required,email,max=254"`
}

// FieldErrors maps a field name to its messages.
type FieldErrors map[string][]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var messages = map[string]map[string]string{
	"business": {
		"required": "Please describe your project.",
		"min":      "Please describe your project in at least 10 characters.",
		"max":      "Please keep your description under 5000 characters.",
	},
	"name": {
		"required": "Name is required.",
		"min":      "Name must be at least 2 characters.",
		"max":      "Name must be at most 100 characters.",
	},
	"email": {
		"required": "A valid email is required.",
		"email":    "A valid email is required.",
		"max":      "A valid email is required.",
	},
}

// Normalize trims surrounding whitespace.
func (f *DescribeForm) Normalize() {
	f.Business = strings.TrimSpace(f.Business)
}

// Normalize trims surrounding whitespace.
func (f *DetailsForm) Normalize() {
	f.Business = strings.TrimSpace(f.Business)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
}

// ValidateDescribe checks step one. It returns nil when the form is valid.
func ValidateDescribe(f DescribeForm) FieldErrors {
	f.Normalize()
	return fieldErrors(validate.Struct(f))
}

// ValidateDetails checks step two. It returns nil when the form is valid.
func ValidateDetails(f DetailsForm) FieldErrors {
	f.Normalize()
	return fieldErrors(validate.Struct(f))
}

func fieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": {err.Error()}}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

// First returns the first message for field, or "".
func (e FieldErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
