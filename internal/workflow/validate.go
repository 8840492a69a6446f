package workflow

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"
)

const (
	MessageInvalidEmail   = "Please enter a valid email address (example: name@example.com)."
	MessageDuplicate      = "You have already registered for this event."
	MessageStaleEvent     = "The selected event is not available for the chosen category and date."
	messageRequiredFmt    = "%s field is required."
	messageLettersOnlyFmt = "%s should contain only letters and spaces."
)

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldErrors keeps one message per field; the first one set wins.
type fieldErrors map[string]string

func (e fieldErrors) set(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

func (e fieldErrors) has(field string) bool {
	_, ok := e[field]
	return ok
}

// list returns the errors in form order.
func (e fieldErrors) list() []FieldError {
	out := make([]FieldError, 0, len(e))
	for field, msg := range e {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool {
		return fieldIndex(out[i].Field) < fieldIndex(out[j].Field)
	})
	return out
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return lettersAndSpaces.MatchString(fl.Field().String())
	})
	return v
}

// checkFields runs the per-field rules on every field and records each failure.
func checkFields(v *validator.Validate, s Submission, errs fieldErrors) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate submission: %w", err)
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errs.set(fe.Field(), fmt.Sprintf(messageRequiredFmt, label(fe.Field())))
		case "alphaspace":
			errs.set(fe.Field(), fmt.Sprintf(messageLettersOnlyFmt, label(fe.Field())))
		case "email":
			errs.set(fe.Field(), MessageInvalidEmail)
		default:
			errs.set(fe.Field(), fmt.Sprintf("%s is invalid.", label(fe.Field())))
		}
	}
	return nil
}
