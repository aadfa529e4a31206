package http

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"disclosure-intake/internal/domain/submission"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload. Value only ever carries a masked rendering.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reHex32      = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reCardExpiry = regexp.MustCompile(`^(\d{2})/(\d{2}|\d{4})$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names (personalInfo.birthDate) instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	// submission id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// DD/MM/YYYY, YYYY-MM-DD or RFC 3339; must be a real calendar date
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		_, ok := submission.NormalizeBirthDate(fl.Field().String())
		return ok
	})
	// MM/YY or MM/YYYY with month 01-12
	_ = v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		m := reCardExpiry.FindStringSubmatch(strings.TrimSpace(fl.Field().String()))
		if m == nil {
			return false
		}
		month, _ := strconv.Atoi(m[1])
		return month >= 1 && month <= 12
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := fieldPath(e)
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "birthdate":
			out = append(out, FieldError{Field: field, Message: "must be a date as DD/MM/YYYY or YYYY-MM-DD"})
		case "cardexpiry":
			out = append(out, FieldError{Field: field, Message: "must be MM/YY or MM/YYYY"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "numeric":
			out = append(out, FieldError{Field: field, Message: "must contain digits only"})
		case "min", "gte":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param()})
		case "max", "lte":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

// fieldPath drops the top-level struct name: "createSubmissionReq.cardInfo.cvv" → "cardInfo.cvv".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
