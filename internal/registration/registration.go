// Package registration holds the submission payloads accepted by the portal
// and the rules every payload passes before anything is sent or stored.
package registration

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxPhoneDigits is the longest phone number accepted once non-digits are stripped.
const MaxPhoneDigits = 10

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrConsentRequired = errors.New("consent is required")
	ErrPhoneTooLong    = errors.New("phone number must be at most 10 digits")
)

// MissingFieldsError lists the JSON names of the required fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every `validate:"required"` field of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := &MissingFieldsError{}
	for _, fe := range verrs {
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}

// CleanPhone strips every non-digit character.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// ValidatePhone returns the cleaned phone, or ErrPhoneTooLong when it has
// more than MaxPhoneDigits digits.
func ValidatePhone(phone string) (string, error) {
	digits := CleanPhone(phone)
	if len(digits) > MaxPhoneDigits {
		return "", ErrPhoneTooLong
	}
	return digits, nil
}

// UserMessage is the text shown to a submitter for a rejected payload.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "Missing required fields"
	case errors.Is(err, ErrConsentRequired):
		return "Consent is required"
	case errors.Is(err, ErrPhoneTooLong):
		return "Phone number must be at most 10 digits"
	default:
		return "Invalid submission"
	}
}

// IsValidation reports whether err is a payload rejection the submitter can fix.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrConsentRequired) ||
		errors.Is(err, ErrPhoneTooLong)
}

// JoinDays comma-joins available-day tokens, dropping blanks.
func JoinDays(days []string) string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return strings.Join(out, ", ")
}

// Timestamp formats t the way spreadsheet rows carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func orDefault(s, fallback string) string {
	if strings.TrimFunc(s, unicode.IsSpace) == "" {
		return fallback
	}
	return s
}
