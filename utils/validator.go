package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const dateLayout = "2006-01-02"

// IsValidTicker reports whether s is a 1-5 uppercase letter symbol.
func IsValidTicker(s string) bool {
	return tickerPattern.MatchString(s)
}

// ValidateCredentials checks registration/login input shape and returns
// per-field errors, empty when everything passes.
func ValidateCredentials(email, password string) map[string]string {
	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "invalid email format"
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	return fields
}

// BindingErrorFields converts binding errors produced by validator/v10
// into a per-field error map. Returns nil for non-validation errors
// (malformed JSON and the like).
func BindingErrorFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		default:
			fields[name] = "failed " + fe.Tag() + " validation"
		}
	}
	return fields
}

// ValidateDateRange checks optional from/to query parameters. Both must
// be YYYY-MM-DD, from must precede to, and to may not lie in the future.
func ValidateDateRange(from, to string) error {
	var start, end time.Time
	var err error

	if from != "" {
		start, err = time.Parse(dateLayout, from)
		if err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
	}
	if to != "" {
		end, err = time.Parse(dateLayout, to)
		if err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		if end.After(time.Now()) {
			return fmt.Errorf("end date cannot be in the future")
		}
	}
	if from != "" && to != "" && !start.Before(end) {
		return fmt.Errorf("start date must be before end date")
	}
	return nil
}
