package session

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"
)

// TextCodeValidationFailed marks signup payloads violating the input policy
const TextCodeValidationFailed = "VALIDATION_FAILED"

// Password policy. The policy is enumerable: every rule below is checked
// independently and every violation is reported, not just the first.
const (
	minPasswordLength = 8
	specialChars      = "!@#$%^&*"
)

type passwordCheck struct {
	key  string
	rule validation.Rule
}

// validation.By is used instead of the built-in rules so the checks also
// fire on empty input, keeping the aggregated report complete.
var passwordChecks = []passwordCheck{
	{"length", validation.By(func(value any) error {
		if s, _ := value.(string); utf8.RuneCountInString(s) < minPasswordLength {
			return fmt.Errorf("Password must be at least %d characters", minPasswordLength)
		}
		return nil
	})},
	{"uppercase", validation.By(containsClass(unicode.IsUpper,
		"Password must contain at least one uppercase letter"))},
	{"lowercase", validation.By(containsClass(unicode.IsLower,
		"Password must contain at least one lowercase letter"))},
	{"number", validation.By(containsClass(unicode.IsDigit,
		"Password must contain at least one number"))},
	{"special", validation.By(func(value any) error {
		if s, _ := value.(string); !strings.ContainsAny(s, specialChars) {
			return fmt.Errorf("Password must contain at least one special character: %s", specialChars)
		}
		return nil
	})},
}

func containsClass(class func(rune) bool, message string) func(any) error {
	return func(value any) error {
		s, _ := value.(string)
		if !strings.ContainsFunc(s, class) {
			return stderrors.New(message)
		}
		return nil
	}
}

// ValidateSignup checks the email shape and the full password policy,
// aggregating every violated rule into a single validation error.
func ValidateSignup(email, password string) error {
	violations := validation.Errors{}

	if err := validation.Validate(email,
		validation.Required.Error("Email cannot be empty."),
		is.Email.Error("Please provide a valid email."),
	); err != nil {
		violations["email"] = err
	}

	if pwErrs := passwordViolations(password); len(pwErrs) > 0 {
		violations["password"] = pwErrs
	}

	if len(violations) == 0 {
		return nil
	}

	return errors.New(violations.Error(), errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode(TextCodeValidationFailed).
		WithMetadata(map[string]any{"errors": violations})
}

func passwordViolations(password string) validation.Errors {
	violations := validation.Errors{}
	for _, check := range passwordChecks {
		if err := validation.Validate(password, check.rule); err != nil {
			violations[check.key] = err
		}
	}
	return violations
}
