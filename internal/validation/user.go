package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var usernameRunes = func(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return !strings.ContainsAny(s[:1], "_-.") && !strings.ContainsAny(s[len(s)-1:], "_-.")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", usernameRunes)
	_ = v.RegisterValidation("groupslug", func(fl validator.FieldLevel) bool {
		return ValidateGroupSlug(fl.Field().String()) == nil
	})
	return v
}

// Struct validates a tagged request struct and flattens the first failure into a readable error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("invalid email format")
	case "min":
		return fmt.Errorf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must not exceed %s characters", field, fe.Param())
	case "username":
		return fmt.Errorf("%s can only contain letters, numbers, dots, underscores and hyphens and must start and end with a letter or number", field)
	case "groupslug":
		return ValidateGroupSlug(fe.Value().(string))
	}
	return fmt.Errorf("%s is invalid", field)
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	return Struct(struct {
		Username string `validate:"required,min=3,max=30,username"`
	}{username})
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	return Struct(struct {
		Email string `validate:"required,max=254,email"`
	}{email})
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 72 {
		// bcrypt ignores input past 72 bytes
		return fmt.Errorf("password must not exceed 72 bytes")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}
