package employee

import (
	"regexp"
	"strings"

	employeeerrors "go-garage/internal/employee/errors"

	"github.com/go-playground/validator/v10"
)

const (
	tagEmail = "garage_email"
	tagPhone = "garage_phone"

	maxEmailLength = 254
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.][^\s@]*\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]{10,15}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
		return isEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// isEmail checks shape only: one "@", a domain that does not start or end
// with a dot and has no empty labels. The local part is not inspected.
func isEmail(s string) bool {
	if len(s) > maxEmailLength || !emailPattern.MatchString(s) {
		return false
	}
	domain := s[strings.LastIndexByte(s, '@')+1:]
	return !strings.Contains(domain, "..") && !strings.HasSuffix(domain, ".")
}

// validateCreateRequest runs the field checks in the order clients rely on.
// It touches no store.
func validateCreateRequest(req CreateEmployeeRequest) error {
	if strings.TrimSpace(req.FirstName) == "" ||
		strings.TrimSpace(req.LastName) == "" ||
		req.UserRole == "" ||
		req.Email == "" ||
		req.PhoneNumber == "" {
		return employeeerrors.ErrAllFieldsRequired
	}
	if req.ParentUserUID == "" {
		return employeeerrors.ErrParentUserUIDRequired
	}

	if err := validate.Var(req.Email, tagEmail); err != nil {
		return employeeerrors.ErrInvalidEmail
	}
	if err := validate.Var(req.PhoneNumber, tagPhone); err != nil {
		return employeeerrors.ErrInvalidPhone
	}
	return nil
}
