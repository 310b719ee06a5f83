package user

import (
	"sort"
	"strings"
)

// ValidationError collects field-level form messages. An operation that fails
// validation is never attempted.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SignupForm mirrors the signup modal.
type SignupForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// MinPasswordLength is the shortest password the signup form accepts.
const MinPasswordLength = 6

// Validate applies the signup modal rules.
func (f SignupForm) Validate() error {
	verr := NewValidationError()
	if strings.TrimSpace(f.Name) == "" {
		verr.Add("name", "Name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		verr.Add("email", "Email is required")
	}
	if f.Password == "" {
		verr.Add("password", "Password is required")
	} else if len(f.Password) < MinPasswordLength {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if !f.AcceptTerms {
		verr.Add("acceptTerms", "You must agree to the terms and conditions")
	}
	return verr.OrNil()
}

// LoginForm mirrors the login modal. Credentials are never verified.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires both fields to be non-empty.
func (f LoginForm) Validate() error {
	verr := NewValidationError()
	if strings.TrimSpace(f.Email) == "" {
		verr.Add("email", "Email is required")
	}
	if f.Password == "" {
		verr.Add("password", "Password is required")
	}
	return verr.OrNil()
}
