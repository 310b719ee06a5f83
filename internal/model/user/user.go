package user

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// RiskProfile is the user's stated appetite for risk. No logic is attached to it.
type RiskProfile string

const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

// DefaultRiskProfile is assigned on login and signup.
const DefaultRiskProfile = RiskMedium

// Valid reports whether p is one of the enumerated profiles.
func (p RiskProfile) Valid() bool {
	switch p {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ParseRiskProfile normalises raw into a RiskProfile.
func ParseRiskProfile(raw string) (RiskProfile, error) {
	p := RiskProfile(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid risk profile %q", raw)
	}
	return p, nil
}

// User is the record held by the session store and persisted in the device slot.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	RiskProfile RiskProfile `json:"riskProfile"`
}

// Patch carries the fields of a profile edit. Nil fields are left untouched.
type Patch struct {
	Name        *string      `json:"name,omitempty"`
	Email       *string      `json:"email,omitempty"`
	RiskProfile *RiskProfile `json:"riskProfile,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.RiskProfile == nil
}

// Apply returns a copy of u with the patch merged in.
func (p Patch) Apply(u User) User {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.RiskProfile != nil {
		u.RiskProfile = *p.RiskProfile
	}
	return u
}

// Validate checks the patch against the profile form rules.
func (p Patch) Validate() error {
	verr := NewValidationError()
	if p.Name != nil {
		n := utf8.RuneCountInString(strings.TrimSpace(*p.Name))
		if n < 2 {
			verr.Add("name", "Name must be at least 2 characters.")
		} else if n > 50 {
			verr.Add("name", "Name must be at most 50 characters.")
		}
	}
	if p.Email != nil && !ValidEmail(strings.TrimSpace(*p.Email)) {
		verr.Add("email", "Please enter a valid email address.")
	}
	if p.RiskProfile != nil && !p.RiskProfile.Valid() {
		verr.Add("riskProfile", "Please select a risk profile.")
	}
	return verr.OrNil()
}

// LocalPart returns the portion of an email address before the '@'.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// ValidEmail reports whether raw is a bare RFC 5322 address.
func ValidEmail(raw string) bool {
	addr, err := mail.ParseAddress(raw)
	return err == nil && addr.Address == raw
}
