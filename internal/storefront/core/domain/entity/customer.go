package entity

import (
	"strings"
	"time"
)

type Customer struct {
	ID        int64
	FullName  string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// Normalize trims every field and lower-cases the email, which is the natural key.
func (c *Customer) Normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

// ValidateForCheckout requires the full profile.
func (c Customer) ValidateForCheckout() error {
	var missing []string
	if c.FullName == "" {
		missing = append(missing, "full_name")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return Validationf("customer data missing: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(c.Email, "@") {
		return Validationf("invalid email %q", c.Email)
	}
	return nil
}

// ValidateForRegistration is the lighter check used by the public
// registration endpoint: name and email only.
func (c Customer) ValidateForRegistration() error {
	if c.FullName == "" || c.Email == "" {
		return Validationf("full_name and email are required")
	}
	if !strings.Contains(c.Email, "@") {
		return Validationf("invalid email %q", c.Email)
	}
	return nil
}

// SplitName returns first and last name as payment providers expect them.
func (c Customer) SplitName() (first, last string) {
	parts := strings.Fields(c.FullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
