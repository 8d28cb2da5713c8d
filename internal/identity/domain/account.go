// Package domain defines the account entity backing credential checks.
package domain

import (
	"errors"
	"time"
)

// Account is a registered user row. Password holds the deterministic
// ciphertext of the user's password, never the plaintext. DisabledLogin
// stays true until the account is activated.
type Account struct {
	UserNID       int32
	Email         string
	MobilePhone   string
	Password      string
	DisabledLogin bool
	Picture       *string
	ActivateCode  string
	RegisterDate  time.Time
}

// Validate validates the account for persistence.
func (a *Account) Validate() error {
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.Password == "" {
		return errors.New("password is required")
	}
	if a.RegisterDate.IsZero() {
		return errors.New("register date is required")
	}
	return nil
}
