// Package domain defines the session record, the caller intents, and the
// outcomes the consistency engine can produce.
package domain

import (
	"errors"
	"time"

	"single-session-auth/backend/internal/security"
)

// ErrStorage wraps persistence failures surfaced by the session store. The
// backend cause is always attached; callers can unwrap it.
var ErrStorage = errors.New("session storage failure")

// Record is the single authoritative session for an account. At most one
// exists per account; it is written only by the consistency engine.
type Record struct {
	AccountID    int32
	Token        string
	LastActivity time.Time
	DeviceName   string
	IPAddress    string
	AppName      string
	CreatedAt    time.Time
}

// Validate validates the record for persistence. A record is never created
// with an empty token.
func (r *Record) Validate() error {
	if r.AccountID == 0 {
		return errors.New("account id is required")
	}
	if r.Token == "" {
		return errors.New("token is required")
	}
	if r.LastActivity.IsZero() {
		return errors.New("last activity is required")
	}
	return nil
}

// Empty reports whether the record should be treated as absent: a nil record
// or one holding no token is always overwritable.
func (r *Record) Empty() bool {
	return r == nil || r.Token == ""
}

// Intent selects the transition a reconcile call performs. Every call site
// picks exactly one variant.
type Intent int

const (
	// IntentLoginCreate creates or replaces the account's session after a
	// successful credential check.
	IntentLoginCreate Intent = iota
	// IntentCheckExisting validates that the presented token is still the
	// account's recognized session.
	IntentCheckExisting
	// IntentLogout removes the account's session unconditionally.
	IntentLogout
)

func (i Intent) String() string {
	switch i {
	case IntentLoginCreate:
		return "login_create"
	case IntentCheckExisting:
		return "check_existing"
	case IntentLogout:
		return "logout"
	}
	return "unknown"
}

// Status is the category of a reconcile outcome.
type Status int

const (
	// StatusAuthenticated means the session was created, refreshed, or
	// confirmed; Outcome.Claims holds the session's claims.
	StatusAuthenticated Status = iota
	// StatusConfirmationRequired means a still-fresh session for another
	// device exists; Outcome.Claims holds the existing session's claims and
	// no store mutation happened.
	StatusConfirmationRequired
	// StatusLoggedOut means the session record was removed (or was already
	// absent; logout is idempotent).
	StatusLoggedOut
	// StatusSessionExpired means the token was cryptographically valid but
	// the server-side record is gone or belongs to a different session.
	StatusSessionExpired
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusConfirmationRequired:
		return "confirmation_required"
	case StatusLoggedOut:
		return "logged_out"
	case StatusSessionExpired:
		return "session_expired"
	}
	return "unknown"
}

// Outcome is the structured result of a reconcile call. It is not an error;
// the caller maps it to user-visible behavior.
type Outcome struct {
	Status  Status
	Claims  *security.Claims
	Message string
}
