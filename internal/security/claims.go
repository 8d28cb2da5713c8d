package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity claim set carried inside a signed token. The JSON
// shape is fixed wire format; consumers outside the core must not rely on
// anything beyond it. Claims are immutable once issued; a new token means a
// new Claims value.
type Claims struct {
	Result        bool      `json:"result"`
	UserNID       int32     `json:"usernid"`
	Email         string    `json:"email"`
	MobilePhone   string    `json:"mobile_phone"`
	DisabledLogin bool      `json:"disabled_login"`
	ExpiredToken  int64     `json:"expired_token"`
	ExpiredDate   string    `json:"expired_date"`
	RegisterDate  time.Time `json:"register_date"`
	Exp           int64     `json:"exp"`
	Picture       *string   `json:"picture"`
	CompName      *string   `json:"comp_name"`
	IPAddress     *string   `json:"ip_address"`
	AppName       *string   `json:"app_name"`
}

// ExpiryDateLayout formats expiry timestamps for the expired_date wire field.
const ExpiryDateLayout = "2006-01-02 15:04:05"

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Exp == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// Device returns the originating device label, or "" when absent.
func (c *Claims) Device() string {
	if c.CompName == nil {
		return ""
	}
	return *c.CompName
}

// Address returns the originating network address, or "" when absent.
func (c *Claims) Address() string {
	if c.IPAddress == nil {
		return ""
	}
	return *c.IPAddress
}

// App returns the calling application name, or "" when absent.
func (c *Claims) App() string {
	if c.AppName == nil {
		return ""
	}
	return *c.AppName
}
