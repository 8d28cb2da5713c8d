package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token verification; callers must distinguish a bad
// token (discard, force re-login) from an expired one (same remedy,
// different user message).
var (
	// ErrInvalidSignature is returned when a token is malformed, tampered
	// with, or signed with the wrong algorithm or secret.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is returned when the token's signature is valid but
	// its embedded expiry is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrSigning is returned when encoding a token fails; not expected in
	// normal operation.
	ErrSigning = errors.New("token signing failed")
)

// TokenCodec issues and verifies HS256-signed tokens carrying Claims,
// using a symmetric secret held in configuration.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a TokenCodec signing with secret. ttl is the fixed
// expiry horizon stamped into every issued token.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given claims. The expiry fields
// (expired_token, expired_date, exp) and result are stamped here; all other
// claim fields pass through unchanged. Returns the token string and the
// stamped claims.
func (c *TokenCodec) Issue(claims Claims) (string, *Claims, error) {
	expiresAt := c.now().UTC().Add(c.ttl)
	claims.Result = true
	claims.ExpiredToken = expiresAt.Unix()
	claims.ExpiredDate = expiresAt.Format(ExpiryDateLayout)
	claims.Exp = expiresAt.Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	token, err := t.SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return token, &claims, nil
}

// Verify checks the token's signature and algorithm, then re-checks the
// embedded expiry against the clock independently of the JWT library so
// expiry enforcement does not depend on a library default. Returns
// ErrTokenExpired for valid-but-expired tokens and ErrInvalidSignature for
// everything else that fails.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Exp <= c.now().UTC().Unix() {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
