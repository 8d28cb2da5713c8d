// Package service implements the credential verifier: registration,
// activation, and email/password authentication producing identity claims.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"single-session-auth/backend/internal/clientinfo"
	"single-session-auth/backend/internal/identity/domain"
	"single-session-auth/backend/internal/security"
)

// Sentinel errors for the verifier; the caller maps them to user-visible
// behavior. ErrInvalidCredentials deliberately covers both "no such email"
// and "password mismatch" so callers cannot enumerate accounts.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidActivationCode  = errors.New("invalid activation code")
)

// AccountRepo is the minimal account repository needed by the verifier.
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	Activate(ctx context.Context, code string) (bool, error)
}

// Verifier checks credentials against stored accounts and builds the claims
// carried in issued tokens.
type Verifier struct {
	accounts AccountRepo
	cipher   *security.CredentialCipher
	now      func() time.Time
}

// NewVerifier returns a Verifier with the given dependencies.
func NewVerifier(accounts AccountRepo, cipher *security.CredentialCipher) *Verifier {
	return &Verifier{accounts: accounts, cipher: cipher, now: time.Now}
}

// Authenticate checks email and password and returns the account's claims,
// ready to be stamped and signed by the token codec. A disabled account
// fails with ErrAccountDisabled even when the password is wrong, so the
// caller can surface the disabled state instead of a generic failure.
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*security.Claims, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := v.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if account.DisabledLogin {
		return nil, ErrAccountDisabled
	}
	cipherText, err := v.cipher.Encrypt(password)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(cipherText), []byte(account.Password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return v.claimsFor(ctx, account), nil
}

// Register creates a disabled account with a fresh activation code and
// returns the code so the caller can deliver it. The account cannot log in
// until Activate consumes the code.
func (v *Verifier) Register(ctx context.Context, email, password, mobilePhone string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	existing, err := v.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailAlreadyRegistered
	}
	cipherText, err := v.cipher.Encrypt(password)
	if err != nil {
		return "", err
	}
	code := uuid.New().String()
	account := &domain.Account{
		Email:         email,
		MobilePhone:   strings.TrimSpace(mobilePhone),
		Password:      cipherText,
		DisabledLogin: true,
		ActivateCode:  code,
		RegisterDate:  v.now().UTC(),
	}
	if err := v.accounts.Create(ctx, account); err != nil {
		return "", err
	}
	return code, nil
}

// Activate enables the account holding the activation code.
func (v *Verifier) Activate(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInvalidActivationCode
	}
	activated, err := v.accounts.Activate(ctx, code)
	if err != nil {
		return err
	}
	if !activated {
		return ErrInvalidActivationCode
	}
	return nil
}

func (v *Verifier) claimsFor(ctx context.Context, a *domain.Account) *security.Claims {
	claims := &security.Claims{
		UserNID:       a.UserNID,
		Email:         a.Email,
		MobilePhone:   a.MobilePhone,
		DisabledLogin: a.DisabledLogin,
		RegisterDate:  a.RegisterDate,
		Picture:       a.Picture,
	}
	if d := clientinfo.Device(ctx); d != "" {
		claims.CompName = &d
	}
	if addr := clientinfo.Address(ctx); addr != "" {
		claims.IPAddress = &addr
	}
	if app := clientinfo.App(ctx); app != "" {
		claims.AppName = &app
	}
	return claims
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}
