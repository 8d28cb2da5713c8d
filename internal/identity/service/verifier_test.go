package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"single-session-auth/backend/internal/clientinfo"
	"single-session-auth/backend/internal/identity/domain"
	"single-session-auth/backend/internal/security"
)

type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int32

	getErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: map[string]*domain.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.UserNID = f.nextID
	f.nextID++
	cp := *a
	f.byEmail[a.Email] = &cp
	return nil
}

func (f *fakeAccountRepo) Activate(ctx context.Context, code string) (bool, error) {
	for _, a := range f.byEmail {
		if a.ActivateCode != "" && a.ActivateCode == code {
			a.DisabledLogin = false
			a.ActivateCode = ""
			return true, nil
		}
	}
	return false, nil
}

func testVerifier(t *testing.T) (*Verifier, *fakeAccountRepo, *security.CredentialCipher) {
	t.Helper()
	cipher, err := security.NewCredentialCipher([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}
	repo := newFakeAccountRepo()
	return NewVerifier(repo, cipher), repo, cipher
}

func seedAccount(t *testing.T, repo *fakeAccountRepo, cipher *security.CredentialCipher, email, password string, disabled bool) {
	t.Helper()
	stored, err := cipher.Encrypt(password)
	if err != nil {
		t.Fatalf("encrypt password: %v", err)
	}
	repo.byEmail[email] = &domain.Account{
		UserNID:       repo.nextID,
		Email:         email,
		MobilePhone:   "0811111111",
		Password:      stored,
		DisabledLogin: disabled,
		RegisterDate:  time.Now().UTC().Add(-24 * time.Hour),
	}
	repo.nextID++
}

func TestAuthenticate(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", false)

	claims, err := verifier.Authenticate(context.Background(), "x@y.com", "secretpass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Email != "x@y.com" || claims.UserNID == 0 {
		t.Fatalf("claims = %+v, want account identity", claims)
	}
	if claims.DisabledLogin {
		t.Fatal("claims must carry disabled_login = false for an active account")
	}
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", false)

	claims, err := verifier.Authenticate(context.Background(), "  X@Y.Com ", "secretpass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Email != "x@y.com" {
		t.Fatalf("email = %q, want normalized form", claims.Email)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", false)

	cases := []struct {
		name            string
		email, password string
	}{
		{"unknown email", "nobody@y.com", "secretpass"},
		{"wrong password", "x@y.com", "wrongpass"},
		{"empty password", "x@y.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Authenticate(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", true)

	// Even with a wrong password the disabled state wins, so the caller can
	// tell the user to activate the account.
	for _, password := range []string{"secretpass", "wrongpass"} {
		_, err := verifier.Authenticate(context.Background(), "x@y.com", password)
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("password %q: err = %v, want ErrAccountDisabled", password, err)
		}
	}
}

func TestAuthenticateRepoError(t *testing.T) {
	verifier, repo, _ := testVerifier(t)
	cause := errors.New("db down")
	repo.getErr = cause

	_, err := verifier.Authenticate(context.Background(), "x@y.com", "secretpass")
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want repository error passed through", err)
	}
}

func TestAuthenticateStampsClientInfo(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", false)

	ctx := clientinfo.WithClient(context.Background(), "laptop", "10.0.0.1", "webapp")
	claims, err := verifier.Authenticate(ctx, "x@y.com", "secretpass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Device() != "laptop" || claims.Address() != "10.0.0.1" || claims.App() != "webapp" {
		t.Fatalf("client metadata = %q/%q/%q, want values from context",
			claims.Device(), claims.Address(), claims.App())
	}
}

func TestRegisterAndActivate(t *testing.T) {
	verifier, repo, _ := testVerifier(t)
	ctx := context.Background()

	code, err := verifier.Register(ctx, "new@y.com", "secretpass", "0822222222")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if code == "" {
		t.Fatal("Register must return an activation code")
	}
	account := repo.byEmail["new@y.com"]
	if account == nil {
		t.Fatal("account was not created")
	}
	if !account.DisabledLogin {
		t.Fatal("new accounts must start disabled")
	}
	if account.Password == "secretpass" {
		t.Fatal("stored password must be ciphertext, not plaintext")
	}

	if _, err := verifier.Authenticate(ctx, "new@y.com", "secretpass"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("pre-activation login err = %v, want ErrAccountDisabled", err)
	}
	if err := verifier.Activate(ctx, code); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := verifier.Authenticate(ctx, "new@y.com", "secretpass"); err != nil {
		t.Fatalf("post-activation login: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	verifier, repo, cipher := testVerifier(t)
	seedAccount(t, repo, cipher, "x@y.com", "secretpass", false)

	_, err := verifier.Register(context.Background(), "x@y.com", "otherpass", "")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	verifier, _, _ := testVerifier(t)
	for _, email := range []string{"", "not-an-email", "missing@tld"} {
		if _, err := verifier.Register(context.Background(), email, "secretpass", ""); err == nil {
			t.Fatalf("Register(%q) succeeded, want error", email)
		}
	}
}

func TestActivateInvalidCode(t *testing.T) {
	verifier, _, _ := testVerifier(t)
	for _, code := range []string{"", "  ", "nope"} {
		if err := verifier.Activate(context.Background(), code); !errors.Is(err, ErrInvalidActivationCode) {
			t.Fatalf("Activate(%q) err = %v, want ErrInvalidActivationCode", code, err)
		}
	}
}
