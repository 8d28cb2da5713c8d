// Package service implements the session consistency engine: the single
// writer of session records, enforcing at most one active session per
// account.
package service

import (
	"context"
	"fmt"
	"time"

	"single-session-auth/backend/internal/clientinfo"
	"single-session-auth/backend/internal/security"
	"single-session-auth/backend/internal/session/domain"
	"single-session-auth/backend/internal/telemetry"
)

// TokenVerifier checks a signed token and returns its claims. The engine
// uses it to recover the claims of an existing session when reporting a
// login conflict.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Engine reconciles login, session-check, and logout intents against the
// session store. It is stateless between calls; all state lives in the
// store, and every mutation runs inside a per-account transaction so two
// concurrent logins for the same account cannot both observe "no conflict".
type Engine struct {
	store     domain.TxStore
	tokens    TokenVerifier
	freshness time.Duration
	metrics   *telemetry.Metrics
	now       func() time.Time
}

// NewEngine creates the consistency engine. freshness is the window within
// which an existing session blocks a second login; metrics may be nil.
func NewEngine(store domain.TxStore, tokens TokenVerifier, freshness time.Duration, metrics *telemetry.Metrics) *Engine {
	return &Engine{
		store:     store,
		tokens:    tokens,
		freshness: freshness,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Reconcile applies one intent for the account named by claims.
//
// presentedToken is the freshly issued (LoginCreate) or caller-supplied
// (CheckExisting) token. cookieToken is the token the caller already held
// before this request, if any; a login presenting the session's own prior
// cookie replaces it without a conflict prompt. override skips the
// freshness comparison entirely, for callers that already confirmed the
// kick-out.
//
// Storage failures abort the transaction, leave the store untouched, and
// return an error wrapping domain.ErrStorage.
func (e *Engine) Reconcile(ctx context.Context, claims *security.Claims, presentedToken, cookieToken string, intent domain.Intent, override bool) (*domain.Outcome, error) {
	if claims == nil {
		return nil, fmt.Errorf("reconcile: claims are required")
	}
	if intent == domain.IntentLoginCreate && presentedToken == "" {
		return nil, fmt.Errorf("reconcile: presented token is required")
	}
	var out *domain.Outcome
	var fnErr error
	err := e.store.Transact(ctx, claims.UserNID, func(ctx context.Context, st domain.Store) error {
		switch intent {
		case domain.IntentLoginCreate:
			out, fnErr = e.loginCreate(ctx, st, claims, presentedToken, cookieToken, override)
		case domain.IntentCheckExisting:
			out, fnErr = e.checkExisting(ctx, st, claims, presentedToken)
		case domain.IntentLogout:
			out, fnErr = e.logout(ctx, st, claims)
		default:
			fnErr = fmt.Errorf("reconcile: unknown intent %d", intent)
		}
		return fnErr
	})
	if err != nil {
		if err == fnErr {
			return nil, err
		}
		// Begin, lock, commit, or retry failures from the store's own
		// transaction machinery are persistence failures too.
		return nil, storageErr(err)
	}
	e.metrics.RecordOutcome(ctx, intent.String(), out.Status.String())
	return out, nil
}

func (e *Engine) loginCreate(ctx context.Context, st domain.Store, claims *security.Claims, token, cookieToken string, override bool) (*domain.Outcome, error) {
	rec, err := st.Find(ctx, claims.UserNID)
	if err != nil {
		return nil, storageErr(err)
	}
	now := e.now().UTC()

	switch {
	case rec.Empty():
		// First login, or a record already voided by an empty token.
	case rec.Token == token:
		// Same session logging in again; just refresh activity.
		if err := st.Touch(ctx, claims.UserNID, now); err != nil {
			return nil, storageErr(err)
		}
		return authenticated(claims), nil
	case override:
		// Caller already confirmed the kick-out.
	case cookieToken != "" && rec.Token == cookieToken:
		// The caller is replacing its own previous session.
	default:
		if e.isFresh(rec.LastActivity, now) {
			existing, verr := e.tokens.Verify(rec.Token)
			if verr == nil {
				return &domain.Outcome{
					Status:  domain.StatusConfirmationRequired,
					Claims:  existing,
					Message: conflictMessage(existing, rec),
				}, nil
			}
			// The stored token no longer verifies; the session it names is
			// dead and cannot be worth protecting.
		}
	}

	if err := st.Upsert(ctx, &domain.Record{
		AccountID:    claims.UserNID,
		Token:        token,
		LastActivity: now,
		DeviceName:   deviceName(ctx, claims),
		IPAddress:    ipAddress(ctx, claims),
		AppName:      appName(ctx, claims),
		CreatedAt:    now,
	}); err != nil {
		return nil, storageErr(err)
	}
	return authenticated(claims), nil
}

func (e *Engine) checkExisting(ctx context.Context, st domain.Store, claims *security.Claims, token string) (*domain.Outcome, error) {
	rec, err := st.Find(ctx, claims.UserNID)
	if err != nil {
		return nil, storageErr(err)
	}
	if rec.Empty() || rec.Token != token {
		// Token was cryptographically valid but the server-side record is
		// gone or names a different session.
		return &domain.Outcome{
			Status:  domain.StatusSessionExpired,
			Message: "Session not found, please login again",
		}, nil
	}
	if err := st.Touch(ctx, claims.UserNID, e.now().UTC()); err != nil {
		return nil, storageErr(err)
	}
	return authenticated(claims), nil
}

func (e *Engine) logout(ctx context.Context, st domain.Store, claims *security.Claims) (*domain.Outcome, error) {
	if err := st.Delete(ctx, claims.UserNID); err != nil {
		return nil, storageErr(err)
	}
	return &domain.Outcome{
		Status:  domain.StatusLoggedOut,
		Message: "Logout successfully",
	}, nil
}

// isFresh reports whether a session last active at last still blocks a new
// login at now. Equality counts as fresh; ties protect the existing session.
func (e *Engine) isFresh(last, now time.Time) bool {
	return !last.Add(e.freshness).Before(now)
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func authenticated(claims *security.Claims) *domain.Outcome {
	return &domain.Outcome{
		Status:  domain.StatusAuthenticated,
		Claims:  claims,
		Message: fmt.Sprintf("Welcome %s", claims.Email),
	}
}

func conflictMessage(existing *security.Claims, rec *domain.Record) string {
	device := rec.DeviceName
	addr := rec.IPAddress
	if existing != nil {
		if device == "" {
			device = existing.Device()
		}
		if addr == "" {
			addr = existing.Address()
		}
	}
	if device == "" {
		device = "another device"
	}
	if addr == "" {
		addr = "unknown address"
	}
	return fmt.Sprintf("Already logged in from %s (%s), last active %s",
		device, addr, rec.LastActivity.UTC().Format(security.ExpiryDateLayout))
}

func deviceName(ctx context.Context, claims *security.Claims) string {
	if d := claims.Device(); d != "" {
		return d
	}
	return clientinfo.Device(ctx)
}

func ipAddress(ctx context.Context, claims *security.Claims) string {
	if a := claims.Address(); a != "" {
		return a
	}
	return clientinfo.Address(ctx)
}

func appName(ctx context.Context, claims *security.Claims) string {
	if a := claims.App(); a != "" {
		return a
	}
	return clientinfo.App(ctx)
}
