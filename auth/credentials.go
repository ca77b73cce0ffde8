// Package auth holds the admin authentication core: the lazily
// bootstrapped credential store and the token issuer/verifier. The
// fallback identity and signing key are injected at construction and
// read-only afterwards.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

// Fallback is the process-wide admin identity used until a credential
// has been persisted.
type Fallback struct {
	Email    string
	Password string
}

func (f Fallback) email() string    { return strings.TrimSpace(f.Email) }
func (f Fallback) password() string { return strings.TrimSpace(f.Password) }

// Credentials answers "does this email/password pair authenticate as
// admin?" and persists the answer going forward.
//
// The credential lifecycle is a three-state machine: no persisted
// credential -> persisted (first fallback login or first password
// change) -> persisted with a new hash (password change) -> back to
// none (reset). Nothing else mutates it.
type Credentials struct {
	store    Store
	fallback Fallback
}

func NewCredentials(store Store, fallback Fallback) *Credentials {
	return &Credentials{store: store, fallback: fallback}
}

// Authenticate verifies the pair against the persisted credential, or
// against the fallback identity when none exists yet. A successful
// fallback match persists a freshly salted hash of the supplied
// password and reports firstLogin. Passwords and hashes never leave
// this function.
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (ok bool, firstLogin bool, err error) {
	cred, err := c.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		return kernel.ComparePasswordAndHash(password, cred.PasswordHash) == nil, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, false, fmt.Errorf("credential lookup: %w", err)
	}

	fbEmail, fbPassword := c.fallback.email(), c.fallback.password()
	if fbEmail == "" || fbPassword == "" {
		return false, false, nil
	}
	if strings.TrimSpace(email) != fbEmail || strings.TrimSpace(password) != fbPassword {
		return false, false, nil
	}

	hash, err := kernel.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return false, false, fmt.Errorf("hashing password: %w", err)
	}

	createErr := c.store.Create(ctx, &models.Admin{Email: fbEmail, PasswordHash: hash})
	if createErr == nil {
		return true, true, nil
	}
	if !errors.Is(createErr, ErrDuplicateEmail) {
		return false, false, fmt.Errorf("persisting credential: %w", createErr)
	}

	// A concurrent first login won the insert; verify against what it
	// persisted instead of failing the request.
	cred, err = c.store.FindByEmail(ctx, fbEmail)
	if err != nil {
		return false, false, fmt.Errorf("re-reading credential after conflict: %w", err)
	}
	return kernel.ComparePasswordAndHash(password, cred.PasswordHash) == nil, false, nil
}

// ChangePassword rotates the persisted hash. When no credential exists
// for the resolved email, the fallback password acts as the current one
// and a match creates the credential.
func (c *Credentials) ChangePassword(ctx context.Context, email, current, newPassword, confirm string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters", ErrValidation)
	}
	if newPassword != confirm {
		return fmt.Errorf("%w: new password and confirmation do not match", ErrValidation)
	}

	resolved := strings.TrimSpace(email)
	if resolved == "" {
		resolved = c.fallback.email()
	}
	if resolved == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	hash, err := kernel.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	cred, err := c.store.FindByEmail(ctx, resolved)
	if errors.Is(err, ErrNotFound) {
		fbPassword := c.fallback.password()
		if fbPassword == "" || strings.TrimSpace(current) != fbPassword {
			return ErrInvalidCredentials
		}
		createErr := c.store.Create(ctx, &models.Admin{Email: resolved, PasswordHash: hash})
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, ErrDuplicateEmail) {
			return fmt.Errorf("persisting credential: %w", createErr)
		}
		// Lost the first-write race; fall through to the persisted path.
		cred, err = c.store.FindByEmail(ctx, resolved)
	}
	if err != nil {
		return fmt.Errorf("credential lookup: %w", err)
	}

	if kernel.ComparePasswordAndHash(current, cred.PasswordHash) != nil {
		return ErrInvalidCredentials
	}
	if err := c.store.UpdatePasswordHash(ctx, cred.ID, hash); err != nil {
		return fmt.Errorf("updating credential: %w", err)
	}
	return nil
}

// ResetAll deletes every persisted credential, reverting to
// fallback-only authentication. Operational escape hatch; destructive
// and deliberately unconditional.
func (c *Credentials) ResetAll(ctx context.Context) error {
	if err := c.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
