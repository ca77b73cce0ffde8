package auth_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~aondrejcak/trendify-api/auth"
	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

var testSecret = []byte("test-signing-secret")

// signLegacy builds a token the way the previous system did: an HS256
// JWS over a raw (non-JSON) string payload.
func signLegacy(t *testing.T, secret []byte, payload string) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	signingString := header + "." + body

	sig, err := jwt.SigningMethodHS256.Sign(signingString, secret)
	require.NoError(t, err)

	return signingString + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func seedCredential(t *testing.T, store *fakeStore, email, password string) {
	t.Helper()
	hash, err := kernel.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), &models.Admin{Email: email, PasswordHash: hash}))
}

func TestIssueAndVerifyStructured(t *testing.T) {
	store := newFakeStore()
	seedCredential(t, store, "admin@example.com", "secret123")
	tokens := auth.NewTokens(testSecret, store, testFallback)

	raw, err := tokens.Issue("admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	principal, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", principal.Email)
}

func TestVerifyStructuredAgainstFallbackEmail(t *testing.T) {
	// No persisted credential yet: the fallback email still verifies.
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw, err := tokens.Issue("admin@example.com")
	require.NoError(t, err)

	principal, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", principal.Email)
}

func TestVerifyStructuredUnknownEmail(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw, err := tokens.Issue("intruder@example.com")
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	store := newFakeStore()
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer := auth.NewTokens(testSecret, store, testFallback,
		auth.WithClock(func() time.Time { return issuedAt }))
	raw, err := issuer.Issue("admin@example.com")
	require.NoError(t, err)

	// Still valid one hour before the seven-day mark.
	verifier := auth.NewTokens(testSecret, store, testFallback,
		auth.WithClock(func() time.Time { return issuedAt.Add(7*24*time.Hour - time.Hour) }))
	_, err = verifier.Verify(context.Background(), raw)
	require.NoError(t, err)

	verifier = auth.NewTokens(testSecret, store, testFallback,
		auth.WithClock(func() time.Time { return issuedAt.Add(7*24*time.Hour + time.Hour) }))
	_, err = verifier.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestVerifyWrongKey(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	other := auth.NewTokens([]byte("some-other-secret"), newFakeStore(), testFallback)
	raw, err := other.Issue("admin@example.com")
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d", "!!.!!.!!"} {
		_, err := tokens.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "input %q", raw)
	}
}

func TestVerifyLegacyFallbackConcatenation(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw := signLegacy(t, testSecret, "admin@example.comsecret123")
	principal, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", principal.Email)
}

func TestVerifyLegacyFallbackEmailPrefix(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw := signLegacy(t, testSecret, "admin@example.com-something-else")
	principal, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", principal.Email)
}

func TestVerifyLegacyPersistedEmailSubstring(t *testing.T) {
	store := newFakeStore()
	seedCredential(t, store, "ops@trendify.store", "rotated-1")
	tokens := auth.NewTokens(testSecret, store, auth.Fallback{})

	raw := signLegacy(t, testSecret, "prefix-ops@trendify.store-suffix")
	principal, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "ops@trendify.store", principal.Email)
}

func TestVerifyLegacyUnknownString(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw := signLegacy(t, testSecret, "someone@else.example")
	_, err := tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyLegacyBadSignatureFailsClosed(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	raw := signLegacy(t, []byte("some-other-secret"), "admin@example.comsecret123")
	_, err := tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifySignatureValidUnmatchedShapeRejected(t *testing.T) {
	// Historically a signature-valid token of any shape was let through;
	// that branch is closed.
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	claims := jwt.MapClaims{"foo": "bar"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// Same for a user-session token: valid signature, no admin role.
	raw, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 42}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	tokens := auth.NewTokens(testSecret, newFakeStore(), testFallback)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte("admin@example.comsecret123"))
	raw := header + "." + body + "."

	_, err := tokens.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
