package service

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/adapters/store"
	"github.com/certmint/certmint/adapters/tokenizer"
	"github.com/certmint/certmint/adapters/tokenstore"
	"github.com/certmint/certmint/core"
)

func newAuthService() (*AuthService, *store.MemoryStore, *stubPublisher) {
	identities := store.NewMemoryStore()
	pub := &stubPublisher{}
	svc := NewAuthService(
		identities,
		tokenizer.NewJWTTokenizer([]byte("test-secret")),
		tokenstore.NewMemoryStore(),
		pub,
		0, 0,
	)
	return svc, identities, pub
}

func signChallenge(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27 // wallet convention
	return hexutil.Encode(sig)
}

func TestRoundTripSuccess(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	nonce, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	assert.NotEmpty(t, nonce)
	assert.Contains(t, message, nonce)

	result, err := svc.Verify(ctx, address, signChallenge(t, key, message), message)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, result.Identity.Verified)
	require.NotNil(t, result.Identity.LastLogin)

	session, err := svc.ValidateAccessToken(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(address), session.Address)
}

func TestNonceSingleUse(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	signature := signChallenge(t, key, message)

	_, err = svc.Verify(ctx, address, signature, message)
	require.NoError(t, err)

	// Replaying the consumed message/signature pair must fail: the nonce
	// was rotated by the successful verify.
	_, err = svc.Verify(ctx, address, signature, message)
	assert.ErrorIs(t, err, core.ErrNonceMismatch)
}

func TestFailedVerifyKeepsNonce(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	keyA, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyB, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(keyA.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, address, signChallenge(t, keyB, message), message)
	require.ErrorIs(t, err, core.ErrInvalidSignature)

	// A retry with the right key still works against the same challenge.
	_, err = svc.Verify(ctx, address, signChallenge(t, keyA, message), message)
	assert.NoError(t, err)
}

func TestCrossAddressRejection(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	keyA, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyB, err := crypto.GenerateKey()
	require.NoError(t, err)
	addressA := crypto.PubkeyToAddress(keyA.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, addressA)
	require.NoError(t, err)

	// B signs A's challenge and claims to be A.
	_, err = svc.Verify(ctx, addressA, signChallenge(t, keyB, message), message)
	assert.ErrorIs(t, err, core.ErrInvalidSignature)
}

func TestCaseInsensitiveAddresses(t *testing.T) {
	ctx := context.Background()
	svc, identities, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	checksummed := crypto.PubkeyToAddress(key.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, checksummed)
	require.NoError(t, err)

	// Verify with the all-uppercase-hex rendering of the same address.
	upper := "0x" + strings.ToUpper(strings.TrimPrefix(checksummed, "0x"))
	result, err := svc.Verify(ctx, upper, signChallenge(t, key, message), message)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(checksummed), result.Identity.Address)

	// Only the lowercase record exists.
	_, err = identities.GetIdentity(ctx, strings.ToLower(checksummed))
	assert.NoError(t, err)
	_, err = identities.GetIdentity(ctx, checksummed)
	assert.ErrorIs(t, err, core.ErrIdentityNotFound)
}

func TestVerifyUnknownAddress(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	message := "Sign in to CertMint.\nNonce: nope\nIssued At: 2026-01-02T15:04:05Z"
	_, err = svc.Verify(ctx, address, signChallenge(t, key, message), message)
	assert.ErrorIs(t, err, core.ErrIdentityNotFound)
}

func TestMalformedAddressRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	_, _, err := svc.IssueNonce(ctx, "not-an-address")
	assert.ErrorIs(t, err, core.ErrInvalidAddress)

	_, err = svc.Verify(ctx, "not-an-address", "0x00", "message")
	assert.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestMalformedSignatureRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, address, "0x1234", message)
	assert.ErrorIs(t, err, core.ErrInvalidSignature)
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	result, err := svc.Verify(ctx, address, signChallenge(t, key, message), message)
	require.NoError(t, err)

	access, refresh, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// The old refresh token is single-use.
	_, _, err = svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalidated)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newAuthService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	_, message, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	result, err := svc.Verify(ctx, address, signChallenge(t, key, message), message)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))
	assert.Equal(t, 1, pub.logouts)

	// Access tokens die with their refresh token.
	_, err = svc.ValidateAccessToken(ctx, result.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalidated)

	_, _, err = svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalidated)
}
