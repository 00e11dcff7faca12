package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	message := "Sign in to CertMint.\nNonce: abc123\nIssued At: 2026-01-02T15:04:05Z"

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27 // wallet convention

	decoded, err := DecodeSignature(hexutil.Encode(sig))
	require.NoError(t, err)

	recovered, err := RecoverAddress(message, decoded)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered)
}

func TestRecoverAddressTamperedMessage(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := crypto.Sign(accounts.TextHash([]byte("original message")), key)
	require.NoError(t, err)

	recovered, err := RecoverAddress("tampered message", sig)
	require.NoError(t, err)
	assert.NotEqual(t, addr, recovered)
}

func TestDecodeSignatureRejectsBadInput(t *testing.T) {
	_, err := DecodeSignature("not-hex")
	assert.Error(t, err)

	_, err = DecodeSignature("0xdeadbeef")
	assert.Error(t, err, "wrong length")

	// 65 bytes but recovery id out of range
	bad := make([]byte, SignatureLength)
	bad[64] = 5
	_, err = DecodeSignature(hexutil.Encode(bad))
	assert.Error(t, err)
}

func TestDecodeSignatureNormalizesRecoveryID(t *testing.T) {
	sig := make([]byte, SignatureLength)
	sig[64] = 28

	decoded, err := DecodeSignature(hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, byte(1), decoded[64])
	assert.Equal(t, byte(28), sig[64], "input slice untouched")
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72"))
	assert.True(t, IsValidAddress("0x8ba1f109551bd432803012645ac136ddd64dba72"))
	assert.False(t, IsValidAddress("not-an-address"))
	assert.False(t, IsValidAddress("0x8ba1"))
	assert.False(t, IsValidAddress(""))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t,
		"0x8ba1f109551bd432803012645ac136ddd64dba72",
		NormalizeAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72"))
}
