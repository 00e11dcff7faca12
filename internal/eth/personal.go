package eth

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the expected byte length of a personal-sign signature
// (r || s || v).
const SignatureLength = 65

// DecodeSignature decodes a hex-encoded personal-sign signature and
// normalizes the recovery id. Wallets emit v as 27/28 per the legacy
// convention; crypto.SigToPub expects 0/1.
func DecodeSignature(sigHex string) ([]byte, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return nil, fmt.Errorf("malformed signature encoding: %w", err)
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	if sig[64] >= 27 {
		// Copy so the caller's slice is untouched.
		normalized := make([]byte, SignatureLength)
		copy(normalized, sig)
		normalized[64] -= 27
		return normalized, nil
	}
	if sig[64] > 1 {
		return nil, fmt.Errorf("invalid recovery id %d", sig[64])
	}
	return sig, nil
}

// RecoverAddress recovers the address that produced sig over message using
// the EIP-191 personal-sign scheme (keccak256 of the length-prefixed text).
func RecoverAddress(message string, sig []byte) (common.Address, error) {
	hash := accounts.TextHash([]byte(message))

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("public key recovery failed: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// NormalizeAddress lowercases a checksummed or mixed-case hex address so it
// can be used as a storage key.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}
