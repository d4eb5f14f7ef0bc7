package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature reports whether sigHex is a valid hex-encoded
// HMAC-SHA256 of body keyed by secret.
//
// It must run against the exact bytes the platform signed, so callers pass
// the unparsed request body: JSON re-serialization does not reproduce the
// original byte sequence.
//
// Fails closed on an empty, non-hex, or wrong-length signature, and compares
// in constant time so response timing leaks nothing about the expected MAC.
func VerifyWebhookSignature(body []byte, secret, sigHex string) bool {
	if sigHex == "" {
		return false
	}
	provided, err := hex.DecodeString(sigHex)
	if err != nil || len(provided) != sha256.Size {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}
