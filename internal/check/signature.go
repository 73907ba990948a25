package check

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SignaturePrefix is the scheme tag carried by the x-apollo-signature header.
const SignaturePrefix = "sha256="

// VerifySignature authenticates a webhook body against its signature header.
// The expected value is "sha256=" + hex(HMAC-SHA256(secret, rawBody)).
//
// rawBody must be the exact bytes received on the wire; re-serializing parsed
// JSON changes the bytes and invalidates the signature. The comparison is
// constant-time so the pass/fail contract leaks nothing about the expected
// value.
func VerifySignature(rawBody []byte, providedHeader, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(providedHeader)) == 1
}
