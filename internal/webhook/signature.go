// Package webhook signs and verifies chat platform webhook bodies.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC of the raw request body.
const SignatureHeader = "X-Signature-256"

const signaturePrefix = "sha256="

// Sign returns "sha256=<hex hmac>" of payload keyed with secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches payload. The prefix is required;
// hex digits are accepted in either case.
func Verify(secret string, payload []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if len(signature) <= len(signaturePrefix) || !strings.EqualFold(signature[:len(signaturePrefix)], signaturePrefix) {
		return false
	}

	got, err := hex.DecodeString(signature[len(signaturePrefix):])
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}
