// Package shopify verifies inbound Shopify webhook authenticity.
package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// VerifyWebhookSignature checks that signature is the base64-encoded
// HMAC-SHA256 of rawBody keyed with secret. The comparison is constant time.
// An empty secret or signature always fails; verification over re-serialized
// bodies is not supported, callers must pass the exact bytes received.
func VerifyWebhookSignature(rawBody []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ComputeSignature returns the base64 HMAC-SHA256 signature for rawBody.
// Exposed for tests and webhook registration tooling.
func ComputeSignature(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
