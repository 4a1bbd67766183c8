// api/utils/signature.go
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ComputeWebhookSignature returns the base64 HMAC-SHA256 digest of body
// under secret, the construction Shopify uses for the
// X-Shopify-Hmac-Sha256 header.
func ComputeWebhookSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks a webhook signature header against the raw
// request body. The comparison is constant time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := ComputeWebhookSignature(body, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
