package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "test-webhook-secret"
	body := []byte(`{"id":5001,"total_price":"100.00"}`)

	sig := ComputeWebhookSignature(body, secret)
	assert.True(t, VerifyWebhookSignature(body, sig, secret))
}

func TestVerifyWebhookSignatureRejectsAlteredBody(t *testing.T) {
	secret := "test-webhook-secret"
	body := []byte(`{"id":5001,"total_price":"100.00"}`)
	sig := ComputeWebhookSignature(body, secret)

	tampered := []byte(`{"id":5001,"total_price":"999.00"}`)
	assert.False(t, VerifyWebhookSignature(tampered, sig, secret))
}

func TestVerifyWebhookSignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"id":5001}`)
	sig := ComputeWebhookSignature(body, "secret-a")
	assert.False(t, VerifyWebhookSignature(body, sig, "secret-b"))
}

func TestVerifyWebhookSignatureRejectsGarbageHeader(t *testing.T) {
	assert.False(t, VerifyWebhookSignature([]byte(`{}`), "not-a-signature", "secret"))
}
