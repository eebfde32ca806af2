package ai

import (
	"crypto/hmac"
)

// WebhookAuthHeader is the header AssemblyAI echoes back on webhook calls
// when a webhook secret is configured.
const WebhookAuthHeader = "X-Memory-Care-Webhook-Token"

// VerifyWebhookToken compares the received header value with the configured
// secret in constant time. An empty secret disables verification.
func VerifyWebhookToken(secret, received string) bool {
	if secret == "" {
		return true
	}
	if received == "" {
		return false
	}
	return hmac.Equal([]byte(secret), []byte(received))
}
