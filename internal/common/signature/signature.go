// Package signature signs and verifies webhook bodies with HMAC-SHA256.
//
// The header value has the form "sha256=<hex digest>" and is computed over the
// exact raw request body.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

const (
	// Header is set by the Collector on every signed webhook.
	Header = "X-Hub-Signature"
	// LegacyHeader is still accepted on the receiving side.
	LegacyHeader = "X-Gawb-Signature"

	prefix = "sha256="
)

// Sign returns the header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return prefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header matches the signature of body.
func Verify(secret, header string, body []byte) bool {
	return hmac.Equal([]byte(header), []byte(Sign(secret, body)))
}

// FromRequest returns the signature header of r, if any.
func FromRequest(r *http.Request) string {
	if v := r.Header.Get(Header); v != "" {
		return v
	}
	return r.Header.Get(LegacyHeader)
}
