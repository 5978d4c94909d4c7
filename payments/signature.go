package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
)

// SignatureHeader carries hex(hmac-sha256(secret, body)).
const SignatureHeader = "X-Webhook-Signature"

func Sign(body, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignedBody reads the request body and checks its signature with a
// constant-time compare. The body is returned for parsing; ok is false on
// a missing or wrong signature.
func VerifySignedBody(r *http.Request, secret []byte) (body []byte, ok bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, false
	}
	sig := r.Header.Get(SignatureHeader)
	if sig == "" {
		return body, false
	}
	expected, err := hex.DecodeString(sig)
	if err != nil {
		return body, false
	}
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return body, hmac.Equal(expected, h.Sum(nil))
}
