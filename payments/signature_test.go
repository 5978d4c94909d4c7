package payments

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

func TestVerifySignedBody(t *testing.T) {
	secret := []byte("whsec_test")
	body := []byte(`{"type":"payment.succeeded","data":{"bookingId":"b1"}}`)

	r := httptest.NewRequest("POST", "/api/payments/webhook", bytes.NewReader(body))
	r.Header.Set(SignatureHeader, Sign(body, secret))

	got, ok := VerifySignedBody(r, secret)
	if !ok {
		t.Fatal("valid signature rejected")
	}
	if !bytes.Equal(got, body) {
		t.Error("body not returned intact")
	}
}

func TestVerifySignedBodyRejects(t *testing.T) {
	secret := []byte("whsec_test")
	body := []byte(`{"type":"payment.succeeded"}`)

	cases := []struct {
		name string
		sig  string
	}{
		{"missing header", ""},
		{"wrong secret", Sign(body, []byte("other-secret"))},
		{"tampered body", Sign([]byte(`{"type":"payment.failed"}`), secret)},
		{"not hex", "zzzz"},
	}
	for _, c := range cases {
		r := httptest.NewRequest("POST", "/api/payments/webhook", bytes.NewReader(body))
		if c.sig != "" {
			r.Header.Set(SignatureHeader, c.sig)
		}
		if _, ok := VerifySignedBody(r, secret); ok {
			t.Errorf("%s: signature accepted", c.name)
		}
	}
}
