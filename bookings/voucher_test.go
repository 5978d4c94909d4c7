package bookings

import (
	"strings"
	"testing"
)

func TestVoucherCodeRoundTrip(t *testing.T) {
	code := VoucherCode("b1234567890abc", "topsecret")
	if !strings.HasPrefix(code, "b1234567890abc|") {
		t.Fatalf("code missing booking id prefix: %s", code)
	}

	id, ok := VerifyVoucherCode(code, "topsecret")
	if !ok {
		t.Fatal("expected valid code to verify")
	}
	if id != "b1234567890abc" {
		t.Fatalf("got booking id %q", id)
	}
}

func TestVerifyVoucherCodeRejects(t *testing.T) {
	code := VoucherCode("b1234567890abc", "topsecret")

	cases := []struct {
		name   string
		code   string
		secret string
	}{
		{"wrong secret", code, "othersecret"},
		{"tampered id", "b9999999999999" + code[len("b1234567890abc"):], "topsecret"},
		{"no separator", "b1234567890abc", "topsecret"},
		{"empty", "", "topsecret"},
		{"separator only", "|abcdef", "topsecret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := VerifyVoucherCode(tc.code, tc.secret); ok {
				t.Fatal("expected verification to fail")
			}
		})
	}
}
