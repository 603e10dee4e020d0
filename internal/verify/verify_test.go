package verify_test

import (
	"testing"

	"talentbridge/offers-service/internal/verify"
)

// Codes are fixed-width numeric strings, zero-padded when the random value
// is small.
func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := verify.GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("GenerateCode length = %d, want 6 (code %q)", len(code), code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("GenerateCode produced non-digit %q in %q", r, code)
			}
		}
	}
}
