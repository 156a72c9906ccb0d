package shortid

import (
	"strings"
	"testing"
)

func TestNewProducesUppercaseBase36Codes(t *testing.T) {
	code, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if len(code) != CodeLength {
		t.Fatalf("expected %d characters, got %q", CodeLength, code)
	}
	for _, r := range code {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("unexpected character %q in code %q", r, code)
		}
	}
}

func TestNewDoesNotRepeatQuickly(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = struct{}{}
	}
}
