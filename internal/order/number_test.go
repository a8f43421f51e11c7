package order

import (
	"regexp"
	"testing"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{6}-[A-Z0-9]{6}$`)

func TestNewOrderNumber_Format(t *testing.T) {
	for i := 0; i < 20; i++ {
		n := NewOrderNumber()
		if !numberPattern.MatchString(n) {
			t.Fatalf("order number %q does not match ORD-<6 digits>-<6 uppercase>", n)
		}
	}
}

func TestNewOrderNumber_SuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewOrderNumber()] = true
	}
	// generated in a tight loop the time component barely moves, so
	// distinctness has to come from the random suffix
	if len(seen) < 90 {
		t.Fatalf("expected order numbers to vary, got %d distinct out of 100", len(seen))
	}
}
