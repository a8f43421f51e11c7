package order

import "testing"

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		if _, ok := ParseStatus(raw); !ok {
			t.Errorf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"", "pending", "REFUNDED", "SHIPPED "} {
		if _, ok := ParseStatus(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, false},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusShipped, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestStatusCancellable(t *testing.T) {
	if !StatusPending.Cancellable() || !StatusConfirmed.Cancellable() {
		t.Fatal("PENDING and CONFIRMED must be cancellable")
	}
	for _, s := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if s.Cancellable() {
			t.Errorf("%s must not be cancellable", s)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("DELIVERED and CANCELLED are terminal")
	}
	if StatusPending.Terminal() || StatusShipped.Terminal() {
		t.Fatal("PENDING and SHIPPED are not terminal")
	}
}

func TestValidMethod(t *testing.T) {
	for _, m := range []string{MethodCreditCard, MethodDebitCard, MethodPaypal, MethodStripe} {
		if !ValidMethod(m) {
			t.Errorf("expected %q to be accepted", m)
		}
	}
	if ValidMethod("CASH") || ValidMethod("") {
		t.Fatal("unknown methods must be rejected")
	}
}
