package enums

import "testing"

func TestParseOrderStatusNormalizesCase(t *testing.T) {
	tests := []struct {
		raw  string
		want OrderStatus
	}{
		{raw: "pending", want: OrderStatusPending},
		{raw: "PROCESSING", want: OrderStatusProcessing},
		{raw: " Shipped ", want: OrderStatusShipped},
		{raw: "Cancelled", want: OrderStatusCancelled},
	}
	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.raw)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseOrderStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := ParseOrderStatus(""); err == nil {
		t.Fatal("expected error for empty status")
	}
}

func TestOrderStatusTerminality(t *testing.T) {
	terminal := []OrderStatus{OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	open := []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusConfirmed, OrderStatusShipped}
	for _, s := range open {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestPaymentStatusTerminality(t *testing.T) {
	if PaymentStatusPending.IsTerminal() {
		t.Fatal("pending payment must allow transitions")
	}
	if !PaymentStatusCompleted.IsTerminal() || !PaymentStatusFailed.IsTerminal() {
		t.Fatal("completed and failed are terminal per payment attempt")
	}
}
