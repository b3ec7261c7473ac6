package notifications

import (
	"errors"
	"testing"

	"github.com/you/credsvc/domain"
)

func TestSMTPService_NoHostLogsInstead(t *testing.T) {
	svc := NewSMTPService("", 587, "", "")

	if err := svc.Send("user@example.com", "no-reply@example.com", "Verify your email", "<p>code</p>"); err != nil {
		t.Fatalf("mock-mode Send failed: %v", err)
	}
}

func TestSMTPService_UnreachableRelayIsDeliveryError(t *testing.T) {
	// Port 1 on localhost refuses connections.
	svc := NewSMTPService("127.0.0.1", 1, "user", "pass")

	err := svc.Send("user@example.com", "no-reply@example.com", "Verify your email", "<p>code</p>")
	if !errors.Is(err, domain.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
}
