package pin

import (
	"errors"
	"testing"
)

func press(t *testing.T, g *Gate, entry string) (Event, error) {
	t.Helper()
	var event Event
	var err error
	for i := 0; i < len(entry); i++ {
		event, err = g.Press(entry[i])
		if err != nil {
			return event, err
		}
	}
	return event, nil
}

func TestGateCreationFlow(t *testing.T) {
	g := NewGate(nil)
	if g.State() != StateNoPin {
		t.Fatalf("expected NoPin, got %s", g.State())
	}

	// First key press starts creation.
	if _, err := g.Press('1'); err != nil {
		t.Fatalf("press: %v", err)
	}
	if g.State() != StateCreating {
		t.Fatalf("expected Creating, got %s", g.State())
	}

	event, err := press(t, g, "234")
	if err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if event != EventAwaitingConfirm || g.State() != StateConfirming {
		t.Fatalf("expected confirm prompt, got event=%d state=%s", event, g.State())
	}

	event, err = press(t, g, "1234")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if event != EventPinSet || g.State() != StateUnlocked {
		t.Fatalf("expected PinSet+Unlocked, got event=%d state=%s", event, g.State())
	}
	if g.ConfirmedPIN() != "1234" {
		t.Fatalf("expected confirmed pin 1234, got %q", g.ConfirmedPIN())
	}
}

func TestGateConfirmMismatchStaysInConfirming(t *testing.T) {
	g := NewGate(nil)
	if _, err := press(t, g, "1234"); err != nil {
		t.Fatalf("first entry: %v", err)
	}

	if _, err := press(t, g, "5678"); !errors.Is(err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", err)
	}
	if g.State() != StateConfirming {
		t.Fatalf("mismatch must keep the gate in Confirming, got %s", g.State())
	}
	if g.Entered() != 0 {
		t.Fatalf("mismatch must clear the pending entry, %d digits remain", g.Entered())
	}

	// Retry with the matching confirmation succeeds.
	event, err := press(t, g, "1234")
	if err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if event != EventPinSet {
		t.Fatalf("expected PinSet after retry, got %d", event)
	}
}

func TestGateVerifyFlow(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	g := NewGate(hash)
	if g.State() != StateVerifying {
		t.Fatalf("expected Verifying, got %s", g.State())
	}

	if _, err := press(t, g, "9999"); !errors.Is(err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", err)
	}
	if g.State() != StateVerifying || g.Entered() != 0 {
		t.Fatalf("mismatch must clear input and stay Verifying, state=%s entered=%d", g.State(), g.Entered())
	}

	event, err := press(t, g, "1234")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if event != EventUnlocked || g.State() != StateUnlocked {
		t.Fatalf("expected Unlocked, got event=%d state=%s", event, g.State())
	}
}

func TestGateNoValidationBeforeFourthDigit(t *testing.T) {
	hash, _ := HashPIN("1234")
	g := NewGate(hash)

	for _, d := range []byte("999") {
		event, err := g.Press(d)
		if err != nil || event != EventNone {
			t.Fatalf("partial entry must not validate: event=%d err=%v", event, err)
		}
	}
	if g.Entered() != 3 {
		t.Fatalf("expected 3 pending digits, got %d", g.Entered())
	}
}

func TestGateRejectsNonDigits(t *testing.T) {
	g := NewGate(nil)
	if _, err := g.Press('x'); !errors.Is(err, ErrNotDigit) {
		t.Fatalf("expected ErrNotDigit, got %v", err)
	}
	if g.Entered() != 0 {
		t.Fatalf("rejected press must not consume entry space, got %d", g.Entered())
	}
}
