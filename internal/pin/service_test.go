package pin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/notification"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func newTestService() (*Service, ledger.Store) {
	store := ledger.NewMemoryStore()
	return NewService(store, NewMemorySessions(time.Minute), &testNotifier{}), store
}

func TestSetupPersistsHashAndUnlocks(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	ownerID := uuid.NewString()

	if err := svc.Setup(ctx, ownerID, "1234", "1234"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	w, err := store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !w.HasPIN() {
		t.Fatal("pin hash not persisted")
	}
	if string(w.PINHash) == "1234" {
		t.Fatal("pin stored in plaintext")
	}

	unlocked, err := svc.Unlocked(ctx, ownerID)
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if !unlocked {
		t.Fatal("successful setup must open an unlock session")
	}
}

func TestSetupMismatchLeavesWalletWithoutPin(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	ownerID := uuid.NewString()

	if err := svc.Setup(ctx, ownerID, "1234", "5678"); !errors.Is(err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", err)
	}

	w, _ := store.GetOrCreateWallet(ctx, ownerID)
	if w.HasPIN() {
		t.Fatal("mismatched confirmation must not persist a PIN")
	}
}

func TestSetupTwiceFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerID := uuid.NewString()

	if err := svc.Setup(ctx, ownerID, "1234", "1234"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := svc.Setup(ctx, ownerID, "9999", "9999"); !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("expected ErrAlreadySet, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	store := ledger.NewMemoryStore()
	sessions := NewMemorySessions(time.Minute)
	svc := NewService(store, sessions, nil)
	ctx := context.Background()
	ownerID := uuid.NewString()

	if err := svc.Verify(ctx, ownerID, "1234"); !errors.Is(err, ErrNotSet) {
		t.Fatalf("expected ErrNotSet, got %v", err)
	}

	if err := svc.Setup(ctx, ownerID, "1234", "1234"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Verify(ctx, ownerID, "5678"); !errors.Is(err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", err)
	}
	if err := svc.Verify(ctx, ownerID, "1234"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	unlocked, err := svc.Unlocked(ctx, ownerID)
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if !unlocked {
		t.Fatal("verify must open an unlock session")
	}
}

func TestUnlockedWithoutPinIsOpen(t *testing.T) {
	svc, _ := newTestService()
	unlocked, err := svc.Unlocked(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if !unlocked {
		t.Fatal("a wallet with no PIN has nothing to lock")
	}
}

func TestUnlockSessionExpires(t *testing.T) {
	store := ledger.NewMemoryStore()
	sessions := NewMemorySessions(-time.Second) // already expired
	svc := NewService(store, sessions, nil)
	ctx := context.Background()
	ownerID := uuid.NewString()

	if err := svc.Setup(ctx, ownerID, "1234", "1234"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	unlocked, err := svc.Unlocked(ctx, ownerID)
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if unlocked {
		t.Fatal("expired session must lock the wallet again")
	}
}
