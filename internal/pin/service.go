package pin

import (
	"context"
	"fmt"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/notification"
)

// Service drives the PIN lifecycle against the wallet store: setup with
// confirmation, verification, and unlock sessions.
type Service struct {
	store    ledger.Store
	sessions Sessions
	notifier notification.Notifier
}

// NewService constructs a PIN service.
func NewService(store ledger.Store, sessions Sessions, notifier notification.Notifier) *Service {
	return &Service{store: store, sessions: sessions, notifier: notifier}
}

// Setup creates the wallet's PIN from an entry and its confirmation. A
// mismatch persists nothing: the wallet stays without a PIN. On success the
// hash is stored and the wallet is unlocked for the session.
func (s *Service) Setup(ctx context.Context, ownerID, entry, confirm string) error {
	w, err := s.store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return err
	}
	if w.HasPIN() {
		return ErrAlreadySet
	}

	gate := NewGate(nil)
	if _, err := feed(gate, entry); err != nil {
		return err
	}
	event, err := feed(gate, confirm)
	if err != nil {
		s.notifyMismatch(ctx, ownerID)
		return err
	}
	if event != EventPinSet {
		return fmt.Errorf("pin setup incomplete")
	}

	hash, err := HashPIN(gate.ConfirmedPIN())
	if err != nil {
		return err
	}
	if err := s.store.SetPIN(ctx, w.ID, hash); err != nil {
		return err
	}
	return s.sessions.Open(ctx, w.ID)
}

// Verify compares an entry against the stored PIN and opens an unlock session
// on match. A mismatch is recoverable; the caller re-prompts.
func (s *Service) Verify(ctx context.Context, ownerID, entry string) error {
	w, err := s.store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return err
	}
	if !w.HasPIN() {
		return ErrNotSet
	}

	gate := NewGate(w.PINHash)
	event, err := feed(gate, entry)
	if err != nil {
		s.notifyMismatch(ctx, ownerID)
		return err
	}
	if event != EventUnlocked {
		return fmt.Errorf("pin entry incomplete")
	}
	return s.sessions.Open(ctx, w.ID)
}

// Unlocked reports whether the owner's wallet currently has a live unlock
// session. A wallet with no PIN set is never locked.
func (s *Service) Unlocked(ctx context.Context, ownerID string) (bool, error) {
	w, err := s.store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if !w.HasPIN() {
		return true, nil
	}
	return s.sessions.IsUnlocked(ctx, w.ID)
}

func (s *Service) notifyMismatch(ctx context.Context, ownerID string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindPinMismatch,
		Destination: ownerID,
		Body:        "The PIN entered does not match, please try again",
	})
}

// feed presses a full entry into the gate digit by digit and returns the
// event raised by its final digit.
func feed(g *Gate, entry string) (Event, error) {
	if len(entry) != PinLength {
		return EventNone, fmt.Errorf("pin must be exactly %d digits", PinLength)
	}
	var event Event
	var err error
	for i := 0; i < len(entry); i++ {
		if event, err = g.Press(entry[i]); err != nil {
			return EventNone, err
		}
	}
	return event, nil
}
