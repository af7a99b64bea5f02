// Package pin implements the parent PIN gate protecting wallet mutations:
// PIN creation with confirmation, verification against the stored hash, and
// the digit-by-digit state machine both flows share.
package pin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PinLength is the fixed number of digits in a parent PIN.
const PinLength = 4

var (
	// ErrPinMismatch is returned when the confirmation entry differs from the
	// first entry, or a verification entry differs from the stored PIN. The
	// pending entry is cleared and the gate stays in its current state.
	ErrPinMismatch = errors.New("pin mismatch")

	// ErrNotDigit is returned for a key press outside 0-9.
	ErrNotDigit = errors.New("pin accepts digits only")

	// ErrAlreadySet indicates a setup attempt on a wallet that has a PIN.
	ErrAlreadySet = errors.New("pin already set")

	// ErrNotSet indicates a verification attempt with no stored PIN.
	ErrNotSet = errors.New("pin not set")
)

// State names a position in the PIN lifecycle.
type State string

const (
	// StateNoPin: no PIN stored; the first key press starts creation.
	StateNoPin State = "no_pin"
	// StateCreating: collecting the first entry of a new PIN.
	StateCreating State = "creating"
	// StateConfirming: collecting the confirmation entry.
	StateConfirming State = "confirming"
	// StateVerifying: a PIN exists; collecting an entry to compare against it.
	StateVerifying State = "verifying"
	// StateUnlocked: terminal; wallet mutations are permitted.
	StateUnlocked State = "unlocked"
)

// Event reports what a key press triggered.
type Event int

const (
	// EventNone: digit accepted, entry still incomplete.
	EventNone Event = iota
	// EventAwaitingConfirm: first entry complete, confirmation expected next.
	EventAwaitingConfirm
	// EventPinSet: confirmation matched; the new PIN is ready to persist and
	// the gate is unlocked.
	EventPinSet
	// EventUnlocked: verification entry matched the stored PIN.
	EventUnlocked
)

// Gate is the per-session PIN state machine. It holds no storage reference;
// persisting a confirmed PIN is the caller's job (see Service). Validation
// only ever fires on the fourth digit of an entry — nothing leaves Confirming
// or Verifying without a complete entry.
type Gate struct {
	state State
	entry []byte
	first string
	pin   string
	hash  []byte
}

// NewGate starts a gate session for a wallet. A wallet without a stored hash
// starts at NoPin; otherwise every session starts at Verifying.
func NewGate(pinHash []byte) *Gate {
	if len(pinHash) == 0 {
		return &Gate{state: StateNoPin}
	}
	return &Gate{state: StateVerifying, hash: pinHash}
}

// State returns the gate's current state.
func (g *Gate) State() State { return g.state }

// Entered returns how many digits of the pending entry have been collected.
func (g *Gate) Entered() int { return len(g.entry) }

// ConfirmedPIN returns the plaintext PIN after EventPinSet so the caller can
// hash and persist it. Empty in every other state.
func (g *Gate) ConfirmedPIN() string { return g.pin }

// Press feeds one digit into the gate and reports the resulting event. A
// mismatch clears the pending entry and returns ErrPinMismatch without
// changing state; the user retries with a fresh 4-digit entry.
func (g *Gate) Press(digit byte) (Event, error) {
	if digit < '0' || digit > '9' {
		return EventNone, ErrNotDigit
	}
	if g.state == StateUnlocked {
		return EventUnlocked, nil
	}

	if g.state == StateNoPin {
		g.state = StateCreating
	}

	g.entry = append(g.entry, digit)
	if len(g.entry) < PinLength {
		return EventNone, nil
	}

	entry := string(g.entry)
	g.entry = g.entry[:0]

	switch g.state {
	case StateCreating:
		g.first = entry
		g.state = StateConfirming
		return EventAwaitingConfirm, nil
	case StateConfirming:
		if entry != g.first {
			return EventNone, ErrPinMismatch
		}
		g.pin = entry
		g.state = StateUnlocked
		return EventPinSet, nil
	default: // StateVerifying
		if bcrypt.CompareHashAndPassword(g.hash, []byte(entry)) != nil {
			return EventNone, ErrPinMismatch
		}
		g.state = StateUnlocked
		return EventUnlocked, nil
	}
}

// HashPIN derives the storable hash for a confirmed PIN. bcrypt embeds a
// random salt per hash.
func HashPIN(pin string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
}
