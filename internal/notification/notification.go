package notification

import (
	"context"
	"log/slog"
)

const (
	// KindRewardEarned indicates a performance reward was credited.
	KindRewardEarned = "reward_earned"
	// KindPurchase indicates a gift-card purchase completed.
	KindPurchase = "purchase"
	// KindTopUp indicates a guardian credited the wallet.
	KindTopUp = "top_up"
	// KindPinMismatch indicates a failed PIN entry.
	KindPinMismatch = "pin_mismatch"
)

// Message describes a user-facing notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems. Delivery failures
// never block the operation that triggered them.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
