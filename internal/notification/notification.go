package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/congo-pay/congo_ledger/internal/money"
)

const (
	// KindTransferCompleted is emitted once both legs of a transfer are stored.
	KindTransferCompleted = "transfer_completed"
	// KindTransferPartiallyFailed is emitted when a transfer debited the source
	// but neither the credit nor the compensating write could be stored.
	KindTransferPartiallyFailed = "transfer_partially_failed"
)

// Event describes a transfer outcome.
type Event struct {
	Kind       string      `json:"kind"`
	TransferID string      `json:"transfer_id"`
	From       uint64      `json:"from"`
	To         uint64      `json:"to"`
	Amount     money.Money `json:"amount"`
	OccurredAt time.Time   `json:"occurred_at"`
	Detail     string      `json:"detail,omitempty"`
}

// Notifier delivers transfer events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier writes events to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if event.Kind == KindTransferPartiallyFailed {
		level = slog.LevelError
	}
	n.logger.Log(ctx, level, "notification",
		slog.String("kind", event.Kind),
		slog.String("transfer_id", event.TransferID),
		slog.Uint64("from", event.From),
		slog.Uint64("to", event.To),
		slog.String("amount", event.Amount.String()),
		slog.String("detail", event.Detail),
	)
	return nil
}
