package notify

import (
	"context"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// Notifier delivers stock transition alerts to an external channel.
type Notifier interface {
	// Name identifies the channel for logging and metrics.
	Name() string
	Notify(ctx context.Context, transitions []transition.Transition) error
}
