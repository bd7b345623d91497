package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// NoopNotifier drops notifications.
type NoopNotifier struct {
	logger zerolog.Logger
	reason string
}

// NewNoop returns a notifier that logs once and does nothing thereafter.
func NewNoop(logger zerolog.Logger, reason string) *NoopNotifier {
	if reason != "" {
		logger.Info().Msg(reason)
	}
	return &NoopNotifier{logger: logger, reason: reason}
}

// Name implements Notifier.
func (n *NoopNotifier) Name() string {
	return "noop"
}

// Notify implements Notifier.
func (n *NoopNotifier) Notify(_ context.Context, _ []transition.Transition) error {
	return nil
}
