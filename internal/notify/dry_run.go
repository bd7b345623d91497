package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// DryRunNotifier logs transitions without sending notifications.
type DryRunNotifier struct {
	logger zerolog.Logger
}

// NewDryRunNotifier returns a notifier that suppresses delivery and logs instead.
func NewDryRunNotifier(logger zerolog.Logger) *DryRunNotifier {
	return &DryRunNotifier{logger: logger}
}

// Name implements Notifier.
func (n *DryRunNotifier) Name() string {
	return "dry-run"
}

// Notify implements Notifier.
func (n *DryRunNotifier) Notify(_ context.Context, transitions []transition.Transition) error {
	for _, change := range transitions {
		n.logger.Info().
			Str("product", change.ProductID).
			Str("previous_status", string(change.Previous)).
			Str("current_status", string(change.Current)).
			Str("kind", string(change.Kind)).
			Str("url", change.URL).
			Msg("[DRY-RUN] Would notify")
	}
	return nil
}
