package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// MultiNotifier fans out notifications to multiple channels. Every channel is
// attempted regardless of failures on the others; the first error is returned
// after all channels have been tried.
type MultiNotifier struct {
	logger    zerolog.Logger
	notifiers []Notifier
	onResult  func(channel string, err error)
}

// MultiOption customizes MultiNotifier behavior.
type MultiOption func(*MultiNotifier)

// WithResultHook registers a callback invoked once per channel per dispatch,
// used to record delivery metrics.
func WithResultHook(hook func(channel string, err error)) MultiOption {
	return func(m *MultiNotifier) {
		m.onResult = hook
	}
}

// NewMultiNotifier creates a notifier that dispatches to all provided notifiers.
func NewMultiNotifier(logger zerolog.Logger, notifiers []Notifier, opts ...MultiOption) *MultiNotifier {
	filtered := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier == nil {
			continue
		}
		filtered = append(filtered, notifier)
	}
	m := &MultiNotifier{logger: logger, notifiers: filtered}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Notifier.
func (m *MultiNotifier) Name() string {
	return "multi"
}

// Notify implements Notifier.
func (m *MultiNotifier) Notify(ctx context.Context, transitions []transition.Transition) error {
	var firstErr error
	for _, notifier := range m.notifiers {
		err := notifier.Notify(ctx, transitions)
		if m.onResult != nil {
			m.onResult(notifier.Name(), err)
		}
		if err != nil {
			m.logger.Error().
				Err(err).
				Str("channel", notifier.Name()).
				Int("transitions", len(transitions)).
				Msg("notification channel failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
