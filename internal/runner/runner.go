package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/catalog"
	"github.com/nholik/stock-sentinel/internal/fetch"
	"github.com/nholik/stock-sentinel/internal/healthcheck"
	"github.com/nholik/stock-sentinel/internal/metrics"
	"github.com/nholik/stock-sentinel/internal/notify"
	"github.com/nholik/stock-sentinel/internal/state"
	"github.com/nholik/stock-sentinel/internal/stock"
	"github.com/nholik/stock-sentinel/internal/transition"
)

// Ticker is the minimal interface needed for driving the runner loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

// CycleReport summarizes a single check cycle.
type CycleReport struct {
	Checked     int
	Transitions []transition.Transition
	Errors      map[string]error
}

// Failed reports whether any product in the cycle could not be checked.
func (r CycleReport) Failed() bool {
	return len(r.Errors) > 0
}

// Runner checks every product in order, persists observations, and dispatches
// notifications for availability transitions.
type Runner struct {
	logger           zerolog.Logger
	pollInterval     time.Duration
	productDelay     time.Duration
	tickerFactory    func(time.Duration) Ticker
	products         []catalog.Product
	fetcher          fetch.Fetcher
	headlessFetcher  fetch.Fetcher
	stateStore       state.Store
	notifier         notify.Notifier
	notifyOutOfStock bool
	metrics          *metrics.Metrics
	tracker          *healthcheck.Tracker
	now              func() time.Time
}

// Option customizes runner behavior.
type Option func(*Runner)

// WithTickerFactory overrides how tickers are created.
func WithTickerFactory(factory func(time.Duration) Ticker) Option {
	return func(r *Runner) {
		r.tickerFactory = factory
	}
}

// WithNotifier sets the notification channel for detected transitions.
func WithNotifier(notifier notify.Notifier) Option {
	return func(r *Runner) {
		r.notifier = notifier
	}
}

// WithHeadlessFetcher sets the fetcher used for products marked headless.
func WithHeadlessFetcher(fetcher fetch.Fetcher) Option {
	return func(r *Runner) {
		r.headlessFetcher = fetcher
	}
}

// WithProductDelay inserts a pause between consecutive product checks.
func WithProductDelay(delay time.Duration) Option {
	return func(r *Runner) {
		r.productDelay = delay
	}
}

// WithNotifyOutOfStock enables notifications for available → unavailable
// transitions in addition to restocks.
func WithNotifyOutOfStock(enabled bool) Option {
	return func(r *Runner) {
		r.notifyOutOfStock = enabled
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(collector *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = collector
	}
}

// WithTracker attaches a health tracker updated after each cycle.
func WithTracker(tracker *healthcheck.Tracker) Option {
	return func(r *Runner) {
		r.tracker = tracker
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New constructs a Runner for the given catalog, fetcher, and state store.
func New(logger zerolog.Logger, pollInterval time.Duration, products []catalog.Product, fetcher fetch.Fetcher, store state.Store, opts ...Option) *Runner {
	r := &Runner{
		logger:       logger,
		pollInterval: pollInterval,
		products:     products,
		fetcher:      fetcher,
		stateStore:   store,
		tickerFactory: func(d time.Duration) Ticker {
			return timeTicker{ticker: time.NewTicker(d)}
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts the polling loop and blocks until the context is canceled. The
// first cycle runs immediately; subsequent cycles follow the poll interval.
func (r *Runner) Run(ctx context.Context) error {
	if r.pollInterval <= 0 {
		return errors.New("poll interval must be greater than zero")
	}

	if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error().Err(err).Msg("initial check cycle failed")
	}

	ticker := r.tickerFactory(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("runner stopped")
			return nil
		case <-ticker.C():
			if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error().Err(err).Msg("check cycle failed")
			}
		}
	}
}

// RunOnce executes a single check cycle over all products. A failure on one
// product never prevents checking the rest; per-product failures are collected
// in the report. The returned error is non-nil only when the cycle could not
// run at all.
func (r *Runner) RunOnce(ctx context.Context) (CycleReport, error) {
	started := r.now()
	report := CycleReport{Errors: map[string]error{}}

	current, err := r.stateStore.Load(ctx)
	if err != nil {
		return report, err
	}
	if current.Products == nil {
		current.Products = map[string]state.ProductSnapshot{}
	}

	var pending []transition.Transition

	for i, product := range r.products {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 && r.productDelay > 0 {
			if err := sleepWithContext(ctx, r.productDelay); err != nil {
				return report, err
			}
		}

		obs, err := r.checkProduct(ctx, product)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Errors[product.ID] = err
			continue
		}
		report.Checked++
		r.metrics.IncChecks(product.ID, string(obs.Status))

		change, changed := transition.Detect(current, product, obs)

		current.Products[product.ID] = state.ProductSnapshot{
			Status:    obs.Status,
			Price:     obs.Price,
			CheckedAt: obs.ObservedAt,
		}
		if err := r.stateStore.Save(ctx, current); err != nil {
			r.logger.Error().Err(err).Str("product", product.ID).Msg("state save failed")
			report.Errors[product.ID] = err
			continue
		}

		if !changed {
			r.logger.Debug().
				Str("product", product.ID).
				Str("status", string(obs.Status)).
				Msg("status unchanged")
			continue
		}

		r.metrics.IncTransitions(product.ID, string(change.Kind))
		report.Transitions = append(report.Transitions, change)

		event := r.logger.Info()
		if change.Kind == transition.KindOutOfStock {
			event = r.logger.Warn()
		}
		event.
			Str("product", product.ID).
			Str("previous_status", string(change.Previous)).
			Str("current_status", string(change.Current)).
			Msg("availability transition detected")

		if change.Kind == transition.KindRestock || r.notifyOutOfStock {
			pending = append(pending, change)
		}
	}

	if len(pending) > 0 && r.notifier != nil {
		// State is already persisted; a notification failure must not
		// replay transitions on the next cycle.
		if err := r.notifier.Notify(ctx, pending); err != nil {
			r.logger.Error().Err(err).Int("transitions", len(pending)).Msg("notification dispatch failed")
		}
	}

	duration := r.now().Sub(started)
	r.metrics.ObserveCycleDuration(duration)
	r.tracker.RecordCycle(duration, report.Checked)
	if !report.Failed() {
		r.metrics.SetLastSuccessfulCycleTimestamp(r.now())
	}

	r.logger.Info().
		Int("checked", report.Checked).
		Int("transitions", len(report.Transitions)).
		Int("errors", len(report.Errors)).
		Dur("duration", duration).
		Msg("check cycle complete")

	return report, nil
}

func (r *Runner) checkProduct(ctx context.Context, product catalog.Product) (stock.Observation, error) {
	fetcher := r.fetcher
	if product.Headless && r.headlessFetcher != nil {
		fetcher = r.headlessFetcher
	}

	page, err := fetcher.Fetch(ctx, product)
	if err != nil {
		r.metrics.IncFetchErrors(product.ID)
		r.logger.Warn().Err(err).
			Str("product", product.ID).
			Str("url", product.URL).
			Msg("page fetch failed")
		return stock.Observation{}, err
	}

	obs, err := stock.Extract(product.ID, page.Body, product.Rule, r.now().UTC())
	if err != nil {
		r.metrics.IncParseErrors(product.ID)
		r.logger.Error().Err(err).
			Str("product", product.ID).
			Str("url", product.URL).
			Msg("availability markers missing, page structure may have changed")
		return stock.Observation{}, err
	}

	return obs, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
