package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/catalog"
	"github.com/nholik/stock-sentinel/internal/config"
	"github.com/nholik/stock-sentinel/internal/fetch"
	"github.com/nholik/stock-sentinel/internal/fetch/headless"
	"github.com/nholik/stock-sentinel/internal/healthcheck"
	"github.com/nholik/stock-sentinel/internal/logging"
	"github.com/nholik/stock-sentinel/internal/metrics"
	"github.com/nholik/stock-sentinel/internal/notify"
	"github.com/nholik/stock-sentinel/internal/runner"
	"github.com/nholik/stock-sentinel/internal/server"
	"github.com/nholik/stock-sentinel/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New()
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.NewWithLevel(cfg.LogLevel)
	logger.Info().
		Bool("single_check", cfg.SingleCheck).
		Bool("dry_run", cfg.DryRun).
		Dur("poll_interval", cfg.PollInterval).
		Msg("stock-sentinel starting")

	products, err := catalog.Load(cfg.ProductsJSON, cfg.ProductsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid product catalog")
	}
	logger.Info().Int("products", len(products)).Msg("catalog loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewFileStore(cfg.StateFile, logger)

	httpFetcher, err := fetch.NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent, 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid fetcher configuration")
	}

	var collector *metrics.Metrics
	if cfg.MetricsPort > 0 {
		collector = metrics.New()
	}
	var tracker *healthcheck.Tracker
	if cfg.HealthPort > 0 {
		tracker = healthcheck.NewTracker()
	}

	opts := []runner.Option{
		runner.WithNotifier(buildNotifier(logger, cfg, collector)),
		runner.WithProductDelay(cfg.ProductDelay),
		runner.WithNotifyOutOfStock(cfg.NotifyOutOfStock),
		runner.WithMetrics(collector),
		runner.WithTracker(tracker),
	}

	if needsHeadless(products) {
		renderer, err := headless.New(headless.Config{
			BrowserPath: cfg.BrowserPath,
			UserAgent:   cfg.UserAgent,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("headless browser setup failed")
		}
		defer renderer.Close()
		opts = append(opts, runner.WithHeadlessFetcher(renderer))
	}

	r := runner.New(logger, cfg.PollInterval, products, httpFetcher, store, opts...)

	if cfg.SingleCheck {
		report, err := r.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("check cycle could not run")
		}
		// Per-product failures are reported but do not change the exit
		// code; cron should only alert on configuration problems.
		logger.Info().
			Int("checked", report.Checked).
			Int("transitions", len(report.Transitions)).
			Int("errors", len(report.Errors)).
			Msg("single check complete")
		return
	}

	server.Start(ctx, logger, cfg.PollInterval, tracker, collector, cfg.HealthPort, cfg.MetricsPort)

	if err := r.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("runner failed")
	}
}

func needsHeadless(products []catalog.Product) bool {
	for _, product := range products {
		if product.Headless {
			return true
		}
	}
	return false
}

func buildNotifier(logger zerolog.Logger, cfg config.Config, collector *metrics.Metrics) notify.Notifier {
	if cfg.DryRun {
		return notify.NewDryRunNotifier(logger)
	}

	var notifiers []notify.Notifier

	if cfg.SMTP.Sender != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(logger, notify.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Sender:    cfg.SMTP.Sender,
			Password:  cfg.SMTP.Password,
			Recipient: cfg.SMTP.Recipient,
		}))
	}

	if cfg.Telegram.BotToken != "" {
		telegram, err := notify.NewTelegramNotifier(logger, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram setup failed")
		}
		notifiers = append(notifiers, telegram)
	}

	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(logger, cfg.SlackWebhookURL))
	}

	if cfg.WebhookURL != "" {
		webhook, err := notify.NewWebhookNotifier(logger, cfg.WebhookURL, cfg.WebhookTemplate)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid webhook template")
		}
		if webhook != nil {
			notifiers = append(notifiers, webhook)
		}
	}

	if len(notifiers) == 0 {
		return notify.NewNoop(logger, "no notification channels configured")
	}

	return notify.NewMultiNotifier(logger, notifiers,
		notify.WithResultHook(func(channel string, err error) {
			outcome := "success"
			if err != nil {
				outcome = "failure"
			}
			collector.IncNotifications(channel, outcome)
		}))
}
