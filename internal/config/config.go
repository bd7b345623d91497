package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPollInterval     = "SS_POLL_INTERVAL"
	envProductDelay     = "SS_PRODUCT_DELAY"
	envSingleCheck      = "SS_SINGLE_CHECK"
	envDryRun           = "SS_DRY_RUN"
	envNotifyOutOfStock = "SS_NOTIFY_OUT_OF_STOCK"
	envStateFile        = "SS_STATE_FILE"
	envUserAgent        = "SS_USER_AGENT"
	envFetchTimeout     = "SS_FETCH_TIMEOUT"
	envProductsJSON     = "SS_PRODUCTS_JSON"
	envProductsFile     = "SS_PRODUCTS_FILE"
	envSMTPHost         = "SS_SMTP_HOST"
	envSMTPPort         = "SS_SMTP_PORT"
	envSenderEmail      = "SS_SENDER_EMAIL"
	envSenderPassword   = "SS_SENDER_PASSWORD"
	envRecipientEmail   = "SS_RECIPIENT_EMAIL"
	envTelegramToken    = "SS_TELEGRAM_BOT_TOKEN"
	envTelegramChatID   = "SS_TELEGRAM_CHAT_ID"
	envSlackWebhookURL  = "SS_SLACK_WEBHOOK_URL"
	envWebhookURL       = "SS_WEBHOOK_URL"
	envWebhookTemplate  = "SS_WEBHOOK_TEMPLATE"
	envBrowserPath      = "SS_BROWSER_PATH"
	envHealthPort       = "SS_HEALTH_PORT"
	envMetricsPort      = "SS_METRICS_PORT"
	envLogLevel         = "SS_LOG_LEVEL"
)

const (
	defaultPollInterval = 300 * time.Second
	defaultProductDelay = 2 * time.Second
	defaultFetchTimeout = 10 * time.Second
	defaultStateFile    = "stock-sentinel-state.json"
	defaultSMTPHost     = "smtp.gmail.com"
	defaultSMTPPort     = 587
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// SMTP holds email delivery settings.
type SMTP struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// Telegram holds bot API settings.
type Telegram struct {
	BotToken string
	ChatID   int64
}

// Config describes runtime configuration loaded from the environment. It is
// built once at startup and passed explicitly to every component.
type Config struct {
	PollInterval     time.Duration
	ProductDelay     time.Duration
	SingleCheck      bool
	DryRun           bool
	NotifyOutOfStock bool
	StateFile        string
	UserAgent        string
	FetchTimeout     time.Duration
	ProductsJSON     string
	ProductsFile     string
	SMTP             SMTP
	Telegram         Telegram
	SlackWebhookURL  string
	WebhookURL       string
	WebhookTemplate  string
	BrowserPath      string
	HealthPort       int
	MetricsPort      int
	LogLevel         string
}

// Load reads configuration from environment variables and a local .env file if present.
// Existing environment variables take precedence over values in .env.
func Load() (Config, error) {
	if err := loadDotEnvIfPresent(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		PollInterval: defaultPollInterval,
		ProductDelay: defaultProductDelay,
		FetchTimeout: defaultFetchTimeout,
		StateFile:    defaultStateFile,
		UserAgent:    defaultUserAgent,
		SMTP: SMTP{
			Host: defaultSMTPHost,
			Port: defaultSMTPPort,
		},
	}

	var err error
	if cfg.PollInterval, err = durationEnv(envPollInterval, cfg.PollInterval); err != nil {
		return Config{}, err
	}
	if cfg.ProductDelay, err = durationEnv(envProductDelay, cfg.ProductDelay); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = durationEnv(envFetchTimeout, cfg.FetchTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("%s must be greater than zero", envPollInterval)
	}
	if cfg.ProductDelay < 0 {
		return Config{}, fmt.Errorf("%s cannot be negative", envProductDelay)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be greater than zero", envFetchTimeout)
	}

	cfg.SingleCheck = boolEnv(envSingleCheck)
	cfg.DryRun = boolEnv(envDryRun)
	cfg.NotifyOutOfStock = boolEnv(envNotifyOutOfStock)

	if value, ok := lookupTrimmed(envStateFile); ok {
		cfg.StateFile = value
	}
	if value, ok := lookupTrimmed(envUserAgent); ok {
		cfg.UserAgent = value
	}
	if value, ok := lookupTrimmed(envProductsJSON); ok {
		cfg.ProductsJSON = value
	}
	if value, ok := lookupTrimmed(envProductsFile); ok {
		cfg.ProductsFile = value
	}
	if cfg.ProductsJSON == "" && cfg.ProductsFile == "" {
		return Config{}, fmt.Errorf("%s or %s is required", envProductsJSON, envProductsFile)
	}

	if value, ok := lookupTrimmed(envSMTPHost); ok {
		cfg.SMTP.Host = value
	}
	if cfg.SMTP.Port, err = intEnv(envSMTPPort, cfg.SMTP.Port); err != nil {
		return Config{}, err
	}
	if value, ok := lookupTrimmed(envSenderEmail); ok {
		cfg.SMTP.Sender = value
	}
	if value, ok := lookupTrimmed(envSenderPassword); ok {
		cfg.SMTP.Password = value
	}
	if value, ok := lookupTrimmed(envRecipientEmail); ok {
		cfg.SMTP.Recipient = value
	}
	if cfg.SMTP.Sender != "" {
		if cfg.SMTP.Password == "" {
			return Config{}, fmt.Errorf("%s is required when %s is set", envSenderPassword, envSenderEmail)
		}
		if cfg.SMTP.Recipient == "" {
			return Config{}, fmt.Errorf("%s is required when %s is set", envRecipientEmail, envSenderEmail)
		}
	}

	if value, ok := lookupTrimmed(envTelegramToken); ok {
		cfg.Telegram.BotToken = value
	}
	if value, ok := lookupTrimmed(envTelegramChatID); ok {
		chatID, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envTelegramChatID, parseErr)
		}
		cfg.Telegram.ChatID = chatID
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID == 0 {
		return Config{}, fmt.Errorf("%s is required when %s is set", envTelegramChatID, envTelegramToken)
	}

	if value, ok := lookupTrimmed(envSlackWebhookURL); ok {
		cfg.SlackWebhookURL = value
	}
	if value, ok := lookupTrimmed(envWebhookURL); ok {
		cfg.WebhookURL = value
	}
	if value, ok := lookupTrimmed(envWebhookTemplate); ok {
		cfg.WebhookTemplate = value
	}
	if value, ok := lookupTrimmed(envBrowserPath); ok {
		cfg.BrowserPath = value
	}
	if value, ok := lookupTrimmed(envLogLevel); ok {
		cfg.LogLevel = value
	}

	if cfg.HealthPort, err = intEnv(envHealthPort, 0); err != nil {
		return Config{}, err
	}
	if cfg.MetricsPort, err = intEnv(envMetricsPort, 0); err != nil {
		return Config{}, err
	}
	if cfg.HealthPort < 0 || cfg.HealthPort > 65535 {
		return Config{}, fmt.Errorf("%s out of range", envHealthPort)
	}
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return Config{}, fmt.Errorf("%s out of range", envMetricsPort)
	}

	return cfg, nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func boolEnv(key string) bool {
	value, ok := lookupTrimmed(key)
	if !ok {
		return false
	}
	return strings.EqualFold(value, "true") || value == "1"
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return fallback, nil
	}
	// Accept bare seconds for compatibility with plain cron environments.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func intEnv(key string, fallback int) (int, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func loadDotEnvIfPresent(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return nil
	}

	return err
}
