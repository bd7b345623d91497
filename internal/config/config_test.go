package config

import (
	"strings"
	"testing"
	"time"
)

const testProducts = `[{"name":"Test Butter","url":"https://shop.example.com/butter"}]`

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SS_PRODUCTS_JSON", testProducts)
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PollInterval != 300*time.Second {
		t.Fatalf("expected default poll interval 300s, got %s", cfg.PollInterval)
	}
	if cfg.ProductDelay != 2*time.Second {
		t.Fatalf("expected default product delay 2s, got %s", cfg.ProductDelay)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("expected default fetch timeout 10s, got %s", cfg.FetchTimeout)
	}
	if cfg.StateFile != "stock-sentinel-state.json" {
		t.Fatalf("unexpected default state file %q", cfg.StateFile)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected default smtp %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if cfg.SingleCheck || cfg.DryRun || cfg.NotifyOutOfStock {
		t.Fatalf("expected boolean toggles to default to false")
	}
	if cfg.UserAgent == "" {
		t.Fatalf("expected a default user agent")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SS_POLL_INTERVAL", "45s")
	t.Setenv("SS_PRODUCT_DELAY", "0")
	t.Setenv("SS_SINGLE_CHECK", "true")
	t.Setenv("SS_DRY_RUN", "1")
	t.Setenv("SS_STATE_FILE", "/var/lib/sentinel/state.json")
	t.Setenv("SS_HEALTH_PORT", "8080")
	t.Setenv("SS_METRICS_PORT", "9090")
	t.Setenv("SS_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("expected 45s poll interval, got %s", cfg.PollInterval)
	}
	if cfg.ProductDelay != 0 {
		t.Fatalf("expected zero product delay, got %s", cfg.ProductDelay)
	}
	if !cfg.SingleCheck || !cfg.DryRun {
		t.Fatalf("expected single-check and dry-run to be enabled")
	}
	if cfg.StateFile != "/var/lib/sentinel/state.json" {
		t.Fatalf("unexpected state file %q", cfg.StateFile)
	}
	if cfg.HealthPort != 8080 || cfg.MetricsPort != 9090 {
		t.Fatalf("unexpected ports %d/%d", cfg.HealthPort, cfg.MetricsPort)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoadBareSecondsInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SS_POLL_INTERVAL", "600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 600*time.Second {
		t.Fatalf("expected 600s, got %s", cfg.PollInterval)
	}
}

func TestLoadRequiresProducts(t *testing.T) {
	t.Setenv("SS_PRODUCTS_JSON", "")
	t.Setenv("SS_PRODUCTS_FILE", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when no product source configured")
	}
}

func TestLoadEmailValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("SS_SENDER_EMAIL", "bot@example.com")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SS_SENDER_PASSWORD") {
		t.Fatalf("expected sender password error, got %v", err)
	}

	t.Setenv("SS_SENDER_PASSWORD", "app-password")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SS_RECIPIENT_EMAIL") {
		t.Fatalf("expected recipient error, got %v", err)
	}

	t.Setenv("SS_RECIPIENT_EMAIL", "alerts@example.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SMTP.Recipient != "alerts@example.com" {
		t.Fatalf("unexpected recipient %q", cfg.SMTP.Recipient)
	}
}

func TestLoadTelegramValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("SS_TELEGRAM_BOT_TOKEN", "123:abc")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SS_TELEGRAM_CHAT_ID") {
		t.Fatalf("expected chat id error, got %v", err)
	}

	t.Setenv("SS_TELEGRAM_CHAT_ID", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for chat id")
	}

	t.Setenv("SS_TELEGRAM_CHAT_ID", "-1001234567890")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.ChatID != -1001234567890 {
		t.Fatalf("unexpected chat id %d", cfg.Telegram.ChatID)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SS_POLL_INTERVAL": "soon",
		"SS_FETCH_TIMEOUT": "0s",
		"SS_HEALTH_PORT":   "70000",
		"SS_SMTP_PORT":     "abc",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
